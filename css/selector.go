package css

import "strings"

const rootPseudo = ":root"

// substitute replaces every "&" outside of quoted strings with with. When
// root is not empty ":root" is replaced by root as well. It reports whether
// anything was replaced.
func substitute(sel, with, root string) (string, bool) {
	var (
		b        strings.Builder
		replaced bool
		quote    byte
	)
	for i := 0; i < len(sel); i++ {
		c := sel[i]
		switch {
		case quote != 0:
			if c == '\\' && i+1 < len(sel) {
				b.WriteByte(c)
				i++
				c = sel[i]
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '\\' && i+1 < len(sel):
			b.WriteByte(c)
			i++
			c = sel[i]
		case c == '&':
			b.WriteString(with)
			replaced = true
			continue
		case root != "" && isRootAt(sel, i):
			b.WriteString(root)
			replaced = true
			i += len(rootPseudo) - 1
			continue
		}
		b.WriteByte(c)
	}
	if !replaced {
		return sel, false
	}
	return b.String(), true
}

func isRootAt(sel string, i int) bool {
	if !strings.HasPrefix(sel[i:], rootPseudo) {
		return false
	}
	if i > 0 && sel[i-1] == ':' {
		return false
	}
	next := i + len(rootPseudo)
	return next == len(sel) || !isNameByte(sel[next])
}

func isNameByte(c byte) bool {
	return c == '-' || c == '_' || c >= 0x80 ||
		'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// scopeSelector rewrites a top level selector for the scoping class, e.g.
// ".c1". An empty class means a global style rooted at html.
func scopeSelector(sel, class string) string {
	if class == "" {
		out, _ := substitute(sel, "html", "")
		return out
	}
	if out, ok := substitute(sel, class, class); ok {
		return out
	}
	if strings.HasPrefix(sel, ":") {
		return class + sel
	}
	return class + " " + sel
}

// nestSelector resolves sel relative to one resolved parent selector.
func nestSelector(sel, parent, class string) string {
	if out, ok := substitute(sel, parent, class); ok {
		return out
	}
	if strings.HasPrefix(sel, ":") {
		return parent + sel
	}
	return parent + " " + sel
}

// resolveSelectors combines every parent with every child selector,
// parent-major. Without parents the selectors are scoped to class.
func resolveSelectors(parents, sels []string, class string) []string {
	if parents == nil {
		out := make([]string, len(sels))
		for i, sel := range sels {
			out[i] = scopeSelector(sel, class)
		}
		return out
	}
	out := make([]string, 0, len(parents)*len(sels))
	for _, p := range parents {
		for _, sel := range sels {
			out = append(out, nestSelector(sel, p, class))
		}
	}
	return out
}

// classSelector turns a class name into a selector, "c1" becomes ".c1".
func classSelector(class string) string {
	if class == "" || strings.HasPrefix(class, ".") {
		return class
	}
	return "." + class
}
