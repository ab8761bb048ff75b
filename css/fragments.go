package css

import "strings"

// fragmentBuilder turns a token run into fragments. Adjacent literal text is
// merged, comments are dropped.
type fragmentBuilder struct {
	out Fragments
	buf strings.Builder
}

func buildFragments(toks []Token) Fragments {
	var fb fragmentBuilder
	fb.tokens(toks)
	return trimFragments(fb.finish())
}

func (fb *fragmentBuilder) tokens(toks []Token) {
	for _, tok := range toks {
		switch tok.Kind {
		case KindComment:
		case KindGroup:
			fb.buf.WriteString(tok.opening())
			fb.tokens(tok.Children)
			fb.buf.WriteString(tok.closing())
		case KindInterpolation:
			fb.flush()
			fb.out = append(fb.out, Placeholder(tok.Name))
		case KindEscape:
			fb.buf.WriteString(tok.Text[1:])
		default:
			fb.buf.WriteString(tok.Text)
		}
	}
}

func (fb *fragmentBuilder) flush() {
	if fb.buf.Len() > 0 {
		fb.out = append(fb.out, Text(fb.buf.String()))
		fb.buf.Reset()
	}
}

func (fb *fragmentBuilder) finish() Fragments {
	fb.flush()
	return fb.out
}

// trimFragments strips leading and trailing whitespace of the whole
// sequence, dropping literals that become empty.
func trimFragments(fs Fragments) Fragments {
	for len(fs) > 0 && !fs[0].IsPlaceholder() {
		s := strings.TrimLeft(fs[0].Literal, whitespace)
		if s != "" {
			fs[0].Literal = s
			break
		}
		fs = fs[1:]
	}
	for len(fs) > 0 && !fs[len(fs)-1].IsPlaceholder() {
		s := strings.TrimRight(fs[len(fs)-1].Literal, whitespace)
		if s != "" {
			fs[len(fs)-1].Literal = s
			break
		}
		fs = fs[:len(fs)-1]
	}
	if len(fs) == 0 {
		return nil
	}
	return fs
}

const whitespace = " \t\r\n\f"

// isEmpty reports whether fs carries no text at all.
func (fs Fragments) isEmpty() bool {
	for _, f := range fs {
		if f.IsPlaceholder() || strings.TrimSpace(f.Literal) != "" {
			return false
		}
	}
	return true
}
