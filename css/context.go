package css

import "strings"

// Context is the position of a rendered item: the at-rule conditions
// enclosing it and the resolved selectors of the block it belongs to.
// Contexts are values, deriving a child never changes the parent.
type Context struct {
	class     string // scoping selector, ".c1", empty for global styles
	rules     []string
	selectors []string // nil outside of any block
	keyframes bool
}

// NewContext returns the root context for the scoping class name. An empty
// name renders a global style.
func NewContext(className string) Context {
	return Context{class: classSelector(className)}
}

// WithRuleCondition enters an at-rule. At-rules inside a block bubble up:
// the condition wraps the block selector instead of being nested in it.
// Inside @keyframes conditions are kept in order.
func (c Context) WithRuleCondition(cond string) Context {
	if c.keyframes && c.selectors != nil {
		// frame selector is already part of the rules path
		c.rules = appendPath(c.rules, c.selectorHeader())
		c.selectors = nil
	}
	c.rules = appendPath(c.rules, cond)
	return c
}

// WithKeyframes enters a @keyframes rule. Frame selectors inside it are
// never scoped.
func (c Context) WithKeyframes(cond string) Context {
	c.rules = appendPath(c.rules, cond)
	c.selectors = nil
	c.keyframes = true
	return c
}

// WithBlockCondition enters a block. An empty selector list keeps the
// current selectors, or defaults to the scoping class (html for global
// styles) at the root.
func (c Context) WithBlockCondition(sels []string) Context {
	switch {
	case c.keyframes:
		c.selectors = sels
	case len(sels) == 0:
		if c.selectors == nil {
			c.selectors = []string{c.defaultSelector()}
		}
	default:
		c.selectors = resolveSelectors(c.selectors, sels, c.class)
	}
	return c
}

func (c Context) defaultSelector() string {
	if c.class == "" {
		return "html"
	}
	return c.class
}

// Path returns the headers that must be open to write declarations in this
// context, outermost first.
func (c Context) Path() []string {
	if c.selectors == nil {
		return c.rules
	}
	return appendPath(c.rules, c.selectorHeader())
}

func (c Context) selectorHeader() string {
	return strings.Join(c.selectors, ", ")
}

// Selectors returns the resolved selectors of the current block.
func (c Context) Selectors() []string {
	return c.selectors
}

func appendPath(path []string, s string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, s)
}

// condStack tracks the headers currently open in the output and writes only
// the difference between consecutive paths.
type condStack struct {
	w      *errWriter
	indent string
	open   []string
}

// enter makes path the open path. Headers shared with the open path stay
// open unless they lie at or below fresh, a fresh index forces that header
// to be reopened. Use -1 for none.
func (s *condStack) enter(path []string, fresh int) {
	common := 0
	for common < len(s.open) && common < len(path) && s.open[common] == path[common] {
		common++
	}
	if fresh >= 0 && common > fresh {
		common = fresh
	}
	s.closeTo(common)
	for i := common; i < len(path); i++ {
		s.writeIndent(i)
		s.w.write(path[i])
		s.w.write(" {\n")
		s.open = append(s.open, path[i])
	}
}

// closeTo closes headers until depth of them remain open.
func (s *condStack) closeTo(depth int) {
	for len(s.open) > depth {
		s.open = s.open[:len(s.open)-1]
		s.writeIndent(len(s.open))
		s.w.write("}\n")
	}
}

// finish closes everything.
func (s *condStack) finish() {
	s.closeTo(0)
}

// line writes a single line at the depth of the open path.
func (s *condStack) line(parts ...string) {
	s.writeIndent(len(s.open))
	for _, p := range parts {
		s.w.write(p)
	}
	s.w.write("\n")
}

func (s *condStack) writeIndent(depth int) {
	if s.indent == "" {
		return
	}
	for range depth {
		s.w.write(s.indent)
	}
}
