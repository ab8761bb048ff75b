package css

import "strings"

// Fragment is a piece of selector, value or at-rule condition text: either
// literal text or a named interpolation placeholder.
type Fragment struct {
	Literal string
	Name    string // placeholder name, Literal is empty when set
}

// Text returns a literal fragment.
func Text(s string) Fragment {
	return Fragment{Literal: s}
}

// Placeholder returns an interpolation fragment.
func Placeholder(name string) Fragment {
	return Fragment{Name: name}
}

// IsPlaceholder reports whether f is an interpolation placeholder.
func (f Fragment) IsPlaceholder() bool {
	return f.Name != ""
}

// String returns the source form of the fragment, placeholders are written
// back as ${name}.
func (f Fragment) String() string {
	if f.Name != "" {
		return "${" + f.Name + "}"
	}
	return f.Literal
}

// Fragments is an ordered sequence of fragments.
type Fragments []Fragment

// String concatenates the source form of all fragments.
func (fs Fragments) String() string {
	var b strings.Builder
	for _, f := range fs {
		b.WriteString(f.String())
	}
	return b.String()
}

// Selector is one alternative of a comma-separated selector list.
type Selector struct {
	Fragments Fragments
}

// NewSelector is a convenience constructor for a literal selector.
func NewSelector(s string) Selector {
	return Selector{Fragments: Fragments{Text(s)}}
}

func (s Selector) String() string {
	return s.Fragments.String()
}

// StyleAttribute is a single declaration, e.g. "color: red".
type StyleAttribute struct {
	Key   string
	Value Fragments
}

// ScopeContent is an item of a sheet: *Block or *Rule.
type ScopeContent interface {
	isScopeContent()
}

// RuleContent is an item of an at-rule body: *Block, *Rule or RawText.
type RuleContent interface {
	isRuleContent()
}

// BlockContent is an item of a block body: *StyleAttribute, *Rule or a
// nested *Block.
type BlockContent interface {
	isBlockContent()
}

// Block is a qualified rule. An empty Condition applies the declarations to
// the current scope (dangling declarations).
type Block struct {
	Condition []Selector
	Content   []BlockContent
}

// Rule is an at-rule. Condition always starts with "@name ".
type Rule struct {
	Condition Fragments
	Content   []RuleContent
}

// RawText is an unparsed at-rule body, written out verbatim.
type RawText string

// Name returns the lower-cased at-rule name without "@", e.g. "media".
func (r *Rule) Name() string {
	if len(r.Condition) == 0 || r.Condition[0].IsPlaceholder() {
		return ""
	}
	name, _, _ := strings.Cut(strings.TrimPrefix(r.Condition[0].Literal, "@"), " ")
	return strings.ToLower(name)
}

// IsKeyframes reports whether the rule is a @keyframes rule.
func (r *Rule) IsKeyframes() bool {
	return r.Name() == "keyframes"
}

// IsStatement reports whether the rule has no body and ends with ';', like
// "@import url(a.css);".
func (r *Rule) IsStatement() bool {
	if len(r.Content) > 0 || len(r.Condition) == 0 {
		return false
	}
	last := r.Condition[len(r.Condition)-1]
	return !last.IsPlaceholder() && strings.HasSuffix(last.Literal, ";")
}

// isNested reports whether the rule body is parsed as a nested scope.
func (r *Rule) isNested() bool {
	switch r.Name() {
	case "media", "supports":
		return true
	}
	return false
}

func (*Block) isScopeContent() {}
func (*Rule) isScopeContent()  {}

func (*Block) isRuleContent() {}
func (*Rule) isRuleContent()  {}
func (RawText) isRuleContent() {}

func (*StyleAttribute) isBlockContent() {}
func (*Rule) isBlockContent()           {}
func (*Block) isBlockContent()          {}

// Sheet is a complete parsed stylesheet. A *Sheet is never modified after
// construction, so it is safe to share between goroutines and cheap to pass
// around: copying the pointer is the clone.
type Sheet struct {
	items []ScopeContent
}

// NewSheet builds a sheet from items.
func NewSheet(items ...ScopeContent) *Sheet {
	return &Sheet{items: append([]ScopeContent(nil), items...)}
}

// Items returns the top-level items. The returned slice must not be
// modified.
func (s *Sheet) Items() []ScopeContent {
	if s == nil {
		return nil
	}
	return s.items[:len(s.items):len(s.items)]
}

// Len returns the number of top-level items.
func (s *Sheet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// StyleString renders the sheet scoped to className, or as a global style
// when className is empty.
func (s *Sheet) StyleString(className string) string {
	return RenderString(s, className)
}
