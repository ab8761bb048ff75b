package css

import "slices"

// Equal reports whether two sheets are structurally identical. A nil sheet
// equals an empty one.
func (s *Sheet) Equal(o *Sheet) bool {
	if s == o {
		return true
	}
	return slices.EqualFunc(s.Items(), o.Items(), scopeContentEqual)
}

func scopeContentEqual(a, b ScopeContent) bool {
	switch a := a.(type) {
	case *Block:
		b, ok := b.(*Block)
		return ok && a.Equal(b)
	case *Rule:
		b, ok := b.(*Rule)
		return ok && a.Equal(b)
	}
	return false
}

// Equal reports whether two blocks are structurally identical.
func (b *Block) Equal(o *Block) bool {
	if b == nil || o == nil {
		return b == o
	}
	return slices.EqualFunc(b.Condition, o.Condition, Selector.Equal) &&
		slices.EqualFunc(b.Content, o.Content, blockContentEqual)
}

func blockContentEqual(a, b BlockContent) bool {
	switch a := a.(type) {
	case *StyleAttribute:
		b, ok := b.(*StyleAttribute)
		return ok && a.Equal(b)
	case *Rule:
		b, ok := b.(*Rule)
		return ok && a.Equal(b)
	case *Block:
		b, ok := b.(*Block)
		return ok && a.Equal(b)
	}
	return false
}

// Equal reports whether two rules are structurally identical.
func (r *Rule) Equal(o *Rule) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.Condition.Equal(o.Condition) &&
		slices.EqualFunc(r.Content, o.Content, ruleContentEqual)
}

func ruleContentEqual(a, b RuleContent) bool {
	switch a := a.(type) {
	case *Block:
		b, ok := b.(*Block)
		return ok && a.Equal(b)
	case *Rule:
		b, ok := b.(*Rule)
		return ok && a.Equal(b)
	case RawText:
		b, ok := b.(RawText)
		return ok && a == b
	}
	return false
}

// Equal reports whether two declarations are identical.
func (a *StyleAttribute) Equal(o *StyleAttribute) bool {
	if a == nil || o == nil {
		return a == o
	}
	return a.Key == o.Key && a.Value.Equal(o.Value)
}

// Equal compares selectors fragment by fragment.
func (s Selector) Equal(o Selector) bool {
	return s.Fragments.Equal(o.Fragments)
}

// Equal compares fragment sequences.
func (fs Fragments) Equal(o Fragments) bool {
	return slices.Equal(fs, o)
}
