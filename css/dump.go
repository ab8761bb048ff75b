package css

import (
	"strings"

	"scopecss/utils/debug"
)

// Dump returns an indented textual tree of the sheet for debugging.
func (s *Sheet) Dump() string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "Sheet (%d items)", s.Len())
	for _, it := range s.Items() {
		switch it := it.(type) {
		case *Block:
			dumpBlock(tw, 1, it)
		case *Rule:
			dumpRule(tw, 1, it)
		}
	}
	return tw.String()
}

func dumpBlock(tw *debug.TreeWriter, depth int, b *Block) {
	sels := make([]string, 0, len(b.Condition))
	for _, sel := range b.Condition {
		sels = append(sels, sel.String())
	}
	tw.List(depth, "Block", "dangling", sels)
	for _, c := range b.Content {
		switch c := c.(type) {
		case *StyleAttribute:
			tw.TextBlock(depth+1, c.Key, c.Value.String())
		case *Rule:
			dumpRule(tw, depth+1, c)
		case *Block:
			dumpBlock(tw, depth+1, c)
		}
	}
}

func dumpRule(tw *debug.TreeWriter, depth int, r *Rule) {
	tw.Line(depth, "Rule %q", strings.TrimSpace(r.Condition.String()))
	for _, c := range r.Content {
		switch c := c.(type) {
		case *Block:
			dumpBlock(tw, depth+1, c)
		case *Rule:
			dumpRule(tw, depth+1, c)
		case RawText:
			tw.TextBlock(depth+1, "raw", string(c))
		}
	}
}
