// Package debug has helpers producing human readable dumps of parsed data.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// TreeWriter accumulates indented lines, one level per depth.
type TreeWriter struct {
	b    strings.Builder
	unit string
}

// NewTreeWriter returns writer indenting with two spaces.
func NewTreeWriter() *TreeWriter {
	return &TreeWriter{unit: "  "}
}

func (tw *TreeWriter) String() string {
	return tw.b.String()
}

func (tw *TreeWriter) indent(depth int) {
	for range depth {
		tw.b.WriteString(tw.unit)
	}
}

// Line writes formatted line at depth.
func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(&tw.b, format, args...)
	tw.b.WriteByte('\n')
}

// TextBlock writes "label: value" with value quoted, so whitespace and
// control characters are visible.
func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.b.WriteString(label)
	tw.b.WriteString(": ")
	tw.b.WriteString(strconv.Quote(value))
	tw.b.WriteByte('\n')
}

// List writes label followed by comma separated quoted items, label alone
// is written with note when there are no items.
func (tw *TreeWriter) List(depth int, label, note string, items []string) {
	tw.indent(depth)
	tw.b.WriteString(label)
	if len(items) == 0 {
		if len(note) > 0 {
			tw.b.WriteString(" (" + note + ")")
		}
		tw.b.WriteByte('\n')
		return
	}
	for i, it := range items {
		if i == 0 {
			tw.b.WriteByte(' ')
		} else {
			tw.b.WriteString(", ")
		}
		tw.b.WriteString(strconv.Quote(it))
	}
	tw.b.WriteByte('\n')
}
