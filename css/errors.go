package css

import (
	"fmt"
	"strings"
	"unicode/utf8"

	parse "github.com/tdewolff/parse/v2"
)

// ParseError describes malformed input. It always points at a byte offset
// inside the source text.
type ParseError struct {
	Reason string
	Offset int
	Line   int
	Column int
	Source string // optional name of the input, e.g. file name

	context string // source line containing Offset
	caret   int    // rune column of Offset inside context, 0-based
	cause   *parse.Error
}

func newParseError(src string, offset int, format string, args ...any) *ParseError {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	reason := fmt.Sprintf(format, args...)
	cause := parse.NewError(strings.NewReader(src), offset, "%s", reason)

	start := strings.LastIndexByte(src[:offset], '\n') + 1
	end := strings.IndexByte(src[offset:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += offset
	}
	return &ParseError{
		Reason:  reason,
		Offset:  offset,
		Line:    cause.Line,
		Column:  cause.Column,
		context: strings.TrimRight(src[start:end], "\r"),
		caret:   utf8.RuneCountInString(src[start:offset]),
		cause:   cause,
	}
}

// Error implements error.
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.Source, e.Line, e.Column, e.Reason)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Reason)
}

// Unwrap returns the positional error reported by the lexer package.
func (e *ParseError) Unwrap() error {
	if e.cause == nil {
		return nil
	}
	return e.cause
}

// Diagnostic renders the error with the offending source line and a caret
// under the failing position.
func (e *ParseError) Diagnostic() string {
	var b strings.Builder
	b.WriteString(e.Error())
	b.WriteByte('\n')
	prefix := fmt.Sprintf("%5d | ", e.Line)
	b.WriteString(prefix)
	b.WriteString(strings.ReplaceAll(e.context, "\t", " "))
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", len(prefix)+e.caret))
	b.WriteString("^\n")
	return b.String()
}

// RenderError reports a failure of the sink the style string was written to.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return "unable to write style: " + e.Err.Error()
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
