package css_test

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"scopecss/css"
)

func mustParse(t *testing.T, text string) *css.Sheet {
	t.Helper()
	sheet, err := css.Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", text, err)
	}
	return sheet
}

func lit(s string) css.Fragments {
	return css.Fragments{css.Text(s)}
}

func TestParser_DanglingDeclarations(t *testing.T) {
	sheet := mustParse(t, "color:red;")

	want := css.NewSheet(&css.Block{
		Content: []css.BlockContent{&css.StyleAttribute{Key: "color", Value: lit("red")}},
	})
	if !sheet.Equal(want) {
		t.Errorf("Parse = %s, want %s", sheet.Dump(), want.Dump())
	}
}

func TestParser_SelectorList(t *testing.T) {
	sheet := mustParse(t, "div, span { color: yellow; }")

	want := css.NewSheet(&css.Block{
		Condition: []css.Selector{css.NewSelector("div"), css.NewSelector("span")},
		Content:   []css.BlockContent{&css.StyleAttribute{Key: "color", Value: lit("yellow")}},
	})
	if !sheet.Equal(want) {
		t.Errorf("Parse = %s, want %s", sheet.Dump(), want.Dump())
	}
}

func TestParser_EmptyBlock(t *testing.T) {
	sheet := mustParse(t, ".nested {}")

	if sheet.Len() != 1 {
		t.Fatalf("items = %d, want 1", sheet.Len())
	}
	b, ok := sheet.Items()[0].(*css.Block)
	if !ok {
		t.Fatalf("item is %T, want *css.Block", sheet.Items()[0])
	}
	if len(b.Condition) != 1 || b.Condition[0].String() != ".nested" {
		t.Errorf("condition = %v, want [.nested]", b.Condition)
	}
	if len(b.Content) != 0 {
		t.Errorf("content = %v, want empty", b.Content)
	}
}

func TestParser_Grammar(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *css.Sheet
	}{
		{
			name:  "dangling run ends at block",
			input: "color: red; width: 1px; a { b: c } height: 2px;",
			want: css.NewSheet(
				&css.Block{Content: []css.BlockContent{
					&css.StyleAttribute{Key: "color", Value: lit("red")},
					&css.StyleAttribute{Key: "width", Value: lit("1px")},
				}},
				&css.Block{
					Condition: []css.Selector{css.NewSelector("a")},
					Content:   []css.BlockContent{&css.StyleAttribute{Key: "b", Value: lit("c")}},
				},
				&css.Block{Content: []css.BlockContent{
					&css.StyleAttribute{Key: "height", Value: lit("2px")},
				}},
			),
		},
		{
			name:  "pseudo class selector is not a declaration",
			input: "a:hover { color: blue }",
			want: css.NewSheet(&css.Block{
				Condition: []css.Selector{css.NewSelector("a:hover")},
				Content:   []css.BlockContent{&css.StyleAttribute{Key: "color", Value: lit("blue")}},
			}),
		},
		{
			name:  "whitespace inside values and selectors is kept",
			input: "grid-row: 1 / 3;\n&.a  .b { margin: 0   auto; }",
			want: css.NewSheet(
				&css.Block{Content: []css.BlockContent{
					&css.StyleAttribute{Key: "grid-row", Value: lit("1 / 3")},
				}},
				&css.Block{
					Condition: []css.Selector{css.NewSelector("&.a  .b")},
					Content:   []css.BlockContent{&css.StyleAttribute{Key: "margin", Value: lit("0   auto")}},
				},
			),
		},
		{
			name:  "comments are dropped without a separator",
			input: "/* head */ a/**/b, i /* x */ u { color: /* c */ red; }",
			want: css.NewSheet(&css.Block{
				Condition: []css.Selector{css.NewSelector("ab"), css.NewSelector("i  u")},
				Content:   []css.BlockContent{&css.StyleAttribute{Key: "color", Value: lit("red")}},
			}),
		},
		{
			name:  "strings protect delimiters",
			input: `[data-x="a,b{"], p { content: "x;y"; }`,
			want: css.NewSheet(&css.Block{
				Condition: []css.Selector{css.NewSelector(`[data-x="a,b{"]`), css.NewSelector("p")},
				Content:   []css.BlockContent{&css.StyleAttribute{Key: "content", Value: lit(`"x;y"`)}},
			}),
		},
		{
			name:  "interpolation and escape",
			input: "color: ${fg}; :not(${sel}) { content: \"${lit}\"; width: $${w}; }",
			want: css.NewSheet(
				&css.Block{Content: []css.BlockContent{
					&css.StyleAttribute{Key: "color", Value: css.Fragments{css.Placeholder("fg")}},
				}},
				&css.Block{
					Condition: []css.Selector{{Fragments: css.Fragments{css.Text(":not("), css.Placeholder("sel"), css.Text(")")}}},
					Content: []css.BlockContent{
						&css.StyleAttribute{Key: "content", Value: lit(`"${lit}"`)},
						&css.StyleAttribute{Key: "width", Value: lit("${w}")},
					},
				},
			),
		},
		{
			name:  "custom property may be empty",
			input: "--gap: ; --x:1;",
			want: css.NewSheet(&css.Block{Content: []css.BlockContent{
				&css.StyleAttribute{Key: "--gap"},
				&css.StyleAttribute{Key: "--x", Value: lit("1")},
			}}),
		},
		{
			name:  "last declaration in a block needs no semicolon",
			input: "p { color: red; margin: 0 }",
			want: css.NewSheet(&css.Block{
				Condition: []css.Selector{css.NewSelector("p")},
				Content: []css.BlockContent{
					&css.StyleAttribute{Key: "color", Value: lit("red")},
					&css.StyleAttribute{Key: "margin", Value: lit("0")},
				},
			}),
		},
		{
			name:  "nested blocks and rules",
			input: "span { color: red; &:hover { color: blue; } @media print { display: none; } }",
			want: css.NewSheet(&css.Block{
				Condition: []css.Selector{css.NewSelector("span")},
				Content: []css.BlockContent{
					&css.StyleAttribute{Key: "color", Value: lit("red")},
					&css.Block{
						Condition: []css.Selector{css.NewSelector("&:hover")},
						Content:   []css.BlockContent{&css.StyleAttribute{Key: "color", Value: lit("blue")}},
					},
					&css.Rule{
						Condition: css.Fragments{css.Text("@media "), css.Text("print")},
						Content: []css.RuleContent{&css.Block{Content: []css.BlockContent{
							&css.StyleAttribute{Key: "display", Value: lit("none")},
						}}},
					},
				},
			}),
		},
		{
			name:  "nested at-rules",
			input: "@supports (display: grid) { @media (max-width: 500px) { background-color: grey; } }",
			want: css.NewSheet(&css.Rule{
				Condition: css.Fragments{css.Text("@supports "), css.Text("(display: grid)")},
				Content: []css.RuleContent{&css.Rule{
					Condition: css.Fragments{css.Text("@media "), css.Text("(max-width: 500px)")},
					Content: []css.RuleContent{&css.Block{Content: []css.BlockContent{
						&css.StyleAttribute{Key: "background-color", Value: lit("grey")},
					}}},
				}},
			}),
		},
		{
			name:  "keyframes",
			input: "@keyframes spin { from { transform: rotate(0deg) } 50%, to { transform: rotate(360deg) } }",
			want: css.NewSheet(&css.Rule{
				Condition: css.Fragments{css.Text("@keyframes "), css.Text("spin")},
				Content: []css.RuleContent{
					&css.Block{
						Condition: []css.Selector{css.NewSelector("from")},
						Content:   []css.BlockContent{&css.StyleAttribute{Key: "transform", Value: lit("rotate(0deg)")}},
					},
					&css.Block{
						Condition: []css.Selector{css.NewSelector("50%"), css.NewSelector("to")},
						Content:   []css.BlockContent{&css.StyleAttribute{Key: "transform", Value: lit("rotate(360deg)")}},
					},
				},
			}),
		},
		{
			name:  "at-rule prelude with interpolation",
			input: "@media (max-width: ${w}) { a { b: c } }",
			want: css.NewSheet(&css.Rule{
				Condition: css.Fragments{css.Text("@media "), css.Text("(max-width: "), css.Placeholder("w"), css.Text(")")},
				Content: []css.RuleContent{&css.Block{
					Condition: []css.Selector{css.NewSelector("a")},
					Content:   []css.BlockContent{&css.StyleAttribute{Key: "b", Value: lit("c")}},
				}},
			}),
		},
		{
			name:  "empty input",
			input: "  /* nothing */ ;; ",
			want:  css.NewSheet(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.input)
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) =\n%s\nwant\n%s", tt.input, got.Dump(), tt.want.Dump())
			}
		})
	}
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
		offset int
	}{
		{"unterminated attribute string", `[placeholder="unterminated`, "unterminated string", 13},
		{"missing semicolon at top level", "color: red", "expected ';' after declaration", 10},
		{"missing value", "color: ;", `expected value for "color"`, 6},
		{"unknown at-rule", "@font-face { src: x }", `unsupported at-rule "@font-face"`, 0},
		{"media without condition", "@media { }", `expected condition after "@media"`, 6},
		{"media without block", "@media print;", `expected '{' after "@media" condition`, 12},
		{"keyframes without name", "@keyframes {}", `expected name after "@keyframes"`, 10},
		{"bad keyframe selector", "@keyframes x { span { a: b } }", `invalid keyframe selector "span"`, 15},
		{"nested block in keyframe", "@keyframes x { from { a { b: c } } }", "expected declaration inside keyframe", 22},
		{"at-rule directly in keyframes", "@keyframes x { @media print {} }", "expected keyframe selector", 15},
		{"selector without block", "a b", "expected '{' after selector", 3},
		{"selector cut by at-rule", "a @media x {}", "expected '{' after selector", 2},
		{"empty selector", "a, { }", "empty selector", 3},
		{"trailing comma", "a, b, { }", "empty selector", 6},
		{"escape of non-identifier", "width: $${ foo; } span { color: red; }", `malformed escape "$${ foo; }"`, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet, err := css.Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) = %s, want error", tt.input, sheet.Dump())
			}
			var perr *css.ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error %T is not *css.ParseError", err)
			}
			if perr.Reason != tt.reason {
				t.Errorf("reason = %q, want %q", perr.Reason, tt.reason)
			}
			if perr.Offset != tt.offset {
				t.Errorf("offset = %d, want %d", perr.Offset, tt.offset)
			}
		})
	}
}

func TestParser_UnknownAtRules(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t), css.WithUnknownAtRules(true))

	sheet, err := p.Parse([]byte("@font-face {\n  font-family: x;\n  src: url(x.woff);\n}\n@import url(a.css);"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := css.NewSheet(
		&css.Rule{
			Condition: css.Fragments{css.Text("@font-face ")},
			Content:   []css.RuleContent{css.RawText("font-family: x;\n  src: url(x.woff);")},
		},
		&css.Rule{
			Condition: css.Fragments{css.Text("@import "), css.Text("url(a.css)"), css.Text(";")},
		},
	)
	if !sheet.Equal(want) {
		t.Errorf("Parse =\n%s\nwant\n%s", sheet.Dump(), want.Dump())
	}
	if !sheet.Items()[1].(*css.Rule).IsStatement() {
		t.Error("@import is not a statement")
	}
}

func TestParser_MaxDepth(t *testing.T) {
	input := strings.Repeat("a { ", 10) + strings.Repeat("} ", 10)

	if _, err := css.NewParser(nil, css.WithMaxDepth(10)).ParseString(input); err != nil {
		t.Fatalf("depth 10 with limit 10: %v", err)
	}
	_, err := css.NewParser(nil, css.WithMaxDepth(9)).ParseString(input)
	var perr *css.ParseError
	if !errors.As(err, &perr) || !strings.HasPrefix(perr.Reason, "nesting deeper than 9") {
		t.Errorf("depth 10 with limit 9: error = %v", err)
	}

	// the default limit stops adversarial input without exhausting the stack
	deep := strings.Repeat("[", 100000)
	if _, err := css.Parse(deep); err == nil {
		t.Error("expected error for deeply nested input")
	}
}

func TestParser_SourceName(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))
	_, err := p.Parse([]byte("a {\n  color: \"x\n}"), "theme.css")
	var perr *css.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *css.ParseError", err)
	}
	if perr.Source != "theme.css" {
		t.Errorf("source = %q", perr.Source)
	}
	if perr.Line != 2 || perr.Column != 10 {
		t.Errorf("position = %d:%d, want 2:10", perr.Line, perr.Column)
	}
	if got := perr.Error(); got != "theme.css:2:10: unterminated string" {
		t.Errorf("Error() = %q", got)
	}
}

func TestParser_Deterministic(t *testing.T) {
	input := `
		color: red;
		&:hover, :focus { color: blue; }
		@supports (display: grid) { @media (max-width: 500px) { span { background-color: grey; } } }
		@keyframes pulse { from { opacity: 0 } to { opacity: 1 } }
	`
	a := mustParse(t, input)
	b := mustParse(t, input)
	if !a.Equal(b) {
		t.Error("two parses of the same text differ")
	}
	if a.Key() != b.Key() {
		t.Errorf("keys differ: %s != %s", a.Key(), b.Key())
	}
}
