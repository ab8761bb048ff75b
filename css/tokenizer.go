package css

import (
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// DefaultMaxDepth limits nesting of (), [] and {} groups.
const DefaultMaxDepth = 128

// Tokenize splits src into a token tree using the default nesting limit.
func Tokenize(src string) ([]Token, error) {
	return tokenize(src, DefaultMaxDepth)
}

type groupFrame struct {
	tok      Token
	children []Token
}

// tokenizer drives the lossless CSS lexer and folds its flat output into
// groups, interpolations and escapes. Offsets are tracked by summing token
// lengths, the lexer never skips input.
type tokenizer struct {
	src      string
	lex      *css.Lexer
	off      int
	maxDepth int
	stack    []*groupFrame
}

func tokenize(src string, maxDepth int) ([]Token, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	t := &tokenizer{
		src:      src,
		lex:      css.NewLexer(parse.NewInputString(src)),
		maxDepth: maxDepth,
		stack:    []*groupFrame{{}},
	}
	if err := t.run(); err != nil {
		return nil, err
	}
	return t.stack[0].children, nil
}

func (t *tokenizer) errorf(offset int, format string, args ...any) *ParseError {
	return newParseError(t.src, offset, format, args...)
}

func (t *tokenizer) emit(tok Token) {
	top := t.stack[len(t.stack)-1]
	top.children = append(top.children, tok)
}

func (t *tokenizer) run() error {
	for {
		tt, data := t.lex.Next()
		if tt == css.ErrorToken {
			if err := t.lex.Err(); err != nil && err != io.EOF {
				return t.errorf(t.off, "%v", err)
			}
			break
		}
		start := t.off
		t.off += len(data)
		text := t.src[start:t.off]
		tok := Token{Text: text, Span: Span{Start: start, End: t.off}}

		switch tt {
		case css.IdentToken, css.CustomPropertyNameToken:
			tok.Kind = KindIdent
		case css.AtKeywordToken:
			tok.Kind = KindAtKeyword
		case css.HashToken:
			tok.Kind = KindHash
		case css.StringToken:
			if !terminatedString(text) {
				return t.errorf(start, "unterminated string")
			}
			tok.Kind = KindString
		case css.BadStringToken:
			return t.errorf(start, "unterminated string")
		case css.URLToken:
			if !strings.HasSuffix(text, ")") {
				return t.errorf(start, "unterminated url()")
			}
			tok.Kind = KindURL
		case css.BadURLToken:
			return t.errorf(start, "malformed url()")
		case css.NumberToken, css.PercentageToken, css.DimensionToken, css.UnicodeRangeToken:
			tok.Kind = KindNumber
		case css.WhitespaceToken:
			tok.Kind = KindSpace
		case css.CommentToken:
			if len(text) < 4 || !strings.HasSuffix(text, "*/") {
				return t.errorf(start, "unterminated comment")
			}
			tok.Kind = KindComment
		case css.FunctionToken:
			tok.Func = text[:len(text)-1]
			if err := t.push(tok, '('); err != nil {
				return err
			}
			continue
		case css.LeftParenthesisToken, css.LeftBracketToken, css.LeftBraceToken:
			if err := t.push(tok, text[0]); err != nil {
				return err
			}
			continue
		case css.RightParenthesisToken, css.RightBracketToken, css.RightBraceToken:
			if err := t.pop(start, text[0]); err != nil {
				return err
			}
			continue
		case css.DelimToken:
			if text == "$" {
				if err := t.dollar(start); err != nil {
					return err
				}
				continue
			}
			tok.Kind = KindPunct
		default:
			tok.Kind = KindPunct
		}
		t.emit(tok)
	}

	if len(t.stack) > 1 {
		open := t.stack[len(t.stack)-1].tok
		return t.errorf(open.Span.Start, "unclosed '%c'", open.Open)
	}
	return nil
}

func (t *tokenizer) push(tok Token, open byte) error {
	if len(t.stack) > t.maxDepth {
		return t.errorf(tok.Span.Start, "nesting deeper than %d levels", t.maxDepth)
	}
	tok.Kind = KindGroup
	tok.Open = open
	t.stack = append(t.stack, &groupFrame{tok: tok})
	return nil
}

func (t *tokenizer) pop(offset int, closer byte) error {
	if len(t.stack) == 1 {
		return t.errorf(offset, "unexpected '%c'", closer)
	}
	frame := t.stack[len(t.stack)-1]
	if want := closerFor(frame.tok.Open); want != closer {
		return t.errorf(offset, "unexpected '%c', expected '%c' to close '%c' at offset %d",
			closer, want, frame.tok.Open, frame.tok.Span.Start)
	}
	t.stack = t.stack[:len(t.stack)-1]

	g := frame.tok
	g.Span.End = t.off
	g.Text = t.src[g.Span.Start:t.off]
	g.Children = frame.children
	t.emit(g)
	return nil
}

// dollar handles a '$' delimiter: "$${" is an escaped interpolation opener,
// "${name}" a placeholder, anything else plain punctuation.
func (t *tokenizer) dollar(start int) error {
	rest := t.src[start:]
	switch {
	case strings.HasPrefix(rest, "$${"):
		// only "$${name}" is an escape, it becomes the literal "${name}"
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			return t.errorf(start, "malformed escape")
		}
		if name := rest[3:end]; name == "" || !css.IsIdent([]byte(name)) {
			return t.errorf(start, "malformed escape %q", rest[:end+1])
		}
		if !t.skipTo(start + end + 1) {
			return t.errorf(start, "malformed escape")
		}
		t.emit(Token{Kind: KindEscape, Text: rest[:end+1], Span: Span{Start: start, End: start + end + 1}})
	case strings.HasPrefix(rest, "${"):
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			return t.errorf(start, "unterminated interpolation")
		}
		name := rest[2:end]
		if name == "" || !css.IsIdent([]byte(name)) {
			return t.errorf(start+2, "invalid interpolation name %q", name)
		}
		if !t.skipTo(start + end + 1) {
			return t.errorf(start, "malformed interpolation")
		}
		t.emit(Token{Kind: KindInterpolation, Text: rest[:end+1], Name: name, Span: Span{Start: start, End: start + end + 1}})
	default:
		t.emit(Token{Kind: KindPunct, Text: "$", Span: Span{Start: start, End: start + 1}})
	}
	return nil
}

// skipTo advances the lexer until offset end and reports whether a token
// boundary was hit exactly.
func (t *tokenizer) skipTo(end int) bool {
	for t.off < end {
		tt, data := t.lex.Next()
		if tt == css.ErrorToken {
			break
		}
		t.off += len(data)
	}
	return t.off == end
}

func terminatedString(s string) bool {
	if len(s) < 2 || s[len(s)-1] != s[0] {
		return false
	}
	// count escapes in front of the closing quote
	n := 0
	for i := len(s) - 2; i > 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 0
}
