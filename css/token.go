package css

import "strconv"

// Kind is the kind of a lexical token.
type Kind int

const (
	KindIdent         Kind = iota // color, --custom, -webkit-box
	KindAtKeyword                 // @media
	KindHash                      // #fff, #id
	KindString                    // "quoted" or 'quoted'
	KindNumber                    // 1, 1.5em, 50%
	KindURL                       // url(unquoted)
	KindPunct                     // : ; , & > + ~ * . and friends
	KindSpace                     // run of whitespace
	KindComment                   // /* ... */
	KindGroup                     // (...), [...], {...} and fn(...)
	KindInterpolation             // ${name}
	KindEscape                    // $${name}, literal "${name}"
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindIdent:
		return "Ident"
	case KindAtKeyword:
		return "AtKeyword"
	case KindHash:
		return "Hash"
	case KindString:
		return "String"
	case KindNumber:
		return "Number"
	case KindURL:
		return "URL"
	case KindPunct:
		return "Punct"
	case KindSpace:
		return "Space"
	case KindComment:
		return "Comment"
	case KindGroup:
		return "Group"
	case KindInterpolation:
		return "Interpolation"
	case KindEscape:
		return "Escape"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Span is a half-open byte range [Start, End) in the source text.
type Span struct {
	Start int
	End   int
}

// Token is a single lexical token. Groups carry their interior eagerly
// tokenized in Children.
type Token struct {
	Kind Kind
	Text string // exact source text, for groups including both delimiters
	Span Span

	Open     byte    // group opening delimiter: '(', '[' or '{'
	Func     string  // function name for fn(...) groups
	Name     string  // placeholder name of an interpolation
	Children []Token // group interior
}

// IsPunct reports whether t is the punctuation c.
func (t Token) IsPunct(c byte) bool {
	return t.Kind == KindPunct && len(t.Text) == 1 && t.Text[0] == c
}

// IsBlock reports whether t is a {...} group.
func (t Token) IsBlock() bool {
	return t.Kind == KindGroup && t.Open == '{'
}

// IsTrivia reports whether t is whitespace or a comment.
func (t Token) IsTrivia() bool {
	return t.Kind == KindSpace || t.Kind == KindComment
}

// opening returns the source text of the group opener, e.g. "rgb(" or "[".
func (t Token) opening() string {
	return t.Text[:len(t.Func)+1]
}

// closing returns the source text of the group closer.
func (t Token) closing() string {
	return t.Text[len(t.Text)-1:]
}

// innerSpan is the span between the group delimiters.
func (t Token) innerSpan() Span {
	return Span{Start: t.Span.Start + len(t.Func) + 1, End: t.Span.End - 1}
}

func closerFor(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	default:
		return '}'
	}
}
