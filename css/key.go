package css

import (
	"encoding/binary"
	"strings"

	"github.com/google/uuid"
)

// keySpace is the namespace of sheet keys.
var keySpace = uuid.MustParse("5b1f7c3e-2f0a-4f6c-9a55-3c1d7e0b8a42")

// Key returns a name based UUID derived from the structure of the sheet.
// Structurally equal sheets always have the same key, so it can be used to
// cache rendered styles and to derive class names.
func (s *Sheet) Key() uuid.UUID {
	var e keyEncoder
	for _, it := range s.Items() {
		switch it := it.(type) {
		case *Block:
			e.block(it)
		case *Rule:
			e.rule(it)
		}
	}
	return uuid.NewSHA1(keySpace, []byte(e.b.String()))
}

// keyEncoder writes a tagged, length prefixed encoding of the tree so that
// different trees can never produce the same byte sequence.
type keyEncoder struct {
	b strings.Builder
}

func (e *keyEncoder) tag(c byte, n int) {
	e.b.WriteByte(c)
	var buf [binary.MaxVarintLen64]byte
	e.b.Write(buf[:binary.PutUvarint(buf[:], uint64(n))])
}

func (e *keyEncoder) str(s string) {
	e.tag('s', len(s))
	e.b.WriteString(s)
}

func (e *keyEncoder) fragments(fs Fragments) {
	e.tag('f', len(fs))
	for _, f := range fs {
		if f.IsPlaceholder() {
			e.b.WriteByte('$')
			e.str(f.Name)
		} else {
			e.str(f.Literal)
		}
	}
}

func (e *keyEncoder) block(b *Block) {
	e.tag('B', len(b.Condition))
	for _, sel := range b.Condition {
		e.fragments(sel.Fragments)
	}
	e.tag('c', len(b.Content))
	for _, c := range b.Content {
		switch c := c.(type) {
		case *StyleAttribute:
			e.b.WriteByte('A')
			e.str(c.Key)
			e.fragments(c.Value)
		case *Rule:
			e.rule(c)
		case *Block:
			e.block(c)
		}
	}
}

func (e *keyEncoder) rule(r *Rule) {
	e.b.WriteByte('R')
	e.fragments(r.Condition)
	e.tag('c', len(r.Content))
	for _, c := range r.Content {
		switch c := c.(type) {
		case *Block:
			e.block(c)
		case *Rule:
			e.rule(c)
		case RawText:
			e.b.WriteByte('T')
			e.str(string(c))
		}
	}
}
