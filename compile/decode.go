package compile

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/ianaindex"
)

const charsetRule = `@charset "`

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// detectCharset returns encoding label from byte order mark or leading
// @charset rule, empty when nothing is specified.
func detectCharset(data []byte) string {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return "utf-8"
	case bytes.HasPrefix(data, bomUTF16LE):
		return "utf-16le"
	case bytes.HasPrefix(data, bomUTF16BE):
		return "utf-16be"
	}
	if !bytes.HasPrefix(data, []byte(charsetRule)) {
		return ""
	}
	rest := data[len(charsetRule):]
	end := bytes.Index(rest, []byte(`";`))
	if end <= 0 || bytes.ContainsAny(rest[:end], "\"\n") {
		return ""
	}
	label := strings.ToLower(string(rest[:end]))
	// rule is written in ascii compatible encoding, so it cannot be utf-16
	if strings.HasPrefix(label, "utf-16") {
		return "utf-8"
	}
	return label
}

// decodeStyle converts stylesheet to UTF-8 text. Encoding comes from label
// when set, otherwise it is detected, UTF-8 is assumed when nothing is
// specified. Byte order mark and leading @charset rule are removed, result is
// always UTF-8. Returned name is canonical name of used encoding.
func decodeStyle(data []byte, label string) (string, string, error) {
	if len(label) == 0 {
		label = detectCharset(data)
	}

	text, name, err := decodeWith(data, label)
	if err != nil {
		return "", "", err
	}
	text = strings.TrimPrefix(text, "\uFEFF")
	return stripCharsetRule(text), name, nil
}

func decodeWith(data []byte, label string) (string, string, error) {
	if len(label) == 0 || strings.EqualFold(label, "utf-8") {
		if !utf8.Valid(data) {
			return "", "", fmt.Errorf("input is not valid UTF-8, specify its encoding")
		}
		return string(data), "utf-8", nil
	}

	if enc, name := charset.Lookup(label); enc != nil {
		r, err := charset.NewReaderLabel(label, bytes.NewReader(data))
		if err != nil {
			return "", "", fmt.Errorf("unable to decode input as %s: %w", name, err)
		}
		out, err := io.ReadAll(r)
		if err != nil {
			return "", "", fmt.Errorf("unable to decode input as %s: %w", name, err)
		}
		return string(out), name, nil
	}

	// not in WHATWG list, try wider IANA registry
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil || enc == nil {
		return "", "", fmt.Errorf("unknown character set %q", label)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", fmt.Errorf("unable to decode input as %s: %w", label, err)
	}
	name, err := ianaindex.IANA.Name(enc)
	if err != nil {
		name = label
	}
	return string(out), name, nil
}

// stripCharsetRule removes leading @charset rule, it has no meaning once text
// is decoded.
func stripCharsetRule(text string) string {
	if !strings.HasPrefix(text, charsetRule) {
		return text
	}
	end := strings.Index(text, `";`)
	if end < 0 || strings.ContainsAny(text[len(charsetRule):end], "\"\n") {
		return text
	}
	return strings.TrimLeft(text[end+2:], " \t\r\n")
}
