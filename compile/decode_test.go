package compile

import (
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestDetectCharset(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"nothing", "a { b: c }", ""},
		{"rule", "@charset \"Windows-1251\";\na {}", "windows-1251"},
		{"utf-16 in rule", "@charset \"utf-16le\";", "utf-8"},
		{"single quotes are not a rule", "@charset 'koi8-r';", ""},
		{"space before rule", " @charset \"koi8-r\";", ""},
		{"unterminated rule", "@charset \"koi8-r\n\";", ""},
		{"utf-8 bom", "\xEF\xBB\xBFa {}", "utf-8"},
		{"utf-16le bom", "\xFF\xFEa\x00", "utf-16le"},
		{"utf-16be bom", "\xFE\xFF\x00a", "utf-16be"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectCharset([]byte(tt.data)); got != tt.want {
				t.Errorf("detectCharset(%q) = %q, want %q", tt.data, got, tt.want)
			}
		})
	}
}

func TestDecodeStyle(t *testing.T) {
	cp1251, err := charmap.Windows1251.NewEncoder().String("@charset \"windows-1251\";\na { content: \"привет\" }")
	if err != nil {
		t.Fatal(err)
	}
	cp437, err := charmap.CodePage437.NewEncoder().String("a { content: \"½\" }")
	if err != nil {
		t.Fatal(err)
	}
	plain1251, err := charmap.Windows1251.NewEncoder().String("a { content: \"мир\" }")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		data    string
		label   string
		want    string
		charset string
	}{
		{"utf-8", "a { content: \"ü\" }", "", "a { content: \"ü\" }", "utf-8"},
		{"bom removed", "\xEF\xBB\xBFa {}", "", "a {}", "utf-8"},
		{"utf-8 rule removed", "@charset \"utf-8\";\n\na {}", "", "a {}", "utf-8"},
		{"detected from rule", cp1251, "", "a { content: \"привет\" }", "windows-1251"},
		{"forced by label", plain1251, "cp1251", "a { content: \"мир\" }", "windows-1251"},
		{"label wins over rule", "@charset \"koi8-r\";a {}", "utf-8", "a {}", "utf-8"},
		{"iana only name", cp437, "IBM437", "a { content: \"½\" }", "IBM437"},
		{"utf-16le", "\xFF\xFEa\x00{\x00}\x00", "", "a{}", "utf-16le"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, name, err := decodeStyle([]byte(tt.data), tt.label)
			if err != nil {
				t.Fatalf("decodeStyle error: %v", err)
			}
			if got != tt.want {
				t.Errorf("decodeStyle = %q, want %q", got, tt.want)
			}
			if name != tt.charset {
				t.Errorf("charset = %q, want %q", name, tt.charset)
			}
		})
	}
}

func TestDecodeStyle_Errors(t *testing.T) {
	if _, _, err := decodeStyle([]byte("a { content: \"\xff\" }"), ""); err == nil {
		t.Error("invalid UTF-8 accepted")
	}
	if _, _, err := decodeStyle([]byte("a {}"), "no-such-charset"); err == nil {
		t.Error("unknown charset accepted")
	}
}
