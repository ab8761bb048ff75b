package compile

import (
	"strings"
	"testing"

	"scopecss/css"
)

func TestClassName(t *testing.T) {
	sheet := css.MustParse("a { b: c }")
	key := sheet.Key().String()

	tests := []struct {
		name     string
		global   bool
		class    string
		template string
		want     string
		wantErr  bool
	}{
		{name: "default template", want: "sc-" + key[:8]},
		{name: "global", global: true, want: ""},
		{name: "fixed class", class: "theme", want: "theme"},
		{name: "fixed class as selector", class: ".theme", want: "theme"},
		{name: "fixed class invalid", class: "a b", wantErr: true},
		{name: "name and slug", template: `{{ .Prefix }}-{{ .Name }}-{{ "Hello World" | slug }}`, want: "sc-main-theme-hello-world"},
		{name: "sprig function", template: `{{ .Prefix | upper }}_{{ .Key | trunc 4 }}`, want: "SC_" + key[:4]},
		{name: "hash alone may start with digit", template: "{{ .Hash }}", want: key[:8], wantErr: key[0] >= '0' && key[0] <= '9'},
		{name: "template error", template: "{{ .Missing }}", wantErr: true},
		{name: "template syntax", template: "{{ .Prefix ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testEnv(t)
			env.Global, env.ClassName = tt.global, tt.class
			if len(tt.template) > 0 {
				env.Cfg.Render.ClassNameTemplate = tt.template
			}
			got, err := className(env, "styles/Main Theme.css", sheet)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("className error: %v", err)
			}
			if got != tt.want {
				t.Errorf("className = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassName_StableForSameSheet(t *testing.T) {
	env := testEnv(t)
	a, err := className(env, "a.css", css.MustParse("a { b: c }"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := className(env, "b.css", css.MustParse("a{b:c;}"))
	if err != nil {
		t.Fatal(err)
	}
	c, err := className(env, "a.css", css.MustParse("a { b: d }"))
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("same sheet produced %q and %q", a, b)
	}
	if a == c {
		t.Errorf("different sheets produced the same class %q", a)
	}
	if !strings.HasPrefix(a, "sc-") {
		t.Errorf("class %q misses prefix", a)
	}
}
