package compile

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"
	tdcss "github.com/tdewolff/parse/v2/css"

	"scopecss/config"
	"scopecss/css"
	"scopecss/state"
)

// Values is a struct that holds variables we make available for class name
// template expansion.
type Values struct {
	Prefix string
	Name   string // slugged base name of the source file
	Hash   string // first 8 hex digits of Key
	Key    string // structural key of the parsed sheet
}

func newValues(prefix, src string, sheet *css.Sheet) Values {
	key := sheet.Key().String()
	return Values{
		Prefix: prefix,
		Name:   slug.Make(strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))),
		Hash:   key[:8],
		Key:    key,
	}
}

func expandClassName(field string, values Values) (string, error) {
	funcMap := sprig.FuncMap()
	funcMap["slug"] = slug.Make

	tmpl, err := template.New(string(config.ClassNameTemplateFieldName)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", config.ClassNameTemplateFieldName, err)
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", fmt.Errorf("unable to expand template field %s: %w", config.ClassNameTemplateFieldName, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func checkClassName(name string) error {
	if len(name) == 0 || !tdcss.IsIdent([]byte(name)) {
		return fmt.Errorf("class name %q is not a valid css identifier", name)
	}
	return nil
}

// className selects scoping class for the sheet: none for global styles, the
// one requested on command line or expanded from configured template.
func className(env *state.LocalEnv, src string, sheet *css.Sheet) (string, error) {
	if env.Global {
		return "", nil
	}
	if len(env.ClassName) > 0 {
		name := strings.TrimPrefix(env.ClassName, ".")
		return name, checkClassName(name)
	}
	name, err := expandClassName(env.Cfg.Render.ClassNameTemplate, newValues(env.Cfg.Render.ClassPrefix, src, sheet))
	if err != nil {
		return "", err
	}
	return name, checkClassName(name)
}
