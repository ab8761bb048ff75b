package css

import (
	"io"
	"maps"
	"strings"
)

// Renderer writes sheets as plain CSS scoped to a class name. A Renderer
// holds no state between calls and can be used concurrently.
type Renderer struct {
	indent string
	values map[string]string
}

// RenderOption configures a Renderer.
type RenderOption func(*Renderer)

// WithIndent sets the string written once per nesting level in front of
// every line. The default is no indentation.
func WithIndent(unit string) RenderOption {
	return func(r *Renderer) {
		r.indent = unit
	}
}

// WithValues supplies values for interpolation placeholders. Placeholders
// without a value are written back as ${name}.
func WithValues(values map[string]string) RenderOption {
	return func(r *Renderer) {
		r.values = maps.Clone(values)
	}
}

// NewRenderer creates a renderer.
func NewRenderer(opts ...RenderOption) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRenderer = NewRenderer()

// Render writes sheet to w using the default renderer.
func Render(w io.Writer, sheet *Sheet, className string) error {
	return defaultRenderer.Render(w, sheet, className)
}

// RenderString returns sheet rendered by the default renderer.
func RenderString(sheet *Sheet, className string) string {
	return defaultRenderer.RenderString(sheet, className)
}

// Render writes sheet scoped to className, or as a global style when
// className is empty. Output stops at the first write error which is
// returned as *RenderError.
func (r *Renderer) Render(w io.Writer, sheet *Sheet, className string) error {
	ew := &errWriter{w: w}
	run := &renderRun{Renderer: r, stack: condStack{w: ew, indent: r.indent}}
	ctx := NewContext(className)
	for _, item := range sheet.Items() {
		if ew.err != nil {
			break
		}
		switch item := item.(type) {
		case *Block:
			run.block(ctx, item)
		case *Rule:
			run.rule(ctx, item)
		}
	}
	run.stack.finish()
	if ew.err != nil {
		return &RenderError{Err: ew.err}
	}
	return nil
}

// RenderString is Render into a string.
func (r *Renderer) RenderString(sheet *Sheet, className string) string {
	var b strings.Builder
	// strings.Builder never fails
	_ = r.Render(&b, sheet, className)
	return b.String()
}

type renderRun struct {
	*Renderer
	stack condStack
}

func (r *renderRun) block(ctx Context, b *Block) {
	sels := make([]string, 0, len(b.Condition))
	for _, sel := range b.Condition {
		sels = append(sels, r.text(sel.Fragments))
	}
	ctx = ctx.WithBlockCondition(sels)
	path := ctx.Path()

	if len(b.Content) == 0 {
		r.stack.enter(path, -1)
		return
	}
	for _, c := range b.Content {
		switch c := c.(type) {
		case *StyleAttribute:
			r.stack.enter(path, -1)
			r.declaration(c)
		case *Rule:
			r.rule(ctx, c)
		case *Block:
			r.block(ctx, c)
		}
	}
}

func (r *renderRun) declaration(attr *StyleAttribute) {
	value := strings.TrimSpace(r.text(attr.Value))
	if value == "" {
		r.stack.line(attr.Key, ":;")
		return
	}
	r.stack.line(attr.Key, ": ", value, ";")
}

func (r *renderRun) rule(ctx Context, rule *Rule) {
	cond := strings.TrimSpace(r.text(rule.Condition))

	if rule.IsStatement() {
		r.stack.enter(ctx.rules, -1)
		r.stack.line(cond)
		return
	}

	if rule.IsKeyframes() {
		ctx = ctx.WithKeyframes(cond)
	} else {
		ctx = ctx.WithRuleCondition(cond)
	}
	if !rule.isNested() {
		// keyframes and verbatim at-rules always start a new block
		r.stack.enter(ctx.rules, len(ctx.rules)-1)
	} else if len(rule.Content) == 0 {
		r.stack.enter(ctx.rules, -1)
	}

	for _, c := range rule.Content {
		switch c := c.(type) {
		case *Block:
			r.block(ctx, c)
		case *Rule:
			r.rule(ctx, c)
		case RawText:
			r.stack.enter(ctx.rules, -1)
			if c != "" {
				r.stack.line(string(c))
			}
		}
	}
}

// text concatenates fragments, substituting known placeholder values.
func (r *renderRun) text(fs Fragments) string {
	if len(fs) == 1 && !fs[0].IsPlaceholder() {
		return fs[0].Literal
	}
	var b strings.Builder
	for _, f := range fs {
		if !f.IsPlaceholder() {
			b.WriteString(f.Literal)
			continue
		}
		if v, ok := r.values[f.Name]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(f.String())
		}
	}
	return b.String()
}

// errWriter remembers the first write error and drops everything after it.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) write(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}
