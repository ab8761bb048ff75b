package css

import (
	"errors"

	"go.uber.org/zap"
)

// Parser parses scoped stylesheets into a Sheet.
type Parser struct {
	log            *zap.Logger
	maxDepth       int
	unknownAtRules bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxDepth limits nesting of (), [] and {} groups. Values below 1 select
// DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		if n < 1 {
			n = DefaultMaxDepth
		}
		p.maxDepth = n
	}
}

// WithUnknownAtRules keeps at-rules other than @media, @supports and
// @keyframes instead of failing. Their bodies are stored as RawText.
func WithUnknownAtRules(allow bool) Option {
	return func(p *Parser) {
		p.unknownAtRules = allow
	}
}

// NewParser creates a new parser.
func NewParser(log *zap.Logger, opts ...Option) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Parser{log: log.Named("css-parser"), maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses CSS text into a Sheet.
// The optional source parameter names the input in errors and debug logging.
func (p *Parser) Parse(data []byte, source ...string) (*Sheet, error) {
	return p.ParseString(string(data), source...)
}

// ParseString is Parse for string input.
func (p *Parser) ParseString(text string, source ...string) (*Sheet, error) {
	var name string
	if len(source) > 0 {
		name = source[0]
	}
	log := p.log
	if name != "" {
		log = log.With(zap.String("source", name))
	}
	log.Debug("Parsing CSS", zap.Int("bytes", len(text)))

	toks, err := tokenize(text, p.maxDepth)
	if err == nil {
		g := &grammar{src: text, unknownAtRules: p.unknownAtRules}
		var items []ScopeContent
		if items, err = g.sheet(toks); err == nil {
			sheet := &Sheet{items: items}
			log.Debug("Parsed CSS", zap.Int("tokens", len(toks)), zap.Int("items", len(items)))
			return sheet, nil
		}
	}

	var perr *ParseError
	if errors.As(err, &perr) {
		perr.Source = name
		log.Debug("CSS parse error",
			zap.String("reason", perr.Reason),
			zap.Int("offset", perr.Offset),
			zap.Int("line", perr.Line),
			zap.Int("column", perr.Column))
	}
	return nil, err
}

var defaultParser = NewParser(nil)

// Parse parses text with default settings.
func Parse(text string) (*Sheet, error) {
	return defaultParser.ParseString(text)
}

// MustParse is like Parse but panics on error. It is meant for styles
// embedded in programs.
func MustParse(text string) *Sheet {
	sheet, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return sheet
}
