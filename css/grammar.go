package css

import (
	"strconv"
	"strings"
)

// stream is a cursor over one level of the token tree. end is the source
// offset reported when the level runs out of tokens.
type stream struct {
	toks []Token
	pos  int
	end  int
}

func (s *stream) done() bool {
	return s.pos >= len(s.toks)
}

func (s *stream) peek() Token {
	return s.toks[s.pos]
}

// skip moves past whitespace, comments and stray semicolons.
func (s *stream) skip() {
	for !s.done() && (s.peek().IsTrivia() || s.peek().IsPunct(';')) {
		s.pos++
	}
}

// offsetAt returns the start of token i, or the level end past the last
// token.
func (s *stream) offsetAt(i int) int {
	if i < len(s.toks) {
		return s.toks[i].Span.Start
	}
	return s.end
}

// grammar holds the settings of a single parse run.
type grammar struct {
	src            string
	unknownAtRules bool
}

func (g *grammar) errorf(offset int, format string, args ...any) *ParseError {
	return newParseError(g.src, offset, format, args...)
}

func inner(group Token) *stream {
	return &stream{toks: group.Children, end: group.innerSpan().End}
}

// sheet parses the top level of a stylesheet.
func (g *grammar) sheet(toks []Token) ([]ScopeContent, error) {
	return g.scope(&stream{toks: toks, end: len(g.src)}, true)
}

// scope parses the contents of a sheet or of a @media/@supports body. Runs
// of declarations outside of any block are collected into a block without
// condition.
func (g *grammar) scope(s *stream, top bool) ([]ScopeContent, error) {
	var (
		items    []ScopeContent
		dangling []BlockContent
	)
	flush := func() {
		if len(dangling) > 0 {
			items = append(items, &Block{Content: dangling})
			dangling = nil
		}
	}

	for s.skip(); !s.done(); s.skip() {
		if s.peek().Kind == KindAtKeyword {
			flush()
			r, err := g.atRule(s)
			if err != nil {
				return nil, err
			}
			items = append(items, r)
			continue
		}

		attr, ok, err := g.declaration(s, top)
		if err != nil {
			return nil, err
		}
		if ok {
			dangling = append(dangling, attr)
			continue
		}

		flush()
		b, err := g.block(s)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	flush()
	return items, nil
}

// declaration tries "ident : value ;" at the cursor. It reports false without
// consuming anything when the tokens do not form a declaration, a {} group
// before the terminating semicolon means a selector like "a:hover {".
func (g *grammar) declaration(s *stream, requireSemicolon bool) (*StyleAttribute, bool, error) {
	key := s.peek()
	if key.Kind != KindIdent {
		return nil, false, nil
	}

	i := s.pos + 1
	for i < len(s.toks) && s.toks[i].IsTrivia() {
		i++
	}
	if i == len(s.toks) || !s.toks[i].IsPunct(':') {
		return nil, false, nil
	}
	colon := s.toks[i]

	j := i + 1
	for ; j < len(s.toks) && !s.toks[j].IsPunct(';'); j++ {
		if s.toks[j].IsBlock() {
			return nil, false, nil
		}
	}

	value := buildFragments(s.toks[i+1 : j])
	if value.isEmpty() && !strings.HasPrefix(key.Text, "--") {
		return nil, false, g.errorf(colon.Span.End, "expected value for %q", key.Text)
	}
	if j == len(s.toks) {
		if requireSemicolon {
			return nil, false, g.errorf(s.end, "expected ';' after declaration")
		}
		s.pos = j
	} else {
		s.pos = j + 1
	}
	return &StyleAttribute{Key: key.Text, Value: value}, true, nil
}

// block parses "selector, ... { body }".
func (g *grammar) block(s *stream) (*Block, error) {
	sels, body, err := g.prelude(s)
	if err != nil {
		return nil, err
	}
	content, err := g.blockBody(inner(body), false)
	if err != nil {
		return nil, err
	}
	return &Block{Condition: sels, Content: content}, nil
}

// prelude consumes a selector list and the following {} group.
func (g *grammar) prelude(s *stream) ([]Selector, Token, error) {
	start := s.pos
	j := start
	for ; j < len(s.toks) && !s.toks[j].IsBlock(); j++ {
		if t := s.toks[j]; t.Kind == KindAtKeyword || t.IsPunct(';') {
			return nil, Token{}, g.errorf(t.Span.Start, "expected '{' after selector")
		}
	}
	if j == len(s.toks) {
		return nil, Token{}, g.errorf(s.end, "expected '{' after selector")
	}

	sels, err := g.selectors(s.toks[start:j], s.toks[j].Span.Start)
	if err != nil {
		return nil, Token{}, err
	}
	s.pos = j + 1
	return sels, s.toks[j], nil
}

// selectors splits a selector list on top level commas.
func (g *grammar) selectors(toks []Token, end int) ([]Selector, error) {
	var sels []Selector
	from := 0
	for i := 0; i <= len(toks); i++ {
		if i < len(toks) && !toks[i].IsPunct(',') {
			continue
		}
		frags := buildFragments(toks[from:i])
		if frags.isEmpty() {
			offset := end
			if i < len(toks) {
				offset = toks[i].Span.Start
			}
			return nil, g.errorf(offset, "empty selector")
		}
		sels = append(sels, Selector{Fragments: frags})
		from = i + 1
	}
	return sels, nil
}

// blockBody parses the inside of a qualified block: declarations, at-rules
// and nested blocks. Keyframe bodies take no nested blocks.
func (g *grammar) blockBody(s *stream, keyframe bool) ([]BlockContent, error) {
	var content []BlockContent
	for s.skip(); !s.done(); s.skip() {
		if s.peek().Kind == KindAtKeyword {
			r, err := g.atRule(s)
			if err != nil {
				return nil, err
			}
			content = append(content, r)
			continue
		}

		attr, ok, err := g.declaration(s, false)
		if err != nil {
			return nil, err
		}
		if ok {
			content = append(content, attr)
			continue
		}

		if keyframe {
			return nil, g.errorf(s.peek().Span.Start, "expected declaration inside keyframe")
		}
		b, err := g.block(s)
		if err != nil {
			return nil, err
		}
		content = append(content, b)
	}
	return content, nil
}

// atRule parses an at-rule starting at the cursor. @media and @supports
// recurse into the scope grammar, @keyframes into frames. Anything else is
// rejected unless unknown at-rules are allowed, then a block body is kept
// verbatim and a statement ends in ';'.
func (g *grammar) atRule(s *stream) (*Rule, error) {
	at := s.peek()
	name := strings.ToLower(at.Text[1:])

	j := s.pos + 1
	for j < len(s.toks) && !s.toks[j].IsBlock() && !s.toks[j].IsPunct(';') {
		j++
	}
	prelude := buildFragments(s.toks[s.pos+1 : j])
	cond := append(Fragments{Text(at.Text + " ")}, prelude...)
	hasBlock := j < len(s.toks) && s.toks[j].IsBlock()

	switch name {
	case "media", "supports":
		if prelude.isEmpty() {
			return nil, g.errorf(at.Span.End, "expected condition after %q", at.Text)
		}
		if !hasBlock {
			return nil, g.errorf(s.offsetAt(j), "expected '{' after %q condition", at.Text)
		}
		items, err := g.scope(inner(s.toks[j]), false)
		if err != nil {
			return nil, err
		}
		s.pos = j + 1
		return &Rule{Condition: cond, Content: ruleContent(items)}, nil

	case "keyframes":
		if prelude.isEmpty() {
			return nil, g.errorf(at.Span.End, "expected name after %q", at.Text)
		}
		if !hasBlock {
			return nil, g.errorf(s.offsetAt(j), "expected '{' after %q name", at.Text)
		}
		frames, err := g.keyframes(inner(s.toks[j]))
		if err != nil {
			return nil, err
		}
		s.pos = j + 1
		return &Rule{Condition: cond, Content: frames}, nil
	}

	if !g.unknownAtRules {
		return nil, g.errorf(at.Span.Start, "unsupported at-rule %q", at.Text)
	}
	switch {
	case hasBlock:
		body := s.toks[j].innerSpan()
		s.pos = j + 1
		return &Rule{
			Condition: cond,
			Content:   []RuleContent{RawText(strings.TrimSpace(g.src[body.Start:body.End]))},
		}, nil
	case j < len(s.toks):
		s.pos = j + 1
		return &Rule{Condition: append(cond, Text(";"))}, nil
	}
	return nil, g.errorf(s.end, "expected ';' or '{' after %q", at.Text)
}

func ruleContent(items []ScopeContent) []RuleContent {
	if len(items) == 0 {
		return nil
	}
	content := make([]RuleContent, 0, len(items))
	for _, it := range items {
		content = append(content, it.(RuleContent))
	}
	return content
}

// keyframes parses the frames of a @keyframes body.
func (g *grammar) keyframes(s *stream) ([]RuleContent, error) {
	var frames []RuleContent
	for s.skip(); !s.done(); s.skip() {
		start := s.peek().Span.Start
		if s.peek().Kind == KindAtKeyword {
			return nil, g.errorf(start, "expected keyframe selector")
		}
		sels, body, err := g.prelude(s)
		if err != nil {
			return nil, err
		}
		for _, sel := range sels {
			if !isKeyframeSelector(sel) {
				return nil, g.errorf(start, "invalid keyframe selector %q", sel.String())
			}
		}
		content, err := g.blockBody(inner(body), true)
		if err != nil {
			return nil, err
		}
		frames = append(frames, &Block{Condition: sels, Content: content})
	}
	return frames, nil
}

func isKeyframeSelector(sel Selector) bool {
	if len(sel.Fragments) != 1 {
		return false
	}
	f := sel.Fragments[0]
	if f.IsPlaceholder() {
		return true
	}
	if strings.EqualFold(f.Literal, "from") || strings.EqualFold(f.Literal, "to") {
		return true
	}
	pct, ok := strings.CutSuffix(f.Literal, "%")
	if !ok {
		return false
	}
	_, err := strconv.ParseFloat(pct, 64)
	return err == nil
}
