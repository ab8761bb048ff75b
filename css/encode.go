package css

import "strings"

type yamlSheet struct {
	Items []yamlNode `yaml:"items"`
}

type yamlNode struct {
	Kind      string     `yaml:"kind"`
	Selectors []string   `yaml:"selectors,omitempty,flow"`
	Condition string     `yaml:"condition,omitempty"`
	Key       string     `yaml:"key,omitempty"`
	Value     string     `yaml:"value,omitempty"`
	Text      string     `yaml:"text,omitempty"`
	Content   []yamlNode `yaml:"content,omitempty"`
}

// MarshalYAML implements yaml.Marshaler. Fragments are written in source
// form, placeholders as ${name}.
func (s *Sheet) MarshalYAML() (any, error) {
	out := yamlSheet{Items: make([]yamlNode, 0, s.Len())}
	for _, it := range s.Items() {
		switch it := it.(type) {
		case *Block:
			out.Items = append(out.Items, yamlBlock(it))
		case *Rule:
			out.Items = append(out.Items, yamlRule(it))
		}
	}
	return out, nil
}

func yamlBlock(b *Block) yamlNode {
	n := yamlNode{Kind: "block"}
	for _, sel := range b.Condition {
		n.Selectors = append(n.Selectors, sel.String())
	}
	for _, c := range b.Content {
		switch c := c.(type) {
		case *StyleAttribute:
			n.Content = append(n.Content, yamlNode{Kind: "declaration", Key: c.Key, Value: c.Value.String()})
		case *Rule:
			n.Content = append(n.Content, yamlRule(c))
		case *Block:
			n.Content = append(n.Content, yamlBlock(c))
		}
	}
	return n
}

func yamlRule(r *Rule) yamlNode {
	n := yamlNode{Kind: "rule", Condition: strings.TrimSpace(r.Condition.String())}
	for _, c := range r.Content {
		switch c := c.(type) {
		case *Block:
			n.Content = append(n.Content, yamlBlock(c))
		case *Rule:
			n.Content = append(n.Content, yamlRule(c))
		case RawText:
			n.Content = append(n.Content, yamlNode{Kind: "raw", Text: string(c)})
		}
	}
	return n
}
