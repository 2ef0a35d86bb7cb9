package models

import "gopkg.in/yaml.v3"

// Frontmatter in generated sites is hand-edited and often drifts from the schema.
// The decoders below keep every field whose node shape matches and drop the rest,
// so a malformed field means less text analyzed instead of a failed record.

// UnmarshalYAML decodes the known keys of a mapping node, skipping mismatched shapes.
func (f *Fields) UnmarshalYAML(value *yaml.Node) error {
	eachKey(value, func(key string, v *yaml.Node) {
		switch key {
		case "description":
			f.Description, _ = scalarString(v)
		case "shortDescription":
			f.ShortDescription, _ = scalarString(v)
		case "intro":
			f.Intro, _ = scalarString(v)
		case "hero":
			if v.Kind == yaml.MappingNode {
				var h Hero
				_ = h.UnmarshalYAML(v)
				f.Hero = &h
			}
		case "about":
			if v.Kind == yaml.MappingNode {
				var a About
				_ = a.UnmarshalYAML(v)
				f.About = &a
			}
		case "faq":
			if v.Kind == yaml.SequenceNode {
				for _, item := range v.Content {
					if item.Kind != yaml.MappingNode {
						continue
					}
					var q FAQ
					_ = q.UnmarshalYAML(item)
					f.FAQ = append(f.FAQ, q)
				}
			}
		case "specialists":
			if v.Kind == yaml.MappingNode {
				var s Specialists
				_ = s.UnmarshalYAML(v)
				f.Specialists = &s
			}
		}
	})
	return nil
}

// UnmarshalYAML decodes hero title, subtitle, and description.
func (h *Hero) UnmarshalYAML(value *yaml.Node) error {
	eachKey(value, func(key string, v *yaml.Node) {
		switch key {
		case "title":
			h.Title, _ = scalarString(v)
		case "subtitle":
			h.Subtitle, _ = scalarString(v)
		case "description":
			h.Description, _ = scalarString(v)
		}
	})
	return nil
}

// UnmarshalYAML decodes about content and string list items.
func (a *About) UnmarshalYAML(value *yaml.Node) error {
	eachKey(value, func(key string, v *yaml.Node) {
		switch key {
		case "content":
			a.Content, _ = scalarString(v)
		case "items":
			a.Items = stringList(v)
		}
	})
	return nil
}

// UnmarshalYAML decodes a question/answer pair.
func (q *FAQ) UnmarshalYAML(value *yaml.Node) error {
	eachKey(value, func(key string, v *yaml.Node) {
		switch key {
		case "question":
			q.Question, _ = scalarString(v)
		case "answer":
			q.Answer, _ = scalarString(v)
		}
	})
	return nil
}

// UnmarshalYAML decodes the specialists title and cards.
func (s *Specialists) UnmarshalYAML(value *yaml.Node) error {
	eachKey(value, func(key string, v *yaml.Node) {
		switch key {
		case "title":
			s.Title, _ = scalarString(v)
		case "cards":
			if v.Kind != yaml.SequenceNode {
				return
			}
			for _, item := range v.Content {
				if item.Kind != yaml.MappingNode {
					continue
				}
				var c Card
				_ = c.UnmarshalYAML(item)
				s.Cards = append(s.Cards, c)
			}
		}
	})
	return nil
}

// UnmarshalYAML decodes card title and description.
func (c *Card) UnmarshalYAML(value *yaml.Node) error {
	eachKey(value, func(key string, v *yaml.Node) {
		switch key {
		case "title":
			c.Title, _ = scalarString(v)
		case "description":
			c.Description, _ = scalarString(v)
		}
	})
	return nil
}

func eachKey(node *yaml.Node, fn func(key string, value *yaml.Node)) {
	if node == nil || node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		fn(node.Content[i].Value, node.Content[i+1])
	}
}

// scalarString returns the node value only for string scalars.
func scalarString(n *yaml.Node) (string, bool) {
	if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
		return "", false
	}
	return n.Value, true
}

func stringList(n *yaml.Node) []string {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	var out []string
	for _, item := range n.Content {
		if s, ok := scalarString(item); ok {
			out = append(out, s)
		}
	}
	return out
}
