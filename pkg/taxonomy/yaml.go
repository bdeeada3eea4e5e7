package taxonomy

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a taxonomy from a YAML file shaped as a mapping of
// topic name to a list of subtopic names.
func LoadFile(path string) (*Taxonomy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open taxonomy file: %w", err)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("taxonomy file %s: %w", path, err)
	}
	return t, nil
}

// Decode parses YAML from r. It walks the node tree instead of decoding into
// a map so topic order survives.
func Decode(r io.Reader) (*Taxonomy, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, ErrEmptyTaxonomy
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of topic to subtopics", root.Line)
	}

	topics := make([]Topic, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: topic name must be a string", key.Line)
		}
		if value.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("line %d: subtopics of %q must be a list", value.Line, key.Value)
		}

		subs := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: subtopic of %q must be a string", item.Line, key.Value)
			}
			subs = append(subs, item.Value)
		}
		topics = append(topics, Topic{Name: key.Value, Subtopics: subs})
	}

	return New(topics)
}

// MarshalYAML renders the taxonomy in the format Decode accepts.
func (t *Taxonomy) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, topic := range t.topics {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, sub := range topic.Subtopics {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: sub})
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: topic.Name},
			seq,
		)
	}
	return root, nil
}
