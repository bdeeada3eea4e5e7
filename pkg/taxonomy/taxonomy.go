package taxonomy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyTaxonomy     = errors.New("taxonomy has no topics")
	ErrDuplicateTopic    = errors.New("duplicate topic")
	ErrDuplicateSubtopic = errors.New("subtopic belongs to more than one topic")
	ErrEmptyName         = errors.New("empty topic or subtopic name")
)

// Topic is a top-level intent with its ordered subtopics.
type Topic struct {
	Name      string
	Subtopics []string
}

// Taxonomy is the two-level intent hierarchy queries are classified into.
// It is immutable once built; accessors return copies.
type Taxonomy struct {
	topics []Topic
	owner  map[string]string // subtopic -> topic
	index  map[string]int    // topic -> position
}

// New validates the topics and builds a Taxonomy. Topic and subtopic order is kept.
func New(topics []Topic) (*Taxonomy, error) {
	if len(topics) == 0 {
		return nil, ErrEmptyTaxonomy
	}

	t := &Taxonomy{
		topics: make([]Topic, 0, len(topics)),
		owner:  make(map[string]string),
		index:  make(map[string]int, len(topics)),
	}

	for _, topic := range topics {
		name := strings.TrimSpace(topic.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		if _, exists := t.index[name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTopic, name)
		}

		subs := make([]string, 0, len(topic.Subtopics))
		for _, sub := range topic.Subtopics {
			sub = strings.TrimSpace(sub)
			if sub == "" {
				return nil, fmt.Errorf("%w (topic %q)", ErrEmptyName, name)
			}
			if prev, taken := t.owner[sub]; taken {
				return nil, fmt.Errorf("%w: %q under %q and %q", ErrDuplicateSubtopic, sub, prev, name)
			}
			t.owner[sub] = name
			subs = append(subs, sub)
		}

		t.index[name] = len(t.topics)
		t.topics = append(t.topics, Topic{Name: name, Subtopics: subs})
	}

	return t, nil
}

// MustNew is New for package-level literals; it panics on an invalid taxonomy.
func MustNew(topics []Topic) *Taxonomy {
	t, err := New(topics)
	if err != nil {
		panic("taxonomy: " + err.Error())
	}
	return t
}

// Topics returns the topic names in declaration order.
func (t *Taxonomy) Topics() []string {
	names := make([]string, len(t.topics))
	for i, topic := range t.topics {
		names[i] = topic.Name
	}
	return names
}

// Subtopics returns the subtopics of topic, or nil if the topic is unknown.
func (t *Taxonomy) Subtopics(topic string) []string {
	i, ok := t.index[topic]
	if !ok {
		return nil
	}
	return append([]string(nil), t.topics[i].Subtopics...)
}

// HasTopic reports whether topic is a top-level node.
func (t *Taxonomy) HasTopic(topic string) bool {
	_, ok := t.index[topic]
	return ok
}

// Contains reports whether (topic, subtopic) is an edge of the hierarchy.
func (t *Taxonomy) Contains(topic, subtopic string) bool {
	owner, ok := t.owner[subtopic]
	return ok && owner == topic
}

// TopicOf returns the topic that owns subtopic.
func (t *Taxonomy) TopicOf(subtopic string) (string, bool) {
	topic, ok := t.owner[subtopic]
	return topic, ok
}

// Len returns the number of topics.
func (t *Taxonomy) Len() int {
	return len(t.topics)
}

// All returns a deep copy of the topics.
func (t *Taxonomy) All() []Topic {
	out := make([]Topic, len(t.topics))
	for i, topic := range t.topics {
		out[i] = Topic{Name: topic.Name, Subtopics: append([]string(nil), topic.Subtopics...)}
	}
	return out
}

// IndentedJSON renders the taxonomy as a JSON object in declaration order.
// Non-ASCII text is written as is.
func (t *Taxonomy) IndentedJSON(indent string) string {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, topic := range t.topics {
		buf.WriteString(indent)
		buf.WriteString(quote(topic.Name))
		buf.WriteString(": [")
		if len(topic.Subtopics) > 0 {
			buf.WriteString("\n")
			for j, sub := range topic.Subtopics {
				buf.WriteString(indent + indent)
				buf.WriteString(quote(sub))
				if j < len(topic.Subtopics)-1 {
					buf.WriteString(",")
				}
				buf.WriteString("\n")
			}
			buf.WriteString(indent)
		}
		buf.WriteString("]")
		if i < len(t.topics)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}")
	return buf.String()
}

func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
