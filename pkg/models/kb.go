package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// QuestionType identifies how a question's raw answer is interpreted.
type QuestionType string

const (
	QuestionYesNo          QuestionType = "yes_no"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionFreeText       QuestionType = "free_text"
)

// Question is a confirmatory question attached to a rule. When Key is empty
// the question is identified by its normalized text.
type Question struct {
	Key     string       `yaml:"key,omitempty" json:"key,omitempty"`
	Text    string       `yaml:"text" json:"text"`
	Type    QuestionType `yaml:"type,omitempty" json:"type,omitempty"`
	Options []string     `yaml:"options,omitempty" json:"options,omitempty"`
}

// EffectiveType returns the question type, defaulting to yes_no when unset.
func (q Question) EffectiveType() QuestionType {
	if q.Type == "" {
		return QuestionYesNo
	}
	return q.Type
}

// Premise references an answer by key. A rule's premise set is logically an
// unordered set of keys; order only matters for display.
type Premise struct {
	Key string `yaml:"key" json:"key"`
}

// Rule associates an observable symptom with a hypothesis, the premises that
// must hold for it, confirmatory questions, and remediation actions.
type Rule struct {
	Domain         string     `yaml:"domain" json:"domain"`
	Symptom        string     `yaml:"observable_symptom" json:"observable_symptom"`
	Hypothesis     string     `yaml:"hypothesis" json:"hypothesis"`
	Premises       []Premise  `yaml:"premises,omitempty" json:"premises,omitempty"`
	Questions      []Question `yaml:"questions,omitempty" json:"questions,omitempty"`
	Actions        []string   `yaml:"actions" json:"actions"`
	UserSuggestion string     `yaml:"user_suggestion,omitempty" json:"user_suggestion,omitempty"`
}

// PremiseKeys returns the rule's premise keys in declaration order.
func (r Rule) PremiseKeys() []string {
	keys := make([]string, len(r.Premises))
	for i, p := range r.Premises {
		keys[i] = p.Key
	}
	return keys
}

// Category groups observable symptoms under a name. Symptom order is
// significant: it defines the 1-based numeric indices used for selection.
type Category struct {
	Name     string
	Symptoms []string
}

// CategoryList preserves the document order of the categories mapping.
// The persisted shape is a mapping from category name to a list of symptom
// strings; a plain Go map would lose the insertion order, so the list
// implements its own yaml.Node handling.
type CategoryList []Category

// Names returns the category names in document order.
func (cl CategoryList) Names() []string {
	names := make([]string, len(cl))
	for i, c := range cl {
		names[i] = c.Name
	}
	return names
}

// Symptoms returns the observable symptoms of the named category (exact
// match) and whether the category exists.
func (cl CategoryList) Symptoms(name string) ([]string, bool) {
	for _, c := range cl {
		if c.Name == name {
			return c.Symptoms, true
		}
	}
	return nil, false
}

// UnmarshalYAML decodes the ordered categories mapping.
func (cl *CategoryList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.AliasNode {
		value = value.Alias
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("categories must be a mapping, got %s", yamlKindName(value.Kind))
	}
	out := make(CategoryList, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var name string
		if err := value.Content[i].Decode(&name); err != nil {
			return fmt.Errorf("decoding category name: %w", err)
		}
		var symptoms []string
		if err := value.Content[i+1].Decode(&symptoms); err != nil {
			return fmt.Errorf("decoding symptoms for category %q: %w", name, err)
		}
		out = append(out, Category{Name: name, Symptoms: symptoms})
	}
	*cl = out
	return nil
}

// MarshalYAML encodes the categories back as a mapping in list order.
func (cl CategoryList) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range cl {
		keyNode := &yaml.Node{}
		if err := keyNode.Encode(c.Name); err != nil {
			return nil, err
		}
		valNode := &yaml.Node{}
		if err := valNode.Encode(c.Symptoms); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

func yamlKindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}

// KnowledgeBase is an immutable snapshot of the diagnostic knowledge: the
// category navigation structure plus the ordered rule list. Rule order is the
// acceptance tie-break (first match wins).
type KnowledgeBase struct {
	Categories CategoryList `yaml:"categories" json:"categories"`
	Rules      []Rule       `yaml:"rules" json:"rules"`
}
