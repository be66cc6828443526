package core

import (
	"fmt"
	"strings"

	"github.com/emoralesr/diagwiz/pkg/models"
)

// RejectionError is a structured validation rejection: the submission is
// invalid or a logical duplicate, and the knowledge base was left untouched.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string { return e.Reason }

// RuleSubmission carries a proposed new rule from the presentation layer.
type RuleSubmission struct {
	Category     string
	Symptom      string
	Hypothesis   string
	Suggestion   string
	PremiseKeys  []string
	NewQuestions []models.Question
	Actions      []string
}

// KnowledgeBaseWriter persists a knowledge-base snapshot after a validated
// rule has been appended.
type KnowledgeBaseWriter interface {
	Save(kb *models.KnowledgeBase) error
}

// RuleIngestor validates and appends new rules to a knowledge base.
type RuleIngestor interface {
	AddRule(kb *models.KnowledgeBase, sub RuleSubmission) (*models.Rule, error)
}

type ruleIngestor struct {
	store          KnowledgeBaseWriter
	defaultActions []string
}

// NewRuleIngestor creates a RuleIngestor that persists through store.
// defaultActions replace an empty action list on submissions; when nil, a
// built-in remediation pair is used.
func NewRuleIngestor(store KnowledgeBaseWriter, defaultActions []string) RuleIngestor {
	if len(defaultActions) == 0 {
		defaultActions = []string{
			"Review the suggestion provided by the user.",
			"If the problem persists, contact technical support.",
		}
	}
	return &ruleIngestor{store: store, defaultActions: defaultActions}
}

// AddRule validates the submission, appends the resulting rule to the end of
// the rule list, registers the symptom under its category if missing, and
// persists the knowledge base. On any rejection the knowledge base is left
// unmodified and a *RejectionError is returned.
func (ri *ruleIngestor) AddRule(kb *models.KnowledgeBase, sub RuleSubmission) (*models.Rule, error) {
	if err := validateSubmission(sub); err != nil {
		return nil, err
	}

	keys := dedupeKeys(sub.PremiseKeys)
	if dup, msg := CheckDuplicateRule(kb, sub.Symptom, keys); dup {
		return nil, &RejectionError{Reason: msg}
	}

	rule := buildRule(kb, sub, keys, ri.defaultActions)

	registerSymptom(kb, sub.Category, sub.Symptom)
	kb.Rules = append(kb.Rules, rule)

	if err := ri.store.Save(kb); err != nil {
		return nil, fmt.Errorf("persisting knowledge base: %w", err)
	}
	return &kb.Rules[len(kb.Rules)-1], nil
}

func validateSubmission(sub RuleSubmission) error {
	missing := func(field string) error {
		return &RejectionError{Reason: fmt.Sprintf("missing required field: %s", field)}
	}
	switch {
	case strings.TrimSpace(sub.Category) == "":
		return missing("category")
	case strings.TrimSpace(sub.Symptom) == "":
		return missing("symptom")
	case strings.TrimSpace(sub.Hypothesis) == "":
		return missing("hypothesis")
	case strings.TrimSpace(sub.Suggestion) == "":
		return missing("suggestion")
	}
	return nil
}

func buildRule(kb *models.KnowledgeBase, sub RuleSubmission, keys []string, defaultActions []string) models.Rule {
	var actions []string
	for _, a := range sub.Actions {
		if strings.TrimSpace(a) != "" {
			actions = append(actions, a)
		}
	}
	if len(actions) == 0 {
		actions = append([]string(nil), defaultActions...)
	}

	premises := make([]models.Premise, len(keys))
	for i, k := range keys {
		premises[i] = models.Premise{Key: k}
	}

	// Reuse questions already associated with the premise keys elsewhere in
	// the knowledge base, then fill the gaps from the submission.
	questions := FindQuestionsForKeys(kb, keys)
	covered := make(map[string]bool, len(questions))
	for _, q := range questions {
		covered[q.Key] = true
	}
	for _, q := range sub.NewQuestions {
		if q.Key != "" && !covered[q.Key] {
			covered[q.Key] = true
			questions = append(questions, q)
		}
	}

	return models.Rule{
		Domain:         sub.Category,
		Symptom:        sub.Symptom,
		Hypothesis:     strings.ReplaceAll(strings.TrimSpace(sub.Hypothesis), " ", "_"),
		Premises:       premises,
		Questions:      questions,
		Actions:        actions,
		UserSuggestion: sub.Suggestion,
	}
}

// registerSymptom appends the symptom to its category's observable list when
// not already present, creating the category at the end of the list if needed.
func registerSymptom(kb *models.KnowledgeBase, category, symptom string) {
	for i, c := range kb.Categories {
		if c.Name != category {
			continue
		}
		for _, s := range c.Symptoms {
			if s == symptom {
				return
			}
		}
		kb.Categories[i].Symptoms = append(c.Symptoms, symptom)
		return
	}
	kb.Categories = append(kb.Categories, models.Category{Name: category, Symptoms: []string{symptom}})
}

// FindQuestionsForKeys searches every rule for questions carrying the given
// keys, returning the first question found per key.
func FindQuestionsForKeys(kb *models.KnowledgeBase, keys []string) []models.Question {
	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}

	var found []models.Question
	seen := make(map[string]bool, len(keys))
	for _, rule := range kb.Rules {
		for _, q := range rule.Questions {
			if q.Key != "" && wanted[q.Key] && !seen[q.Key] {
				seen[q.Key] = true
				found = append(found, q)
			}
		}
	}
	return found
}

// PremisesByCategory returns the distinct keyed questions used by rules of
// the given category (exact domain match), for reuse when authoring rules.
func PremisesByCategory(kb *models.KnowledgeBase, category string) []models.Question {
	var out []models.Question
	seen := make(map[string]bool)
	for _, rule := range kb.Rules {
		if rule.Domain != category {
			continue
		}
		for _, q := range rule.Questions {
			if q.Key != "" && !seen[q.Key] {
				seen[q.Key] = true
				out = append(out, q)
			}
		}
	}
	return out
}

func dedupeKeys(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	var out []string
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
