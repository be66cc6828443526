package core

import (
	"strings"

	"github.com/emoralesr/diagwiz/pkg/models"
)

// FindCandidates returns every rule whose observable symptom matches the
// given observable (case-insensitively), preserving knowledge-base order,
// together with the unified question list those rules share.
func FindCandidates(kb *models.KnowledgeBase, observable string) ([]models.Rule, []models.Question) {
	candidates := filterCandidates(kb, observable)
	return candidates, UnifyQuestions(candidates)
}

func filterCandidates(kb *models.KnowledgeBase, observable string) []models.Rule {
	var candidates []models.Rule
	for _, r := range kb.Rules {
		if strings.EqualFold(r.Symptom, observable) {
			candidates = append(candidates, r)
		}
	}
	return candidates
}

// UnifyQuestions merges the questions of the given rules into one
// deduplicated list. Rules are walked in order, each rule's questions in
// order, and a question is kept the first time its key is seen, or — for
// keyless questions — the first time its normalized text is seen. First-seen
// wins, so each distinct logical question is asked exactly once.
func UnifyQuestions(rules []models.Rule) []models.Question {
	seenKeys := make(map[string]bool)
	seenTexts := make(map[string]bool)
	var unified []models.Question

	for _, rule := range rules {
		for _, q := range rule.Questions {
			if q.Key != "" {
				if seenKeys[q.Key] {
					continue
				}
				seenKeys[q.Key] = true
				unified = append(unified, q)
				continue
			}
			norm := Normalize(q.Text)
			if norm == "" || seenTexts[norm] {
				continue
			}
			seenTexts[norm] = true
			unified = append(unified, q)
		}
	}
	return unified
}

// QuestionKey returns the answer-set key for a question: its own key when
// present, otherwise its normalized text.
func QuestionKey(q models.Question) string {
	if q.Key != "" {
		return q.Key
	}
	return Normalize(q.Text)
}
