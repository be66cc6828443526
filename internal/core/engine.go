// Package core implements the forward-chaining diagnostic engine: text
// normalization, answer classification, category/observable selection,
// candidate filtering with question unification, duplicate-rule detection,
// the inference scan itself, and rule ingestion.
package core

import "github.com/emoralesr/diagwiz/pkg/models"

// Acceptance reasons, in precedence order. The accept decision itself does
// not depend on this order; only the reported reason does.
const (
	ReasonPremisesSatisfied = "all premises answered and satisfied"
	ReasonQuestionConfirmed = "a question confirmed the hypothesis"
	ReasonInsufficient      = "insufficient confirmation"
)

// undeterminedActions is the generic remediation advice attached to the
// undetermined diagnosis.
var undeterminedActions = []string{
	"Review other hypotheses; share your answers and the evaluation trace with support.",
}

// Diagnose runs the inference scan for the selected category and observable
// against the given answer set. It is a pure function:
//   - Never mutates its inputs
//   - Never performs I/O
//   - Produces deterministic output for identical inputs
//
// Candidate rules are evaluated in knowledge-base order and the first
// accepted rule wins; later candidates are neither evaluated nor traced.
// When no candidate is accepted the undetermined diagnosis is returned with
// every candidate's trace.
func Diagnose(kb *models.KnowledgeBase, category, observable string, answers models.AnswerSet) models.Diagnosis {
	candidates := filterCandidates(kb, observable)

	var trace []models.RuleTrace
	for _, rule := range candidates {
		rt := evaluateRule(rule, answers)
		trace = append(trace, rt)
		if rt.Accepted {
			return models.Diagnosis{
				Cause:          rule.Hypothesis,
				Actions:        rule.Actions,
				Domain:         rule.Domain,
				UserSuggestion: rule.UserSuggestion,
				Trace:          trace,
			}
		}
	}

	return models.Diagnosis{
		Cause:   models.CauseUndetermined,
		Actions: append([]string(nil), undeterminedActions...),
		Domain:  category,
		Trace:   trace,
	}
}

// evaluateRule resolves a single rule's premises and confirmatory questions
// against the answer set and applies the acceptance policy:
// accepted ⇔ (premises non-empty AND all true) OR (any question confirmed).
func evaluateRule(rule models.Rule, answers models.AnswerSet) models.RuleTrace {
	premises := make(map[string]models.Truth, len(rule.Premises))
	allSatisfied := true
	for _, p := range rule.Premises {
		result := Classify(resolvePremise(rule, p.Key, answers), models.QuestionYesNo)
		premises[p.Key] = result
		if !result.Satisfied() {
			allSatisfied = false
		}
	}

	var questions []models.QuestionTrace
	anyConfirmed := false
	for _, q := range rule.Questions {
		value := answers.Get(QuestionKey(q))
		qt := models.QuestionTrace{Question: q.Text, Response: value}
		if !value.IsAbsent() {
			qt.Used = true
			qt.Confirmed = Classify(value, q.EffectiveType()) == models.TruthTrue
			if qt.Confirmed {
				anyConfirmed = true
			}
		}
		questions = append(questions, qt)
	}

	premisesSatisfied := len(rule.Premises) > 0 && allSatisfied
	reason := ReasonInsufficient
	switch {
	case premisesSatisfied:
		reason = ReasonPremisesSatisfied
	case anyConfirmed:
		reason = ReasonQuestionConfirmed
	}

	return models.RuleTrace{
		Hypothesis: rule.Hypothesis,
		Domain:     rule.Domain,
		Premises:   premises,
		Questions:  questions,
		Accepted:   premisesSatisfied || anyConfirmed,
		Reason:     reason,
	}
}

// resolvePremise looks up the raw answer for a premise key. When the key has
// no direct answer, the rule's questions are searched for one carrying that
// key and the answer is retried under the question's normalized text.
func resolvePremise(rule models.Rule, key string, answers models.AnswerSet) models.AnswerValue {
	value := answers.Get(key)
	if !value.IsAbsent() {
		return value
	}
	for _, q := range rule.Questions {
		if q.Key == key {
			return answers.Get(Normalize(q.Text))
		}
	}
	return value
}
