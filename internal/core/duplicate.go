package core

import (
	"fmt"

	"github.com/emoralesr/diagwiz/pkg/models"
)

// CheckDuplicateRule reports whether a proposed rule — identified by its
// observable symptom and premise-key set — is logically identical to an
// existing rule. An empty premise set is always rejected: a rule must have
// at least one premise. Symptom comparison is exact (as authored); the
// premise sets are compared as unordered sets. The check is read-only.
func CheckDuplicateRule(kb *models.KnowledgeBase, symptom string, premiseKeys []string) (bool, string) {
	proposed := make(map[string]struct{}, len(premiseKeys))
	for _, k := range premiseKeys {
		if k != "" {
			proposed[k] = struct{}{}
		}
	}
	if len(proposed) == 0 {
		return true, "a rule must have at least one premise"
	}

	for _, rule := range kb.Rules {
		if rule.Symptom != symptom {
			continue
		}
		if samePremiseSet(proposed, rule.PremiseKeys()) {
			return true, fmt.Sprintf(
				"hypothesis %q already uses exactly this premise set for that symptom", rule.Hypothesis)
		}
	}
	return false, ""
}

func samePremiseSet(proposed map[string]struct{}, existingKeys []string) bool {
	existing := make(map[string]struct{}, len(existingKeys))
	for _, k := range existingKeys {
		existing[k] = struct{}{}
	}
	if len(existing) != len(proposed) {
		return false
	}
	for k := range existing {
		if _, ok := proposed[k]; !ok {
			return false
		}
	}
	return true
}
