package core

import (
	"strconv"
	"strings"

	"github.com/emoralesr/diagwiz/pkg/models"
)

// SelectCategory resolves a category choice against the knowledge base.
// A choice made of digits is a 1-based index into the category list;
// anything else is matched case-insensitively against category names,
// first match wins. The second return value is false when nothing matches.
func SelectCategory(kb *models.KnowledgeBase, choice string) (string, bool) {
	return selectEntry(kb.Categories.Names(), choice)
}

// SelectObservable resolves an observable-symptom choice within a category,
// using the same dual index-or-name addressing as SelectCategory.
func SelectObservable(kb *models.KnowledgeBase, category, choice string) (string, bool) {
	symptoms, ok := kb.Categories.Symptoms(category)
	if !ok {
		return "", false
	}
	return selectEntry(symptoms, choice)
}

func selectEntry(entries []string, choice string) (string, bool) {
	choice = strings.TrimSpace(choice)
	if isDigits(choice) {
		idx, err := strconv.Atoi(choice)
		if err != nil || idx < 1 || idx > len(entries) {
			return "", false
		}
		return entries[idx-1], true
	}
	for _, e := range entries {
		if strings.EqualFold(choice, e) {
			return e, true
		}
	}
	return "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
