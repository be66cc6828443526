package core

import (
	"strings"

	"github.com/emoralesr/diagwiz/pkg/models"
)

// affirmativeTokens and negativeTokens are the fixed answer vocabularies for
// yes/no classification. Spanish and English forms are both accepted.
var (
	affirmativeTokens = map[string]bool{
		"sí": true, "si": true, "s": true, "y": true, "yes": true, "1": true,
	}
	negativeTokens = map[string]bool{
		"no": true, "n": true, "0": true,
	}
)

// emptyMarkers flag option texts that negate rather than confirm.
var emptyMarkers = []string{"no", "vacía", "vacia"}

// Classify maps a raw answer value to a tri-state truth, aware of the
// question type the answer belongs to. It never fails: absent values
// classify as unknown, and unrecognized types fall back to truthiness of
// the raw value.
//
// For yes_no questions the strict token sets decide; anything else is
// unknown. Permissive non-empty-as-confirmation behavior is reached through
// the free_text type instead of a per-call switch.
func Classify(value models.AnswerValue, questionType models.QuestionType) models.Truth {
	switch value.Kind {
	case models.AnswerAbsent:
		return models.TruthUnknown
	case models.AnswerBool:
		return truthOf(value.Bool)
	}

	text := strings.ToLower(strings.TrimSpace(value.Text))
	if affirmativeTokens[text] {
		return models.TruthTrue
	}
	if negativeTokens[text] {
		return models.TruthFalse
	}

	switch questionType {
	case models.QuestionYesNo, "":
		return models.TruthUnknown
	case models.QuestionMultipleChoice:
		if text == "" {
			return models.TruthUnknown
		}
		for _, marker := range emptyMarkers {
			if strings.Contains(text, marker) {
				return models.TruthFalse
			}
		}
		return models.TruthTrue
	case models.QuestionFreeText:
		return truthOf(text != "")
	default:
		return truthOf(text != "")
	}
}

func truthOf(b bool) models.Truth {
	if b {
		return models.TruthTrue
	}
	return models.TruthFalse
}
