package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emoralesr/diagwiz/pkg/models"
)

func wizardKB() *models.KnowledgeBase {
	return &models.KnowledgeBase{
		Categories: models.CategoryList{
			{Name: "Hardware", Symptoms: []string{"No enciende"}},
		},
		Rules: []models.Rule{
			{
				Domain:     "Hardware",
				Symptom:    "No enciende",
				Hypothesis: "fuente_dañada",
				Premises:   []models.Premise{{Key: "cable_conectado"}},
				Questions: []models.Question{
					{Key: "cable_conectado", Text: "¿El cable está conectado?"},
				},
				Actions: []string{"Revisar la fuente"},
			},
		},
	}
}

func press(t *testing.T, m tea.Model, key string) wizardModel {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	wm, ok := next.(wizardModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return wm
}

func TestWizardFullFlow(t *testing.T) {
	m := newWizardModel(wizardKB(), false)

	m = press(t, m, "enter") // category Hardware
	if m.step != stepObservable || m.category != "Hardware" {
		t.Fatalf("after category: step=%d category=%q", m.step, m.category)
	}

	m = press(t, m, "enter") // observable No enciende
	if m.step != stepQuestions || m.observable != "No enciende" {
		t.Fatalf("after observable: step=%d observable=%q", m.step, m.observable)
	}

	m = press(t, m, "y") // answer the single yes/no question
	if m.step != stepDone {
		t.Fatalf("after last answer: step=%d", m.step)
	}
	if m.diagnosis == nil || m.diagnosis.Cause != "fuente_dañada" {
		t.Fatalf("diagnosis = %+v", m.diagnosis)
	}
}

func TestWizardSkippedQuestionUndetermined(t *testing.T) {
	m := newWizardModel(wizardKB(), false)

	m = press(t, m, "enter")
	m = press(t, m, "enter")
	m = press(t, m, "enter") // skip the question

	if m.step != stepDone || m.diagnosis == nil {
		t.Fatalf("wizard did not finish: step=%d", m.step)
	}
	if !m.diagnosis.Undetermined() {
		t.Errorf("cause = %q, want undetermined after skipping", m.diagnosis.Cause)
	}
}

func TestWizardSpanishAffirmativeKey(t *testing.T) {
	m := newWizardModel(wizardKB(), false)

	m = press(t, m, "enter")
	m = press(t, m, "enter")
	m = press(t, m, "s")

	if m.diagnosis == nil || m.diagnosis.Cause != "fuente_dañada" {
		t.Fatalf("diagnosis = %+v", m.diagnosis)
	}
}

func TestWizardListNavigation(t *testing.T) {
	kb := wizardKB()
	kb.Categories = append(kb.Categories, models.Category{Name: "Conectividad", Symptoms: []string{"Sin internet"}})
	m := newWizardModel(kb, false)

	m = press(t, m, "j")
	if m.cursor != 1 {
		t.Fatalf("cursor = %d after down", m.cursor)
	}
	m = press(t, m, "j")
	if m.cursor != 1 {
		t.Error("cursor should clamp at the last item")
	}
	m = press(t, m, "k")
	if m.cursor != 0 {
		t.Errorf("cursor = %d after up", m.cursor)
	}

	m = press(t, m, "j")
	m = press(t, m, "enter")
	if m.category != "Conectividad" {
		t.Errorf("category = %q, want the item under the cursor", m.category)
	}
}

func TestWizardQuit(t *testing.T) {
	m := newWizardModel(wizardKB(), false)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	wm := next.(wizardModel)
	if !wm.quitting || cmd == nil {
		t.Error("esc should quit")
	}
	if wm.View() != "" {
		t.Error("quitting view should be empty")
	}
}
