package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/emoralesr/diagwiz/pkg/models"
)

func TestDiagnosePremisesSatisfied(t *testing.T) {
	kb := testKB()
	answers := models.AnswerSet{
		"cable_conectado": models.TextAnswer("sí"),
	}

	d := Diagnose(kb, "Hardware", "No enciende", answers)

	if d.Cause != "fuente_dañada" {
		t.Fatalf("cause = %q, want fuente_dañada", d.Cause)
	}
	if d.Domain != "Hardware" {
		t.Errorf("domain = %q, want Hardware", d.Domain)
	}
	if d.UserSuggestion == "" {
		t.Error("user suggestion should carry through from the rule")
	}
	if len(d.Actions) != 2 {
		t.Errorf("got %d actions, want the rule's 2", len(d.Actions))
	}
	if len(d.Trace) != 1 {
		t.Fatalf("first rule accepted, trace should stop there; got %d entries", len(d.Trace))
	}
	rt := d.Trace[0]
	if !rt.Accepted || rt.Reason != ReasonPremisesSatisfied {
		t.Errorf("trace = accepted %v reason %q, want accepted with %q", rt.Accepted, rt.Reason, ReasonPremisesSatisfied)
	}
	if rt.Premises["cable_conectado"] != models.TruthTrue {
		t.Errorf("premise truth = %s, want true", rt.Premises["cable_conectado"])
	}
}

func TestDiagnoseQuestionConfirms(t *testing.T) {
	kb := testKB()
	answers := models.AnswerSet{
		"cable_conectado": models.TextAnswer("no"),
		"fuente_dañada":   models.TextAnswer("sí"),
	}

	d := Diagnose(kb, "Hardware", "No enciende", answers)

	if d.Cause != "fuente_dañada" {
		t.Fatalf("cause = %q, want fuente_dañada (confirmed by question)", d.Cause)
	}
	rt := d.Trace[0]
	if rt.Reason != ReasonQuestionConfirmed {
		t.Errorf("reason = %q, want %q", rt.Reason, ReasonQuestionConfirmed)
	}
	if rt.Premises["cable_conectado"] != models.TruthFalse {
		t.Errorf("failed premise should be traced as false, got %s", rt.Premises["cable_conectado"])
	}
	var confirmed bool
	for _, q := range rt.Questions {
		if q.Confirmed {
			confirmed = true
		}
	}
	if !confirmed {
		t.Error("no question marked confirmed in the trace")
	}
}

// When both the premises hold and a question confirms, the premises reason
// takes precedence in the trace.
func TestDiagnoseReasonPrecedence(t *testing.T) {
	kb := testKB()
	answers := models.AnswerSet{
		"cable_conectado": models.TextAnswer("sí"),
		"fuente_dañada":   models.TextAnswer("sí"),
	}

	d := Diagnose(kb, "Hardware", "No enciende", answers)
	if d.Trace[0].Reason != ReasonPremisesSatisfied {
		t.Errorf("reason = %q, want %q", d.Trace[0].Reason, ReasonPremisesSatisfied)
	}
}

func TestDiagnoseNoAnswersUndetermined(t *testing.T) {
	kb := testKB()

	d := Diagnose(kb, "Hardware", "No enciende", models.AnswerSet{})

	if !d.Undetermined() {
		t.Fatalf("cause = %q, want undetermined", d.Cause)
	}
	if d.Domain != "Hardware" {
		t.Errorf("undetermined diagnosis keeps the selected category, got %q", d.Domain)
	}
	if len(d.Actions) == 0 {
		t.Error("undetermined diagnosis should carry fallback actions")
	}
	if len(d.Trace) != 2 {
		t.Fatalf("every candidate should be traced, got %d entries", len(d.Trace))
	}
	for _, rt := range d.Trace {
		if rt.Accepted {
			t.Errorf("rule %q accepted with no answers", rt.Hypothesis)
		}
		if rt.Reason != ReasonInsufficient {
			t.Errorf("rule %q reason = %q, want %q", rt.Hypothesis, rt.Reason, ReasonInsufficient)
		}
		for key, truth := range rt.Premises {
			if truth != models.TruthUnknown {
				t.Errorf("premise %q = %s with no answers, want unknown", key, truth)
			}
		}
		for _, q := range rt.Questions {
			if q.Used || q.Confirmed {
				t.Errorf("question %q marked used/confirmed with no answers", q.Question)
			}
		}
	}
}

func TestDiagnoseNoCandidates(t *testing.T) {
	kb := testKB()

	d := Diagnose(kb, "Hardware", "se reinicia solo", models.AnswerSet{})

	if !d.Undetermined() {
		t.Fatalf("cause = %q, want undetermined", d.Cause)
	}
	if len(d.Trace) != 0 {
		t.Errorf("no candidates means an empty trace, got %d entries", len(d.Trace))
	}
}

func TestDiagnoseFirstMatchWins(t *testing.T) {
	kb := testKB()
	// Answers that would accept both rules for the symptom.
	answers := models.AnswerSet{
		"cable_conectado": models.TextAnswer("sí"),
		"batería_cargada": models.TextAnswer("sí"),
	}

	d := Diagnose(kb, "Hardware", "No enciende", answers)

	if d.Cause != "fuente_dañada" {
		t.Errorf("cause = %q, want the earlier rule fuente_dañada", d.Cause)
	}
	if len(d.Trace) != 1 {
		t.Errorf("second rule should not be evaluated, trace has %d entries", len(d.Trace))
	}
}

// A premise with no answer under its key falls back to the answer stored
// under the normalized text of the question that carries that key.
func TestDiagnosePremiseTextFallback(t *testing.T) {
	kb := testKB()
	answers := models.AnswerSet{
		Normalize("¿El cable está conectado a la corriente?"): models.TextAnswer("sí"),
	}

	d := Diagnose(kb, "Hardware", "No enciende", answers)

	if d.Cause != "fuente_dañada" {
		t.Errorf("cause = %q, want fuente_dañada via text fallback", d.Cause)
	}
	if d.Trace[0].Premises["cable_conectado"] != models.TruthTrue {
		t.Errorf("premise truth = %s, want true", d.Trace[0].Premises["cable_conectado"])
	}
}

func TestDiagnoseBooleanAnswers(t *testing.T) {
	kb := testKB()
	answers := models.AnswerSet{
		"router_encendido": models.BoolAnswer(true),
	}

	d := Diagnose(kb, "Conectividad", "Sin internet", answers)
	if d.Cause != "router_apagado" {
		t.Errorf("cause = %q, want router_apagado", d.Cause)
	}
}

func TestDiagnoseMultipleChoiceConfirmation(t *testing.T) {
	kb := testKB()
	answers := models.AnswerSet{
		"luces_router": models.TextAnswer("No enciende ninguna"),
	}

	d := Diagnose(kb, "Conectividad", "Sin internet", answers)
	if !d.Undetermined() {
		t.Fatalf("a choice containing %q should not confirm, got cause %q", "no", d.Cause)
	}

	answers["luces_router"] = models.TextAnswer("Todas encendidas")
	d = Diagnose(kb, "Conectividad", "Sin internet", answers)
	if d.Cause != "router_apagado" {
		t.Errorf("affirmative choice should confirm, got cause %q", d.Cause)
	}
}

func TestDiagnoseDoesNotMutateInputs(t *testing.T) {
	kb := testKB()
	answers := models.AnswerSet{"cable_conectado": models.TextAnswer("sí")}

	before := testKB()
	Diagnose(kb, "Hardware", "No enciende", answers)

	if diff := cmp.Diff(before, kb); diff != "" {
		t.Errorf("knowledge base mutated (-before +after):\n%s", diff)
	}
	if len(answers) != 1 {
		t.Errorf("answer set mutated, now has %d entries", len(answers))
	}
}

func TestDiagnoseDeterministic(t *testing.T) {
	kb := testKB()
	answers := models.AnswerSet{
		"cable_conectado": models.TextAnswer("no"),
		"batería_cargada": models.TextAnswer("quizás"),
	}

	first := Diagnose(kb, "Hardware", "No enciende", answers)
	second := Diagnose(kb, "Hardware", "No enciende", answers)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("identical inputs produced different diagnoses (-first +second):\n%s", diff)
	}
}
