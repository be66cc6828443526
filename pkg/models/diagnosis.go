package models

import (
	"encoding/json"
	"fmt"
)

// Truth is the tri-state result of classifying an answer. The zero value is
// TruthUnknown, so an unresolved premise reads as unknown rather than false.
type Truth int

const (
	TruthUnknown Truth = iota
	TruthFalse
	TruthTrue
)

func (t Truth) String() string {
	switch t {
	case TruthTrue:
		return "true"
	case TruthFalse:
		return "false"
	default:
		return "unknown"
	}
}

// Satisfied reports whether the truth value counts as a satisfied premise.
// Unknown and false both count as not satisfied.
func (t Truth) Satisfied() bool { return t == TruthTrue }

// MarshalJSON encodes the truth value as its string form, keeping traces
// readable in the event log and over MCP.
func (t Truth) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes the string form produced by MarshalJSON.
func (t *Truth) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "true":
		*t = TruthTrue
	case "false":
		*t = TruthFalse
	case "unknown":
		*t = TruthUnknown
	default:
		return fmt.Errorf("invalid truth value %q", s)
	}
	return nil
}

// QuestionTrace records how one of a rule's questions was evaluated.
type QuestionTrace struct {
	Question  string      `json:"question"`
	Response  AnswerValue `json:"response"`
	Used      bool        `json:"used"`
	Confirmed bool        `json:"confirmed"`
}

// RuleTrace is the per-rule evaluation record: resolved premise truths keyed
// by premise key, per-question usage and confirmation, and the acceptance
// outcome with its human-readable reason.
type RuleTrace struct {
	Hypothesis string           `json:"hypothesis"`
	Domain     string           `json:"domain"`
	Premises   map[string]Truth `json:"premises"`
	Questions  []QuestionTrace  `json:"questions"`
	Accepted   bool             `json:"accepted"`
	Reason     string           `json:"reason"`
}

// CauseUndetermined is the sentinel cause returned when no candidate rule
// is accepted.
const CauseUndetermined = "undetermined"

// Diagnosis is the outcome of a diagnosis run: either the first accepted
// rule's hypothesis with its remediation actions, or the undetermined
// fallback. Trace holds the evaluation of every candidate considered, in
// knowledge-base order.
type Diagnosis struct {
	Cause          string      `json:"cause"`
	Actions        []string    `json:"actions"`
	Domain         string      `json:"domain"`
	UserSuggestion string      `json:"user_suggestion,omitempty"`
	Trace          []RuleTrace `json:"trace"`
}

// Undetermined reports whether no candidate rule was accepted.
func (d Diagnosis) Undetermined() bool { return d.Cause == CauseUndetermined }
