package models

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// AnswerKind discriminates the AnswerValue variant.
type AnswerKind int

const (
	AnswerAbsent AnswerKind = iota
	AnswerBool
	AnswerText
)

// AnswerValue is a tagged variant for a raw user answer: a boolean (checkbox
// style), free text, or absent. It replaces the duck-typed values the answer
// map would otherwise hold.
type AnswerValue struct {
	Kind AnswerKind
	Bool bool
	Text string
}

// BoolAnswer returns a boolean answer value.
func BoolAnswer(b bool) AnswerValue { return AnswerValue{Kind: AnswerBool, Bool: b} }

// TextAnswer returns a textual answer value.
func TextAnswer(s string) AnswerValue { return AnswerValue{Kind: AnswerText, Text: s} }

// AbsentAnswer returns the absent answer value.
func AbsentAnswer() AnswerValue { return AnswerValue{Kind: AnswerAbsent} }

// IsAbsent reports whether no answer was supplied.
func (v AnswerValue) IsAbsent() bool { return v.Kind == AnswerAbsent }

func (v AnswerValue) String() string {
	switch v.Kind {
	case AnswerBool:
		return fmt.Sprintf("%t", v.Bool)
	case AnswerText:
		return v.Text
	default:
		return ""
	}
}

// MarshalJSON encodes the variant as a bare bool, string, or null.
func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case AnswerBool:
		return json.Marshal(v.Bool)
	case AnswerText:
		return json.Marshal(v.Text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a bool, a string, null, or any other scalar (kept as
// its textual form).
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = AnswerFrom(raw)
	return nil
}

// UnmarshalYAML accepts the same shapes as UnmarshalJSON.
func (v *AnswerValue) UnmarshalYAML(value *yaml.Node) error {
	var raw interface{}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*v = AnswerFrom(raw)
	return nil
}

// AnswerFrom converts a dynamically-typed raw value into the tagged variant:
// nil becomes absent, booleans and strings map directly, and any other
// scalar is kept in its textual form.
func AnswerFrom(raw interface{}) AnswerValue {
	switch t := raw.(type) {
	case nil:
		return AbsentAnswer()
	case bool:
		return BoolAnswer(t)
	case string:
		return TextAnswer(t)
	default:
		return TextAnswer(fmt.Sprintf("%v", t))
	}
}

// AnswerSet maps answer keys (premise keys, question keys, or normalized
// question texts) to raw values. It is assembled by the presentation layer
// and consumed read-only by the engine.
type AnswerSet map[string]AnswerValue

// Get returns the value for key, or the absent value when the key is missing.
func (s AnswerSet) Get(key string) AnswerValue {
	if v, ok := s[key]; ok {
		return v
	}
	return AbsentAnswer()
}
