// Package observability provides a lightweight append-only event log that
// records diagnosis runs and knowledge-base changes for later inspection.
package observability

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Event types written by the engine surfaces.
const (
	EventDiagnosisCompleted = "diagnosis.completed"
	EventRuleAdded          = "rule.added"
)

// Event represents a single observable event in the system.
type Event struct {
	Time    time.Time      `json:"time"`
	Type    string         `json:"type"`
	Message string         `json:"msg"`
	Data    map[string]any `json:"data,omitempty"`
}

// EventFilter specifies criteria for reading events.
type EventFilter struct {
	Since *time.Time
	Type  string
}

// EventLog defines the interface for writing and reading events.
type EventLog interface {
	Write(event Event) error
	Read(filter EventFilter) ([]Event, error)
	Close() error
}

// jsonlEventLog implements EventLog using an append-only JSONL file.
type jsonlEventLog struct {
	path string
	file *os.File
	mu   sync.Mutex
}

// NewJSONLEventLog creates a new EventLog backed by a JSONL file at the given path.
func NewJSONLEventLog(path string) (EventLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	return &jsonlEventLog{path: path, file: f}, nil
}

// Write appends a JSON-encoded event followed by a newline to the log file.
func (l *jsonlEventLog) Write(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}
	data = append(data, '\n')

	if _, err := l.file.Write(data); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	return nil
}

// Read scans the log file line by line, decodes each event, and returns
// those matching the given filter.
func (l *jsonlEventLog) Read(filter EventFilter) ([]Event, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening event log for reading: %w", err)
	}
	defer func() { _ = f.Close() }()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // skip malformed lines
		}
		if matchesEventFilter(event, filter) {
			events = append(events, event)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning event log: %w", err)
	}
	return events, nil
}

func (l *jsonlEventLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

func matchesEventFilter(event Event, filter EventFilter) bool {
	if filter.Type != "" && event.Type != filter.Type {
		return false
	}
	if filter.Since != nil && event.Time.Before(*filter.Since) {
		return false
	}
	return true
}

// DiagnosisEvent builds the event recorded after a diagnosis run.
func DiagnosisEvent(category, observable, cause string, accepted bool, candidates int) Event {
	return Event{
		Type:    EventDiagnosisCompleted,
		Message: fmt.Sprintf("diagnosis for %q completed: %s", observable, cause),
		Data: map[string]any{
			"category":   category,
			"observable": observable,
			"cause":      cause,
			"accepted":   accepted,
			"candidates": candidates,
		},
	}
}

// RuleAddedEvent builds the event recorded after a rule is ingested.
func RuleAddedEvent(symptom, hypothesis string, premiseCount int) Event {
	return Event{
		Type:    EventRuleAdded,
		Message: fmt.Sprintf("rule %q added for symptom %q", hypothesis, symptom),
		Data: map[string]any{
			"symptom":    symptom,
			"hypothesis": hypothesis,
			"premises":   premiseCount,
		},
	}
}
