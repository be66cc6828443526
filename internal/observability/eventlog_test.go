package observability

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestLog(t *testing.T) (EventLog, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("NewJSONLEventLog: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log, path
}

func TestEventLogWriteRead(t *testing.T) {
	log, _ := newTestLog(t)

	if err := log.Write(DiagnosisEvent("Hardware", "No enciende", "fuente_dañada", true, 2)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := log.Write(RuleAddedEvent("No enciende", "regleta_defectuosa", 1)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	events, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Type != EventDiagnosisCompleted || events[1].Type != EventRuleAdded {
		t.Errorf("event types = %q, %q", events[0].Type, events[1].Type)
	}
	if events[0].Time.IsZero() {
		t.Error("write should stamp a zero event time")
	}
	if events[0].Data["cause"] != "fuente_dañada" {
		t.Errorf("diagnosis data = %v", events[0].Data)
	}
}

func TestEventLogFilterByType(t *testing.T) {
	log, _ := newTestLog(t)

	_ = log.Write(DiagnosisEvent("Hardware", "No enciende", "undetermined", false, 2))
	_ = log.Write(RuleAddedEvent("No enciende", "nueva", 1))
	_ = log.Write(DiagnosisEvent("Conectividad", "Sin internet", "router_apagado", true, 1))

	events, err := log.Read(EventFilter{Type: EventDiagnosisCompleted})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("got %d diagnosis events, want 2", len(events))
	}
}

func TestEventLogFilterSince(t *testing.T) {
	log, _ := newTestLog(t)

	old := time.Now().Add(-time.Hour)
	_ = log.Write(Event{Time: old, Type: "old"})
	_ = log.Write(Event{Type: "new"})

	since := time.Now().Add(-time.Minute)
	events, err := log.Read(EventFilter{Since: &since})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(events) != 1 || events[0].Type != "new" {
		t.Errorf("since filter returned %v", events)
	}
}

func TestEventLogSkipsMalformedLines(t *testing.T) {
	log, path := newTestLog(t)

	_ = log.Write(Event{Type: "good"})
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("{not json\n\n"); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()
	_ = log.Write(Event{Type: "also good"})

	events, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("got %d events, want 2 with malformed lines skipped", len(events))
	}
}

func TestEventLogReadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatal(err)
	}
	_ = log.Close()
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	events, err := log.Read(EventFilter{})
	if err != nil || events != nil {
		t.Errorf("missing log should read as empty, got %v, %v", events, err)
	}
}
