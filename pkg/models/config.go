package models

// GlobalConfig holds the settings read from .diagwizrc, governing where the
// knowledge-base documents live and how runs are presented and recorded.
type GlobalConfig struct {
	// BaseKBPath is the bundled read-only knowledge base document.
	BaseKBPath string
	// UserKBPath is the user-extended knowledge base; ingestion writes here
	// and diagnosis prefers it when the file exists.
	UserKBPath string
	// ShowTrace controls whether the wizard prints the evaluation trace.
	ShowTrace bool
	// EventsEnabled toggles the JSONL event log.
	EventsEnabled bool
	// DefaultActions replace an empty action list on rule submissions.
	DefaultActions []string
}
