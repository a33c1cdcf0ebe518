package models

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusBlocked   RunStatus = "blocked"
	RunStatusFailed    RunStatus = "failed"
)

type RunKind string

const (
	RunKindExtract RunKind = "extract"
	RunKindSearch  RunKind = "search"
)

// ExtractRun records one extraction or saved-search execution in the
// operational store.
type ExtractRun struct {
	ID          int64      `json:"id" db:"id"`
	Kind        RunKind    `json:"kind" db:"kind"`
	Source      string     `json:"source" db:"source"`
	Target      string     `json:"target" db:"target"` // URL or search prompt
	StartedAt   time.Time  `json:"started_at" db:"started_at"`
	FinishedAt  *time.Time `json:"finished_at" db:"finished_at"`
	Status      RunStatus  `json:"status" db:"status"`
	FieldsFound int        `json:"fields_found" db:"fields_found"`
	ListingsNew int        `json:"listings_new" db:"listings_new"`
	ErrorsCount int        `json:"errors_count" db:"errors_count"`
}
