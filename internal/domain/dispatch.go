package domain

import "time"

// DispatchAttempt is the audit record of one execution of a queued dispatch
// job by the background worker.
type DispatchAttempt struct {
	ID           string    `json:"id"`
	JobID        string    `json:"job_id"`
	EventType    string    `json:"event_type"`
	Attempt      int       `json:"attempt"`
	Status       string    `json:"status"`
	DurationMs   *int      `json:"duration_ms,omitempty"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
