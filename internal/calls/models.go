package calls

import "time"

// Entry is one row in the call journal.
//
// The journal is append-only: placing a call appends an entry, and every
// subsequent status update appends a NEW entry carrying the same
// ProviderCallID. Prior entries are never rewritten, so the file doubles as
// the call history.

type Entry struct {
	ID     string `json:"id"`
	Number string `json:"number"`

	// ProviderCallID is the provider's call identifier (Twilio CallSid).
	// Empty when call placement itself failed.
	ProviderCallID string `json:"call_id,omitempty"`

	Status string `json:"status"`

	DurationSeconds *int `json:"duration_seconds,omitempty"`

	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

func (e Entry) RecordID() string { return e.ID }
