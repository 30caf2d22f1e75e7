package phones

import "time"

// PhoneNumber is one dial target uploaded by the operator.
//
// Status is the CURRENT call state for this number. The full status history
// lives in the calls journal; this record is what the dashboard reads.

type PhoneNumber struct {
	ID     string `json:"id"`
	Number string `json:"number"`

	Status Status `json:"status"`

	// ProviderCallID is the provider's identifier (Twilio CallSid) for the
	// most recent call placed to this number, empty before the first call.
	ProviderCallID string `json:"provider_call_id,omitempty"`

	DurationSeconds int `json:"duration_seconds"`

	// Notes carries the provider error text when a call fails.
	Notes string `json:"notes,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	CalledAt  *time.Time `json:"called_at,omitempty"`
}

func (p PhoneNumber) RecordID() string { return p.ID }

type Status string

const (
	StatusPending   Status = "pending"
	StatusCalling   Status = "calling"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusBusy      Status = "busy"
	StatusNoAnswer  Status = "no_answer"
)

// Terminal reports whether the status is a final call outcome.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusBusy, StatusNoAnswer:
		return true
	}
	return false
}

// rank orders statuses along the call lifecycle: pending < calling < terminal.
func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusCalling:
		return 1
	default:
		return 2
	}
}

// CanTransition reports whether moving from -> to respects the monotonic
// lifecycle. Re-applying the same status is allowed (idempotent webhooks);
// moving backwards or changing one terminal outcome into another is not.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	return to.rank() > from.rank()
}
