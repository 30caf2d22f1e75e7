package telephony

import (
	"context"
	"errors"
	"regexp"

	"autodialer-platform/internal/phones"
)

// Provider defines the provider-agnostic calling interface used by the API
// layer.
//
// Rules:
// - No provider SDK calls outside telephony adapters.
// - Request/response types stay provider-agnostic; the provider's raw status
//   string is preserved for the journal.
type Provider interface {
	Name() string

	// Configured reports whether credentials are present. The process runs
	// with an unconfigured provider ("test mode"); call endpoints degrade.
	Configured() bool

	HealthCheck(ctx context.Context) error

	PlaceCall(ctx context.Context, req PlaceCallRequest) (PlaceCallResult, error)
	FetchCallStatus(ctx context.Context, providerCallID string) (CallStatusResult, error)
}

type PlaceCallRequest struct {
	// To is the destination number, E.164.
	To string `json:"to"`
}

type PlaceCallResult struct {
	// ProviderCallID is the provider's unique identifier for the call.
	ProviderCallID string `json:"provider_call_id"`
}

type CallStatusResult struct {
	// ProviderStatus is the provider's own status string.
	ProviderStatus string `json:"provider_status"`

	// Status is ProviderStatus mapped onto the internal lifecycle.
	Status phones.Status `json:"status"`

	DurationSeconds int `json:"duration_seconds"`
}

var (
	// ErrInvalidNumber rejects dial targets that do not look like E.164.
	ErrInvalidNumber = errors.New("telephony: invalid phone number")

	// ErrNotConfigured is returned by the disabled provider.
	ErrNotConfigured = errors.New("telephony: provider not configured")

	// ErrProvider wraps upstream provider failures. Callers record the
	// attempt as failed; there is no retry.
	ErrProvider = errors.New("telephony: provider error")
)

// e164Pattern is deliberately loose: optional +, 8-15 digits.
// Full numbering-plan validation is the provider's job.
var e164Pattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// ValidateNumber checks a dial target against the loose E.164 pattern.
func ValidateNumber(number string) error {
	if !e164Pattern.MatchString(number) {
		return ErrInvalidNumber
	}
	return nil
}

// MapProviderStatus maps a Twilio-style call status onto the internal
// lifecycle. The second return is false for statuses we do not recognize.
func MapProviderStatus(providerStatus string) (phones.Status, bool) {
	switch providerStatus {
	case "queued", "initiated", "ringing", "answered", "in-progress":
		return phones.StatusCalling, true
	case "completed":
		return phones.StatusCompleted, true
	case "busy":
		return phones.StatusBusy, true
	case "no-answer":
		return phones.StatusNoAnswer, true
	case "failed", "canceled":
		return phones.StatusFailed, true
	default:
		return "", false
	}
}
