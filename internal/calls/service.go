package calls

import (
	"errors"
	"time"

	"autodialer-platform/internal/store"

	"github.com/google/uuid"
)

var ErrInvalidEntry = errors.New("calls: invalid entry")

// Service appends to and reads the call journal.
// No update or delete methods are provided; the journal is history.
type Service struct {
	col   *store.Collection[Entry]
	clock func() time.Time
}

func NewService(col *store.Collection[Entry]) *Service {
	return &Service{col: col, clock: time.Now}
}

// RecordPlaced appends the entry for a freshly placed (or failed) call.
func (s *Service) RecordPlaced(number, providerCallID, status string) (Entry, error) {
	if number == "" || status == "" {
		return Entry{}, ErrInvalidEntry
	}
	e := Entry{
		ID:             uuid.NewString(),
		Number:         number,
		ProviderCallID: providerCallID,
		Status:         status,
		StartedAt:      s.clock().UTC(),
	}
	if err := s.col.Upsert(e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// RecordStatus appends a status-update entry for an existing call.
// Terminal updates carry the duration and an end timestamp.
func (s *Service) RecordStatus(number, providerCallID, status string, durationSeconds int, terminal bool) (Entry, error) {
	if number == "" || status == "" {
		return Entry{}, ErrInvalidEntry
	}
	e := Entry{
		ID:             uuid.NewString(),
		Number:         number,
		ProviderCallID: providerCallID,
		Status:         status,
		StartedAt:      s.clock().UTC(),
	}
	if terminal {
		d := durationSeconds
		e.DurationSeconds = &d
		ended := s.clock().UTC()
		e.EndedAt = &ended
	}
	if err := s.col.Upsert(e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// List returns the journal in append order.
func (s *Service) List() ([]Entry, error) { return s.col.Load() }

// Clear drops the whole journal.
func (s *Service) Clear() error { return s.col.Clear() }

// Count returns the journal length.
func (s *Service) Count() (int, error) { return s.col.Count() }
