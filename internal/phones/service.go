package phones

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"autodialer-platform/internal/store"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("phones: number not found")
	ErrInvalidTransition = errors.New("phones: invalid status transition")
)

// Service owns the phone number collection.
type Service struct {
	col   *store.Collection[PhoneNumber]
	clock func() time.Time
}

func NewService(col *store.Collection[PhoneNumber]) *Service {
	return &Service{col: col, clock: time.Now}
}

// UploadText registers numbers from a newline-separated list.
// Blank lines and numbers already present are skipped.
// Every new record starts pending.
func (s *Service) UploadText(text string) (int, error) {
	var numbers []string
	for _, line := range strings.Split(text, "\n") {
		if n := strings.TrimSpace(line); n != "" {
			numbers = append(numbers, n)
		}
	}
	return s.add(numbers)
}

// UploadCSV registers numbers from the first column of a CSV stream.
func (s *Service) UploadCSV(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var numbers []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("phones: read csv: %w", err)
		}
		if len(row) == 0 {
			continue
		}
		if n := strings.TrimSpace(row[0]); n != "" {
			numbers = append(numbers, n)
		}
	}
	return s.add(numbers)
}

func (s *Service) add(numbers []string) (int, error) {
	added := 0
	err := s.col.Update(func(records []PhoneNumber) ([]PhoneNumber, error) {
		seen := make(map[string]bool, len(records))
		for _, r := range records {
			seen[r.Number] = true
		}
		for _, n := range numbers {
			if seen[n] {
				continue
			}
			seen[n] = true
			records = append(records, PhoneNumber{
				ID:        uuid.NewString(),
				Number:    n,
				Status:    StatusPending,
				CreatedAt: s.clock().UTC(),
			})
			added++
		}
		return records, nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// List returns all records in upload order.
func (s *Service) List() ([]PhoneNumber, error) {
	return s.col.Load()
}

// ListPending returns records still waiting to be dialed.
func (s *Service) ListPending() ([]PhoneNumber, error) {
	records, err := s.col.Load()
	if err != nil {
		return nil, err
	}
	var out []PhoneNumber
	for _, r := range records {
		if r.Status == StatusPending {
			out = append(out, r)
		}
	}
	return out, nil
}

// GetOrCreate returns the record for number, creating a pending one if absent.
// The AI-call path uses this so freeform commands can dial unknown numbers.
func (s *Service) GetOrCreate(number string) (PhoneNumber, error) {
	var out PhoneNumber
	err := s.col.Update(func(records []PhoneNumber) ([]PhoneNumber, error) {
		for _, r := range records {
			if r.Number == number {
				out = r
				return records, nil
			}
		}
		out = PhoneNumber{
			ID:        uuid.NewString(),
			Number:    number,
			Status:    StatusPending,
			CreatedAt: s.clock().UTC(),
		}
		return append(records, out), nil
	})
	if err != nil {
		return PhoneNumber{}, err
	}
	return out, nil
}

// MarkCalling records that a call was placed for this record.
func (s *Service) MarkCalling(id, providerCallID string) (PhoneNumber, error) {
	return s.apply(func(r PhoneNumber) bool { return r.ID == id }, func(r *PhoneNumber) error {
		if !CanTransition(r.Status, StatusCalling) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, StatusCalling)
		}
		now := s.clock().UTC()
		r.Status = StatusCalling
		r.ProviderCallID = providerCallID
		r.CalledAt = &now
		return nil
	})
}

// MarkFailed records a call placement failure with the provider error text.
func (s *Service) MarkFailed(id, notes string) (PhoneNumber, error) {
	return s.apply(func(r PhoneNumber) bool { return r.ID == id }, func(r *PhoneNumber) error {
		if !CanTransition(r.Status, StatusFailed) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, StatusFailed)
		}
		r.Status = StatusFailed
		r.Notes = notes
		return nil
	})
}

// ApplyStatusByID forces a status (with duration) onto a record by id.
// Used by the call-completion simulator.
func (s *Service) ApplyStatusByID(id string, status Status, durationSeconds int) (PhoneNumber, error) {
	return s.apply(func(r PhoneNumber) bool { return r.ID == id }, func(r *PhoneNumber) error {
		if !CanTransition(r.Status, status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, status)
		}
		r.Status = status
		r.DurationSeconds = durationSeconds
		return nil
	})
}

// ApplyProviderStatus applies a provider status update, located by the
// provider's call id. Regressive updates (a late "ringing" after "completed")
// are dropped rather than treated as errors: webhooks can arrive out of order.
func (s *Service) ApplyProviderStatus(providerCallID string, status Status, durationSeconds int) (PhoneNumber, error) {
	return s.apply(func(r PhoneNumber) bool { return r.ProviderCallID == providerCallID && providerCallID != "" }, func(r *PhoneNumber) error {
		if !CanTransition(r.Status, status) {
			return nil
		}
		r.Status = status
		if durationSeconds > 0 {
			r.DurationSeconds = durationSeconds
		}
		return nil
	})
}

// ListCalling returns records with calls currently in flight.
func (s *Service) ListCalling() ([]PhoneNumber, error) {
	records, err := s.col.Load()
	if err != nil {
		return nil, err
	}
	var out []PhoneNumber
	for _, r := range records {
		if r.Status == StatusCalling {
			out = append(out, r)
		}
	}
	return out, nil
}

// Clear drops every record.
func (s *Service) Clear() error { return s.col.Clear() }

// Count returns the collection size.
func (s *Service) Count() (int, error) { return s.col.Count() }

func (s *Service) apply(match func(PhoneNumber) bool, mutate func(*PhoneNumber) error) (PhoneNumber, error) {
	var out PhoneNumber
	found := false
	err := s.col.Update(func(records []PhoneNumber) ([]PhoneNumber, error) {
		for i := range records {
			if !match(records[i]) {
				continue
			}
			found = true
			if err := mutate(&records[i]); err != nil {
				return nil, err
			}
			out = records[i]
			return records, nil
		}
		return records, nil
	})
	if err != nil {
		return PhoneNumber{}, err
	}
	if !found {
		return PhoneNumber{}, ErrNotFound
	}
	return out, nil
}
