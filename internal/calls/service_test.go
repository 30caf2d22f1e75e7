package calls

import (
	"errors"
	"testing"

	"autodialer-platform/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	col, err := store.NewCollection[Entry](t.TempDir(), "call_logs")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return NewService(col)
}

func TestRecordPlaced_Appends(t *testing.T) {
	svc := newTestService(t)

	e1, err := svc.RecordPlaced("+18001234567", "CA1", "calling")
	if err != nil {
		t.Fatalf("record placed: %v", err)
	}
	if e1.ID == "" || e1.StartedAt.IsZero() {
		t.Fatalf("unexpected entry: %+v", e1)
	}

	e2, err := svc.RecordStatus("+18001234567", "CA1", "completed", 42, true)
	if err != nil {
		t.Fatalf("record status: %v", err)
	}
	if e2.DurationSeconds == nil || *e2.DurationSeconds != 42 || e2.EndedAt == nil {
		t.Fatalf("expected terminal fields set: %+v", e2)
	}

	entries, err := svc.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 journal entries, got %d", len(entries))
	}
	// Status updates append; the placement entry is untouched.
	if entries[0].Status != "calling" || entries[1].Status != "completed" {
		t.Fatalf("unexpected journal order: %+v", entries)
	}
	if entries[0].ProviderCallID != entries[1].ProviderCallID {
		t.Fatalf("entries for one call must share the provider call id")
	}
}

func TestRecordStatus_NonTerminalHasNoDuration(t *testing.T) {
	svc := newTestService(t)
	e, err := svc.RecordStatus("+18001234567", "CA1", "calling", 0, false)
	if err != nil {
		t.Fatalf("record status: %v", err)
	}
	if e.DurationSeconds != nil || e.EndedAt != nil {
		t.Fatalf("non-terminal entry must not carry duration/end: %+v", e)
	}
}

func TestRecord_RejectsEmptyFields(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.RecordPlaced("", "CA1", "calling"); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidEntry, got %v", err)
	}
	if _, err := svc.RecordStatus("+1800", "CA1", "", 0, false); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidEntry, got %v", err)
	}
}
