package reporting

import (
	"strings"
	"testing"
	"time"

	"autodialer-platform/internal/calls"
	"autodialer-platform/internal/phones"
)

// MemoryRepo is a fixture-backed repository for tests.
type MemoryRepo struct {
	Phones  []phones.PhoneNumber
	Entries []calls.Entry
}

func (r *MemoryRepo) ListPhoneNumbers() ([]phones.PhoneNumber, error) { return r.Phones, nil }
func (r *MemoryRepo) ListCallEntries() ([]calls.Entry, error)         { return r.Entries, nil }

func TestCallStats_AggregatesByStatus(t *testing.T) {
	repo := &MemoryRepo{Phones: []phones.PhoneNumber{
		{ID: "1", Status: phones.StatusPending},
		{ID: "2", Status: phones.StatusCalling},
		{ID: "3", Status: phones.StatusCompleted},
		{ID: "4", Status: phones.StatusCompleted},
		{ID: "5", Status: phones.StatusFailed},
		{ID: "6", Status: phones.StatusBusy},
		{ID: "7", Status: phones.StatusNoAnswer},
	}}
	svc := NewService(repo)

	stats, err := svc.CallStats()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if stats.Total != 7 || stats.Pending != 1 || stats.Calling != 1 || stats.Completed != 2 || stats.Failed != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.SuccessRate != "28.6%" {
		t.Fatalf("unexpected success rate %q", stats.SuccessRate)
	}
}

func TestCallStats_EmptyCollection(t *testing.T) {
	svc := NewService(&MemoryRepo{})
	stats, err := svc.CallStats()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if stats.Total != 0 || stats.SuccessRate != "0%" {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestExportCallsCSV_AllFieldsInStableOrder(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ended := started.Add(42 * time.Second)
	dur := 42
	repo := &MemoryRepo{Entries: []calls.Entry{
		{ID: "e1", Number: "+18001234567", ProviderCallID: "CA1", Status: "calling", StartedAt: started},
		{ID: "e2", Number: "+18001234567", ProviderCallID: "CA1", Status: "completed", DurationSeconds: &dur, StartedAt: started, EndedAt: &ended},
	}}
	svc := NewService(repo)

	out, err := svc.ExportCallsCSV()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines:\n%s", len(lines), out)
	}
	if lines[0] != "id,number,call_id,status,duration_seconds,started_at,ended_at" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != "e1,+18001234567,CA1,calling,,2026-03-01T10:00:00Z," {
		t.Fatalf("unexpected row %q", lines[1])
	}
	if lines[2] != "e2,+18001234567,CA1,completed,42,2026-03-01T10:00:00Z,2026-03-01T10:00:42Z" {
		t.Fatalf("unexpected row %q", lines[2])
	}
}
