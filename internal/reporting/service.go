package reporting

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"autodialer-platform/internal/calls"
	"autodialer-platform/internal/phones"
)

// Repository abstracts data access for reporting.
// Implementations read the authoritative JSON collections.
type Repository interface {
	ListPhoneNumbers() ([]phones.PhoneNumber, error)
	ListCallEntries() ([]calls.Entry, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

// CallStats aggregates phone records by current status.
// Busy and no-answer count as failed, matching the dashboard semantics.
type CallStats struct {
	Total       int    `json:"total"`
	Pending     int    `json:"pending"`
	Calling     int    `json:"calling"`
	Completed   int    `json:"completed"`
	Failed      int    `json:"failed"`
	SuccessRate string `json:"success_rate"`
}

func (s *Service) CallStats() (CallStats, error) {
	if s.repo == nil {
		return CallStats{}, errors.New("reporting: repository not configured")
	}
	rows, err := s.repo.ListPhoneNumbers()
	if err != nil {
		return CallStats{}, err
	}

	out := CallStats{}
	for _, p := range rows {
		out.Total++
		switch p.Status {
		case phones.StatusPending:
			out.Pending++
		case phones.StatusCalling:
			out.Calling++
		case phones.StatusCompleted:
			out.Completed++
		case phones.StatusFailed, phones.StatusBusy, phones.StatusNoAnswer:
			out.Failed++
		}
	}
	out.SuccessRate = "0%"
	if out.Total > 0 {
		out.SuccessRate = fmt.Sprintf("%.1f%%", float64(out.Completed)/float64(out.Total)*100)
	}
	return out, nil
}

// csvHeader is the stable column order for the call journal export.
var csvHeader = []string{"id", "number", "call_id", "status", "duration_seconds", "started_at", "ended_at"}

// ExportCallsCSV renders the whole call journal as CSV, one row per entry,
// in journal order.
func (s *Service) ExportCallsCSV() ([]byte, error) {
	if s.repo == nil {
		return nil, errors.New("reporting: repository not configured")
	}
	entries, err := s.repo.ListCallEntries()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, e := range entries {
		duration := ""
		if e.DurationSeconds != nil {
			duration = strconv.Itoa(*e.DurationSeconds)
		}
		ended := ""
		if e.EndedAt != nil {
			ended = e.EndedAt.UTC().Format("2006-01-02T15:04:05Z")
		}
		row := []string{
			e.ID,
			e.Number,
			e.ProviderCallID,
			e.Status,
			duration,
			e.StartedAt.UTC().Format("2006-01-02T15:04:05Z"),
			ended,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// StoreRepo reads from the live services. It satisfies Repository without
// reporting having to know about file paths.
type StoreRepo struct {
	Phones *phones.Service
	Calls  *calls.Service
}

func (r StoreRepo) ListPhoneNumbers() ([]phones.PhoneNumber, error) { return r.Phones.List() }
func (r StoreRepo) ListCallEntries() ([]calls.Entry, error)         { return r.Calls.List() }
