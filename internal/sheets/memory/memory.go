package memory

import (
	"context"
	"fmt"
	"sync"

	ports "sitetrack/internal/sheets"
)

// Sink is an in-memory ReportWriter used by the memory backend and tests.
type Sink struct {
	mu   sync.Mutex
	rows []ports.ReportRow
}

func New() *Sink {
	return &Sink{}
}

// AppendReportRow stores the row and returns a synthetic row reference.
func (s *Sink) AppendReportRow(_ context.Context, row ports.ReportRow) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Sink) Rows() []ports.ReportRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.ReportRow(nil), s.rows...)
}
