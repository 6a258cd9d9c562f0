package storage

import (
	"context"
	"sync"
	"time"

	"safecity/backend/internal/config"
	"safecity/backend/internal/models"

	"github.com/google/uuid"
)

// MemoryStore keeps every record in process memory and loses them on restart.
// Each call waits for the configured delay before answering.
type MemoryStore struct {
	mu      sync.RWMutex
	reports []models.Report
	byCase  map[string]int

	notices []models.Notice
	blogs   []models.BlogSummary

	delays      config.Delays
	CaseNumbers *CaseNumberGenerator
	Now         func() time.Time
	NewID       func() string
}

var _ Storage = (*MemoryStore)(nil)

// NewMemoryStore copies seed into the store; seed may be nil for an empty store.
func NewMemoryStore(delays config.Delays, seed *Seed) *MemoryStore {
	m := &MemoryStore{
		byCase:      make(map[string]int),
		delays:      delays,
		CaseNumbers: NewCaseNumberGenerator(),
		Now:         time.Now,
		NewID:       uuid.NewString,
	}
	if seed != nil {
		for _, r := range seed.Reports {
			m.byCase[r.CaseNumber] = len(m.reports)
			m.reports = append(m.reports, cloneReport(r))
		}
		m.notices = append(m.notices, seed.Notices...)
		m.blogs = append(m.blogs, seed.Blogs...)
	}
	return m
}

func (m *MemoryStore) ListReports(ctx context.Context) ([]models.Report, error) {
	if err := wait(ctx, m.delays.ListReports); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Report, len(m.reports))
	for i, r := range m.reports {
		out[i] = cloneReport(r)
	}
	return out, nil
}

func (m *MemoryStore) GetReportByCaseNumber(ctx context.Context, caseNumber string) (*models.Report, error) {
	if err := wait(ctx, m.delays.GetReport); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.byCase[caseNumber]
	if !ok {
		return nil, nil
	}
	r := cloneReport(m.reports[i])
	return &r, nil
}

func (m *MemoryStore) CreateReport(ctx context.Context, in models.CreateReportInput) (*models.Report, error) {
	if err := wait(ctx, m.delays.CreateReport); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	caseNumber, err := m.CaseNumbers.Next(func(candidate string) (bool, error) {
		_, taken := m.byCase[candidate]
		return taken, nil
	})
	if err != nil {
		return nil, err
	}

	report := NewReport(in, m.NewID(), caseNumber, m.Now())
	m.byCase[caseNumber] = len(m.reports)
	m.reports = append(m.reports, cloneReport(*report))
	return report, nil
}

func (m *MemoryStore) ListNotices(ctx context.Context) ([]models.Notice, error) {
	if err := wait(ctx, m.delays.ListNotices); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Notice(nil), m.notices...), nil
}

func (m *MemoryStore) ListBlogs(ctx context.Context) ([]models.BlogSummary, error) {
	if err := wait(ctx, m.delays.ListBlogs); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.BlogSummary, len(m.blogs))
	for i, b := range m.blogs {
		b.Tags = append(b.Tags[:0:0], b.Tags...)
		out[i] = b
	}
	return out, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func cloneReport(r models.Report) models.Report {
	if r.AssignedOfficerID != nil {
		id := *r.AssignedOfficerID
		r.AssignedOfficerID = &id
	}
	return r
}
