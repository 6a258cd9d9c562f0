package api_test

import (
	"context"

	"safecity/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) ListReports(ctx context.Context) ([]models.Report, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *MockStorage) GetReportByCaseNumber(ctx context.Context, caseNumber string) (*models.Report, error) {
	args := m.Called(ctx, caseNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockStorage) CreateReport(ctx context.Context, in models.CreateReportInput) (*models.Report, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockStorage) ListNotices(ctx context.Context) ([]models.Notice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notice), args.Error(1)
}

func (m *MockStorage) ListBlogs(ctx context.Context) ([]models.BlogSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BlogSummary), args.Error(1)
}

// recordingNotifier captures dispatched reports.
type recordingNotifier struct {
	seen chan string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{seen: make(chan string, 8)}
}

func (n *recordingNotifier) ReportCreated(_ context.Context, r *models.Report) error {
	n.seen <- r.CaseNumber
	return nil
}
