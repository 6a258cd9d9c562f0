package wizard_test

import (
	"context"

	"safecity/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockCreator struct {
	mock.Mock
}

func (m *MockCreator) CreateReport(ctx context.Context, in models.CreateReportInput) (*models.Report, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}
