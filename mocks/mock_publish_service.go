package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"oscehub/internal/domain"
)

// MockPublishService is a mock implementation of service.PublishService.
type MockPublishService struct {
	mock.Mock
}

func (m *MockPublishService) PublishBatch(ctx context.Context, batchID uuid.UUID) (*domain.PublishSummary, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublishSummary), args.Error(1)
}
