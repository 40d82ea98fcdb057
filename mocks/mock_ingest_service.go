package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"oscehub/internal/domain"
	"oscehub/internal/service"
)

// MockIngestService is a mock implementation of service.IngestService.
type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) IngestBatch(ctx context.Context, files []service.IngestFile) (*domain.ExtractionBatch, error) {
	args := m.Called(ctx, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionBatch), args.Error(1)
}

func (m *MockIngestService) GetBatch(id uuid.UUID) (*domain.ExtractionBatch, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionBatch), args.Error(1)
}
