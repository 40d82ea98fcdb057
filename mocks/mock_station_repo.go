package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"oscehub/internal/domain"
	"oscehub/internal/port"
)

// MockStationRepo is a mock implementation of port.StationRepository.
type MockStationRepo struct {
	mock.Mock
}

func (m *MockStationRepo) Upsert(ctx context.Context, rec *domain.StationRecord) (port.UpsertOutcome, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(port.UpsertOutcome), args.Error(1)
}
