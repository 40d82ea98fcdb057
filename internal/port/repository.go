package port

import (
	"context"

	"oscehub/internal/domain"
)

// UpsertOutcome distinguishes an upsert that changed a row from one the store
// accepted but that touched nothing (identical content already present).
type UpsertOutcome int

const (
	UpsertApplied UpsertOutcome = iota
	UpsertNoOp
)

// StationRepository defines the contract for static_osce persistence.
type StationRepository interface {
	Upsert(ctx context.Context, rec *domain.StationRecord) (UpsertOutcome, error)
}
