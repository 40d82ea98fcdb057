package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"oscehub/internal/domain"
	"oscehub/internal/port"
)

// PublishService defines the upsert publisher contract. Publishing is only
// ever triggered by an explicit confirmation call, never automatically after
// ingestion.
type PublishService interface {
	PublishBatch(ctx context.Context, batchID uuid.UUID) (*domain.PublishSummary, error)
}

type publishService struct {
	stations port.StationRepository
	store    *BatchStore
}

// NewPublishService creates a PublishService.
func NewPublishService(stations port.StationRepository, store *BatchStore) PublishService {
	return &publishService{stations: stations, store: store}
}

// PublishBatch upserts every record of the batch into static_osce, each record
// independently: one record's failure never aborts the rest. The summary never
// silently drops a failure. Re-publishing the same batch is safe because every
// upsert is keyed by the record's content-derived ID.
func (s *publishService) PublishBatch(ctx context.Context, batchID uuid.UUID) (*domain.PublishSummary, error) {
	batch, err := s.store.Get(batchID)
	if err != nil {
		return nil, err
	}
	if len(batch.Records) == 0 {
		return nil, domain.ErrNoRecords
	}

	summary := &domain.PublishSummary{
		BatchID: batchID,
		Results: make([]domain.PublishResult, 0, len(batch.Records)),
	}

	for i := range batch.Records {
		// Work on a copy: the stored records are shared with concurrent
		// previews and must not be written through.
		rec := batch.Records[i]
		result := domain.PublishResult{RecordID: rec.ID, StationName: rec.StationName}

		if err := ctx.Err(); err != nil {
			result.Status = domain.PublishFailed
			result.Error = "batch canceled: " + err.Error()
			summary.Failed++
			summary.Results = append(summary.Results, result)
			continue
		}

		outcome, err := s.stations.Upsert(ctx, &rec)
		switch {
		case err != nil:
			log.Printf("publishService.PublishBatch: upsert failed for %s (%q): %v",
				rec.ID, rec.StationName, err)
			result.Status = domain.PublishFailed
			result.Error = err.Error()
			summary.Failed++
		case outcome == port.UpsertNoOp:
			result.Status = domain.PublishNoOp
			summary.NoOps++
		default:
			result.Status = domain.PublishUpserted
			summary.Upserted++
		}
		summary.Results = append(summary.Results, result)
	}

	if summary.Failed > 0 {
		summary.Outcome = domain.OutcomePartialFailure
	} else {
		summary.Outcome = domain.OutcomeAllSucceeded
	}
	summary.FinishedAt = time.Now().UTC()

	if err := s.store.MarkPublished(batchID, summary.FinishedAt); err != nil {
		log.Printf("publishService.PublishBatch: marking batch %s published: %v", batchID, err)
	}

	log.Printf("publishService.PublishBatch: batch %s published (%d upserted, %d noop, %d failed)",
		batchID, summary.Upserted, summary.NoOps, summary.Failed)
	return summary, nil
}
