package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"oscehub/internal/domain"
)

// BatchStore holds extraction batches awaiting review or publish. Batches live
// only as long as the process; unpublished batches are dropped on restart,
// which the idempotent publish makes safe to re-run.
type BatchStore struct {
	mu      sync.RWMutex
	batches map[uuid.UUID]*domain.ExtractionBatch
}

// NewBatchStore creates an empty BatchStore.
func NewBatchStore() *BatchStore {
	return &BatchStore{batches: make(map[uuid.UUID]*domain.ExtractionBatch)}
}

// Put stores a batch, replacing any previous batch with the same ID.
func (s *BatchStore) Put(batch *domain.ExtractionBatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[batch.ID] = batch
}

// Get returns a snapshot of the batch with the given ID or
// domain.ErrBatchNotFound. Callers get their own struct copy, so a preview
// marshaling the batch never observes a concurrent MarkPublished. The Files
// and Records slices are shared but immutable once the batch is stored.
func (s *BatchStore) Get(id uuid.UUID) (*domain.ExtractionBatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	batch, ok := s.batches[id]
	if !ok {
		return nil, domain.ErrBatchNotFound
	}
	snapshot := *batch
	return &snapshot, nil
}

// MarkPublished stamps the stored batch's publish time under the store lock.
func (s *BatchStore) MarkPublished(id uuid.UUID, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	batch, ok := s.batches[id]
	if !ok {
		return domain.ErrBatchNotFound
	}
	ts := t
	batch.PublishedAt = &ts
	return nil
}

// Delete removes a batch. Deleting an absent batch is a no-op.
func (s *BatchStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.batches, id)
}
