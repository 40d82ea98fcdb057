package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"oscehub/internal/config"
	"oscehub/internal/domain"
	"oscehub/internal/parser"
	"oscehub/internal/port"
)

// IngestFile is one uploaded document: declared content type plus raw bytes.
type IngestFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// IngestService defines the extraction pipeline contract.
type IngestService interface {
	IngestBatch(ctx context.Context, files []IngestFile) (*domain.ExtractionBatch, error)
	GetBatch(id uuid.UUID) (*domain.ExtractionBatch, error)
}

type ingestService struct {
	extractor  port.TextExtractor
	completion port.CompletionClient
	storage    port.ObjectStorage // nil disables source archiving
	store      *BatchStore
	policy     parser.RetryPolicy
	s3cfg      *config.S3Config
}

// NewIngestService creates an IngestService. storage may be nil when no
// archive bucket is configured.
func NewIngestService(
	textExtractor port.TextExtractor,
	completion port.CompletionClient,
	storage port.ObjectStorage,
	store *BatchStore,
	policy parser.RetryPolicy,
	s3cfg *config.S3Config,
) IngestService {
	return &ingestService{
		extractor:  textExtractor,
		completion: completion,
		storage:    storage,
		store:      store,
		policy:     policy,
		s3cfg:      s3cfg,
	}
}

// IngestBatch runs the full extraction pipeline over a set of uploaded files,
// one document at a time. Every failure is file-scoped: an unsupported or
// unreadable file, a malformed model response, or a transient API error is
// recorded against that file and processing moves on to the next one. The
// pipeline never aborts the batch on a per-file error.
func (s *ingestService) IngestBatch(ctx context.Context, files []IngestFile) (*domain.ExtractionBatch, error) {
	if len(files) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	batch := &domain.ExtractionBatch{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
	}

	for _, f := range files {
		// Cooperative cancellation: untouched files are reported, not dropped.
		if err := ctx.Err(); err != nil {
			batch.Files = append(batch.Files, domain.FileResult{
				FileName:    f.Name,
				ContentType: f.ContentType,
				Status:      domain.FileFailed,
				ErrorReason: domain.ReasonTransientFailure,
				ErrorDetail: fmt.Sprintf("batch canceled: %v", err),
			})
			batch.AnyErrors = true
			continue
		}

		result := s.processFile(ctx, batch.ID, f)
		if result.fileResult.Status == domain.FileFailed {
			batch.AnyErrors = true
		}
		batch.Files = append(batch.Files, result.fileResult)
		batch.Records = append(batch.Records, result.records...)
	}

	s.store.Put(batch)
	log.Printf("ingestService.IngestBatch: batch %s assembled (%d files, %d records, errors=%v)",
		batch.ID, len(batch.Files), len(batch.Records), batch.AnyErrors)
	return batch, nil
}

// fileOutcome pairs a FileResult with the records it produced.
type fileOutcome struct {
	fileResult domain.FileResult
	records    []domain.StationRecord
}

func (s *ingestService) processFile(ctx context.Context, batchID uuid.UUID, f IngestFile) fileOutcome {
	log.Printf("ingestService.processFile: processing %s (%s, %d bytes)", f.Name, f.ContentType, len(f.Data))

	s.archiveSource(ctx, batchID, f)

	text, err := s.extractor.Extract(f.Name, f.ContentType, f.Data)
	if err != nil {
		return failedFile(f, classifyExtractError(err), err.Error(), "")
	}

	prompt := parser.BuildStationPrompt(text)
	produce := func(ctx context.Context) (string, error) {
		return s.completion.Complete(ctx, prompt)
	}

	result, err := parser.ParseWithRetry(ctx, produce, s.policy)
	if err != nil {
		var malformed *parser.MalformedOutputError
		if errors.As(err, &malformed) {
			return failedFile(f, domain.ReasonMalformedOutput, malformed.Error(), malformed.RawText)
		}
		return failedFile(f, domain.ReasonTransientFailure, err.Error(), "")
	}

	if result.Shape == parser.ShapeRelaxed {
		log.Printf("ingestService.processFile: %s parsed with relaxed shape", f.Name)
	}

	records := make([]domain.StationRecord, 0, len(result.Records))
	for _, rec := range result.Records {
		rec.SourceFile = f.Name
		rec.ID = rec.Identity()
		records = append(records, rec)
	}

	log.Printf("ingestService.processFile: %s produced %d record(s)", f.Name, len(records))
	return fileOutcome{
		fileResult: domain.FileResult{
			FileName:    f.Name,
			ContentType: f.ContentType,
			Status:      domain.FileParsed,
			RecordCount: len(records),
		},
		records: records,
	}
}

// archiveSource copies the raw uploaded document to the archive bucket.
// Best-effort: an archive failure is logged and never fails the file.
func (s *ingestService) archiveSource(ctx context.Context, batchID uuid.UUID, f IngestFile) {
	if s.storage == nil || s.s3cfg == nil || s.s3cfg.Bucket == "" {
		return
	}
	key := fmt.Sprintf("batches/%s/%s", batchID, f.Name)
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(f.Data),
		ContentType: f.ContentType,
		Size:        int64(len(f.Data)),
	})
	if err != nil {
		log.Printf("ingestService.archiveSource: failed to archive %s: %v", f.Name, err)
	}
}

func (s *ingestService) GetBatch(id uuid.UUID) (*domain.ExtractionBatch, error) {
	return s.store.Get(id)
}

func failedFile(f IngestFile, reason domain.ErrorReason, detail, raw string) fileOutcome {
	log.Printf("ingestService.processFile: %s failed (%s): %s", f.Name, reason, detail)
	return fileOutcome{
		fileResult: domain.FileResult{
			FileName:    f.Name,
			ContentType: f.ContentType,
			Status:      domain.FileFailed,
			ErrorReason: reason,
			ErrorDetail: detail,
			RawResponse: raw,
		},
	}
}

func classifyExtractError(err error) domain.ErrorReason {
	if errors.Is(err, domain.ErrUnsupportedFormat) {
		return domain.ReasonUnsupportedFormat
	}
	return domain.ReasonReadError
}
