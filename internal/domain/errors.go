package domain

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrReadFailure       = errors.New("failed to read document")
	ErrBatchNotFound     = errors.New("batch not found")
	ErrEmptyBatch        = errors.New("no files in batch")
	ErrNoRecords         = errors.New("batch has no records to publish")
	ErrFileTooLarge      = errors.New("file exceeds maximum allowed size")
)
