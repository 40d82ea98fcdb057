package domain

import (
	"time"

	"github.com/google/uuid"
)

// stationNamespace is the UUIDv5 namespace for content-derived station IDs.
var stationNamespace = uuid.MustParse("76a4c2b0-9d55-4f29-a1de-3f8b2c47e901")

// StationRecord is one extracted OSCE station. The six brief fields mirror the
// staticOSCE schema exactly; all are plain strings, possibly empty, never null.
type StationRecord struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ActorBrief     string    `db:"actor_brief" json:"actorBrief"`
	ExaminerBrief  string    `db:"examiner_brief" json:"examinerBrief"`
	Markscheme     string    `db:"markscheme" json:"markscheme"`
	Category       string    `db:"category" json:"category"`
	StationName    string    `db:"station_name" json:"stationName"`
	CandidateBrief string    `db:"candidate_brief" json:"candidateBrief"`
	SourceFile     string    `db:"source_file" json:"source_file"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Identity returns the deterministic publish conflict key for the record: a
// UUIDv5 over the six content fields. Two records with identical content always
// map to the same row, which is what makes the publish upsert idempotent.
func (r *StationRecord) Identity() uuid.UUID {
	var b []byte
	for _, f := range []string{
		r.ActorBrief, r.ExaminerBrief, r.Markscheme,
		r.Category, r.StationName, r.CandidateBrief,
	} {
		b = append(b, f...)
		b = append(b, 0x1f) // field separator, keeps ("a","b") distinct from ("ab","")
	}
	return uuid.NewSHA1(stationNamespace, b)
}

// FileStatus is the per-file outcome of an ingestion run.
type FileStatus string

const (
	FileParsed FileStatus = "parsed"
	FileFailed FileStatus = "failed"
)

// ErrorReason classifies a per-file extraction failure.
type ErrorReason string

const (
	ReasonUnsupportedFormat ErrorReason = "unsupported_format"
	ReasonReadError         ErrorReason = "read_error"
	ReasonMalformedOutput   ErrorReason = "malformed_output"
	ReasonTransientFailure  ErrorReason = "transient_failure"
)

// FileResult is one entry of an ExtractionBatch: the outcome for a single
// uploaded document, in upload order.
type FileResult struct {
	FileName    string      `json:"file_name"`
	ContentType string      `json:"content_type"`
	Status      FileStatus  `json:"status"`
	RecordCount int         `json:"record_count"`
	ErrorReason ErrorReason `json:"error_reason,omitempty"`
	ErrorDetail string      `json:"error_detail,omitempty"`
	RawResponse string      `json:"raw_response,omitempty"` // last model output, malformed_output only
}

// ExtractionBatch holds the assembled result of one ingestion run, kept
// in memory until the operator either publishes or abandons it.
type ExtractionBatch struct {
	ID          uuid.UUID       `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	Files       []FileResult    `json:"files"`
	Records     []StationRecord `json:"records"`
	AnyErrors   bool            `json:"any_errors"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
}

// PublishStatus is the per-record outcome of a publish run.
type PublishStatus string

const (
	PublishUpserted PublishStatus = "upserted"
	PublishNoOp     PublishStatus = "noop_idempotent"
	PublishFailed   PublishStatus = "failed"
)

// PublishResult reports the upsert outcome for a single record.
type PublishResult struct {
	RecordID    uuid.UUID     `json:"record_id"`
	StationName string        `json:"station_name"`
	Status      PublishStatus `json:"status"`
	Error       string        `json:"error,omitempty"`
}

// BatchOutcome summarizes a publish run.
type BatchOutcome string

const (
	OutcomeAllSucceeded   BatchOutcome = "all_succeeded"
	OutcomePartialFailure BatchOutcome = "partial_failure"
)

// PublishSummary aggregates per-record results with the batch-level outcome.
type PublishSummary struct {
	BatchID    uuid.UUID       `json:"batch_id"`
	Outcome    BatchOutcome    `json:"outcome"`
	Upserted   int             `json:"upserted"`
	NoOps      int             `json:"noops"`
	Failed     int             `json:"failed"`
	Results    []PublishResult `json:"results"`
	FinishedAt time.Time       `json:"finished_at"`
}
