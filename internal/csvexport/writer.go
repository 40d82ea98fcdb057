package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"

	"oscehub/internal/domain"
)

// BOM is the UTF-8 byte order mark, written first for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Record ID",
	"Station Name",
	"Category",
	"Source File",
	"Candidate Brief",
	"Actor Brief",
	"Examiner Brief",
	"Markscheme",
}

// Writer exports assembled station records as CSV for offline review.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w, prefixed with a UTF-8 BOM.
func NewWriter(w io.Writer) (*Writer, error) {
	if _, err := w.Write(BOM); err != nil {
		return nil, fmt.Errorf("writing BOM: %w", err)
	}
	return &Writer{csv: csv.NewWriter(w)}, nil
}

// WriteBatch writes the header row followed by one row per record, in batch
// assembly order.
func (w *Writer) WriteBatch(batch *domain.ExtractionBatch) error {
	if err := w.csv.Write(columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i := range batch.Records {
		rec := &batch.Records[i]
		row := []string{
			rec.ID.String(),
			rec.StationName,
			rec.Category,
			rec.SourceFile,
			rec.CandidateBrief,
			rec.ActorBrief,
			rec.ExaminerBrief,
			rec.Markscheme,
		}
		if err := w.csv.Write(row); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}

	w.csv.Flush()
	return w.csv.Error()
}
