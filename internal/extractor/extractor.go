package extractor

import (
	"fmt"
	"unicode/utf8"

	"oscehub/internal/domain"
	"oscehub/internal/port"
)

// Declared content types accepted for ingestion.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeText = "text/plain"
)

// Extractor converts uploaded documents into plain text. It implements
// port.TextExtractor and dispatches on the declared content type.
type Extractor struct{}

// New creates an Extractor.
func New() port.TextExtractor {
	return &Extractor{}
}

// Extract returns the full text of a document, pages and sections concatenated
// in reading order. Unknown content types fail with domain.ErrUnsupportedFormat;
// decode failures wrap domain.ErrReadFailure. Neither aborts sibling files.
func (e *Extractor) Extract(fileName, contentType string, data []byte) (string, error) {
	switch contentType {
	case ContentTypePDF:
		text, err := extractPDF(data)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", domain.ErrReadFailure, fileName, err)
		}
		return text, nil
	case ContentTypeDOCX:
		text, err := extractDocx(data)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", domain.ErrReadFailure, fileName, err)
		}
		return text, nil
	case ContentTypeText:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %s: not valid UTF-8", domain.ErrReadFailure, fileName)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedFormat, fileName, contentType)
	}
}
