package port

// TextExtractor normalizes an uploaded document into plain text, preserving
// reading order across pages and sections.
type TextExtractor interface {
	Extract(fileName, contentType string, data []byte) (string, error)
}
