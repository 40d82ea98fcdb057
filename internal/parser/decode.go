package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"oscehub/internal/domain"
)

// Shape tags how the model's response mapped onto station records.
type Shape string

const (
	// ShapeStations: top-level JSON object, every entry matching the station schema.
	ShapeStations Shape = "stations"
	// ShapeRelaxed: syntactically valid JSON that drifted from the expected
	// shape and was accepted best-effort. Deliberate policy, not an error.
	ShapeRelaxed Shape = "relaxed"
)

// Result is the outcome of decoding one model response.
type Result struct {
	Shape   Shape
	Records []domain.StationRecord
}

// StripCodeFences removes a leading/trailing Markdown code fence (```json /
// ```) the model sometimes wraps its output in.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// Decode parses a raw model response into station records.
//
// A top-level object is treated as a station mapping: entries are decoded in
// document order (keys are NOT re-sorted numerically), each coerced into a
// record. Any other syntactically valid top-level value yields a single
// relaxed record. Only a JSON syntax failure is a MalformedOutputError.
func Decode(raw string) (*Result, error) {
	cleaned := StripCodeFences(raw)

	dec := json.NewDecoder(strings.NewReader(cleaned))
	tok, err := dec.Token()
	if err != nil {
		return nil, &MalformedOutputError{Err: err, RawText: raw}
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		// Non-mapping top level: accept the whole value as one implicit record.
		var v any
		if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
			return nil, &MalformedOutputError{Err: err, RawText: raw}
		}
		rec, _ := coerceRecord(v)
		return &Result{Shape: ShapeRelaxed, Records: []domain.StationRecord{rec}}, nil
	}

	shape := ShapeStations
	var records []domain.StationRecord
	for dec.More() {
		if _, err := dec.Token(); err != nil { // key
			return nil, &MalformedOutputError{Err: err, RawText: raw}
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, &MalformedOutputError{Err: err, RawText: raw}
		}
		rec, conforms := coerceRecord(v)
		if !conforms {
			shape = ShapeRelaxed
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return nil, &MalformedOutputError{Err: err, RawText: raw}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &MalformedOutputError{
			Err:     fmt.Errorf("trailing content after JSON value"),
			RawText: raw,
		}
	}

	return &Result{Shape: shape, Records: records}, nil
}

// coerceRecord maps a decoded JSON value onto a StationRecord. Values matching
// the station schema map field-for-field; anything else is coerced best-effort:
// missing fields become empty strings, non-string fields keep their raw JSON
// text. The bool reports schema conformance.
func coerceRecord(v any) (domain.StationRecord, bool) {
	m, isMap := v.(map[string]any)
	if !isMap {
		return domain.StationRecord{}, false
	}

	rec := domain.StationRecord{
		ActorBrief:     fieldString(m, "actorBrief"),
		ExaminerBrief:  fieldString(m, "examinerBrief"),
		Markscheme:     fieldString(m, "markscheme"),
		Category:       fieldString(m, "category"),
		StationName:    fieldString(m, "stationName"),
		CandidateBrief: fieldString(m, "candidateBrief"),
	}
	return rec, conformsToStationSchema(v)
}

func fieldString(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
