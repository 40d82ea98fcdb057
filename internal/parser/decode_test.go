package parser_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oscehub/internal/parser"
)

const singleStationJSON = `{
  "0": {
    "actorBrief": "The actor is a 50-year-old father of three.",
    "examinerBrief": "Please observe how the candidate addresses acute confusion.",
    "markscheme": "1 mark for checking alertness.",
    "category": "Respiratory",
    "stationName": "Acute Respiratory Distress",
    "candidateBrief": "You are a junior doctor in A&E."
  }
}`

func TestDecode_SingleStation(t *testing.T) {
	result, err := parser.Decode(singleStationJSON)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, parser.ShapeStations, result.Shape)

	rec := result.Records[0]
	assert.Equal(t, "The actor is a 50-year-old father of three.", rec.ActorBrief)
	assert.Equal(t, "Please observe how the candidate addresses acute confusion.", rec.ExaminerBrief)
	assert.Equal(t, "1 mark for checking alertness.", rec.Markscheme)
	assert.Equal(t, "Respiratory", rec.Category)
	assert.Equal(t, "Acute Respiratory Distress", rec.StationName)
	assert.Equal(t, "You are a junior doctor in A&E.", rec.CandidateBrief)
}

func TestDecode_MultiStation_PreservesKeyOrder(t *testing.T) {
	// Keys deliberately out of numeric order: iteration must follow the
	// document, not a numeric re-sort.
	raw := `{
	  "2": {"actorBrief":"a2","examinerBrief":"e2","markscheme":"m2","category":"c2","stationName":"Station Two","candidateBrief":"cb2"},
	  "0": {"actorBrief":"a0","examinerBrief":"e0","markscheme":"m0","category":"c0","stationName":"Station Zero","candidateBrief":"cb0"},
	  "1": {"actorBrief":"a1","examinerBrief":"e1","markscheme":"m1","category":"c1","stationName":"Station One","candidateBrief":"cb1"}
	}`

	result, err := parser.Decode(raw)
	require.NoError(t, err)
	require.Len(t, result.Records, 3)
	assert.Equal(t, parser.ShapeStations, result.Shape)
	assert.Equal(t, "Station Two", result.Records[0].StationName)
	assert.Equal(t, "Station Zero", result.Records[1].StationName)
	assert.Equal(t, "Station One", result.Records[2].StationName)
}

func TestDecode_StripsCodeFences(t *testing.T) {
	fenced := "```json\n" + singleStationJSON + "\n```"

	result, err := parser.Decode(fenced)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Acute Respiratory Distress", result.Records[0].StationName)
}

func TestDecode_RelaxedNonMapping(t *testing.T) {
	result, err := parser.Decode(`["not", "a", "mapping"]`)
	require.NoError(t, err)
	assert.Equal(t, parser.ShapeRelaxed, result.Shape)
	require.Len(t, result.Records, 1)
	assert.Empty(t, result.Records[0].StationName)
}

func TestDecode_RelaxedMissingField(t *testing.T) {
	// candidateBrief absent: still accepted, tagged relaxed, field empty.
	raw := `{"0": {"actorBrief":"a","examinerBrief":"e","markscheme":"m","category":"c","stationName":"s"}}`

	result, err := parser.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, parser.ShapeRelaxed, result.Shape)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "s", result.Records[0].StationName)
	assert.Empty(t, result.Records[0].CandidateBrief)
}

func TestDecode_RelaxedNonStringField(t *testing.T) {
	// A numeric markscheme keeps its raw JSON text rather than being dropped.
	raw := `{"0": {"actorBrief":"a","examinerBrief":"e","markscheme":42,"category":"c","stationName":"s","candidateBrief":"cb"}}`

	result, err := parser.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, parser.ShapeRelaxed, result.Shape)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "42", result.Records[0].Markscheme)
}

func TestDecode_MalformedCarriesRawText(t *testing.T) {
	raw := `{"0": {"actorBrief": "unterminated`

	_, err := parser.Decode(raw)
	require.Error(t, err)

	var malformed *parser.MalformedOutputError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, raw, malformed.RawText)
}

func TestDecode_TrailingGarbage(t *testing.T) {
	_, err := parser.Decode(`{"0": {}} and some commentary`)
	require.Error(t, err)

	var malformed *parser.MalformedOutputError
	assert.True(t, errors.As(err, &malformed))
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, parser.StripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, parser.StripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, parser.StripCodeFences(`{"a":1}`))
}
