package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"oscehub/internal/parser"
)

func TestBuildStationPrompt_ContainsAllFields(t *testing.T) {
	prompt := parser.BuildStationPrompt("some document text")

	for _, field := range []string{
		"actorBrief", "examinerBrief", "markscheme",
		"category", "stationName", "candidateBrief",
	} {
		assert.Contains(t, prompt, field)
	}
}

func TestBuildStationPrompt_AppendsFullText(t *testing.T) {
	text := "Station 1: Chest Pain\n\nThe candidate should take a focused history."
	prompt := parser.BuildStationPrompt(text)

	assert.True(t, strings.HasSuffix(prompt, text))
}

func TestBuildStationPrompt_Deterministic(t *testing.T) {
	assert.Equal(t, parser.BuildStationPrompt("abc"), parser.BuildStationPrompt("abc"))
}

func TestBuildStationPrompt_NoTruncation(t *testing.T) {
	long := strings.Repeat("A very long OSCE station description. ", 5000)
	prompt := parser.BuildStationPrompt(long)

	assert.True(t, strings.HasSuffix(prompt, long))
}
