package parser

import (
	"bytes"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// stationSchemaMap is the expected shape of a single extracted station: the
// six brief fields, all strings, all required. Extra keys are tolerated.
var stationSchemaMap = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"actorBrief":     map[string]any{"type": "string"},
		"examinerBrief":  map[string]any{"type": "string"},
		"markscheme":     map[string]any{"type": "string"},
		"category":       map[string]any{"type": "string"},
		"stationName":    map[string]any{"type": "string"},
		"candidateBrief": map[string]any{"type": "string"},
	},
	"required": []any{
		"actorBrief", "examinerBrief", "markscheme",
		"category", "stationName", "candidateBrief",
	},
}

var stationSchema = mustCompileStationSchema()

func mustCompileStationSchema() *jsonschema.Schema {
	b, err := json.Marshal(stationSchemaMap)
	if err != nil {
		panic(err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("station.json", bytes.NewReader(b)); err != nil {
		panic(err)
	}
	schema, err := compiler.Compile("station.json")
	if err != nil {
		panic(err)
	}
	return schema
}

// conformsToStationSchema reports whether a decoded JSON value has the
// expected station shape. A false result never rejects the value — it only
// routes it through the relaxed coercion branch.
func conformsToStationSchema(v any) bool {
	return stationSchema.Validate(v) == nil
}
