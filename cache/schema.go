package cache

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ZaguanLabs/bilingo"
	"github.com/xeipuuv/gojsonschema"
)

// recordSchemaJSON describes a persisted bilingo.Record. originalTitle is
// optional because older records predate it.
const recordSchemaJSON = `{
  "type": "object",
  "required": ["hash", "model", "translatedTitle", "wrappedContent"],
  "properties": {
    "hash":            {"type": "string", "minLength": 1},
    "model":           {"type": "string", "minLength": 1},
    "originalTitle":   {"type": "string"},
    "translatedTitle": {"type": "string"},
    "wrappedContent":  {"type": "string", "minLength": 1}
  }
}`

var recordSchema = mustSchema(recordSchemaJSON)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("cache: invalid record schema: %v", err))
	}
	return s
}

// DecodeRecord validates raw against the record schema and decodes it.
func DecodeRecord(raw []byte) (bilingo.Record, error) {
	var rec bilingo.Record

	result, err := recordSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return rec, fmt.Errorf("validating record: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return rec, fmt.Errorf("invalid record: %s", strings.Join(msgs, "; "))
	}

	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("decoding record: %w", err)
	}
	return rec, nil
}
