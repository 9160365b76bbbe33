package loader

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/haasonsaas/huntbench/pkg/models"
)

// Document schemas are generated from the Go structs, so the validated
// shape can never drift from what the decoder accepts. The outcomes
// document is a dynamic map keyed by hypothesis id, which has no struct
// to reflect, so its schema is written out by hand.

var (
	hypothesesSchemaOnce sync.Once
	hypothesesSchemaJSON []byte
	hypothesesSchemaErr  error

	queriesSchemaOnce sync.Once
	queriesSchemaJSON []byte
	queriesSchemaErr  error
)

// HypothesesSchema returns the JSON Schema for a hypotheses document.
func HypothesesSchema() ([]byte, error) {
	hypothesesSchemaOnce.Do(func() {
		hypothesesSchemaJSON, hypothesesSchemaErr = reflectArraySchema(&models.Hypothesis{})
	})
	return hypothesesSchemaJSON, hypothesesSchemaErr
}

// QueriesSchema returns the JSON Schema for a generated-queries document.
func QueriesSchema() ([]byte, error) {
	queriesSchemaOnce.Do(func() {
		queriesSchemaJSON, queriesSchemaErr = reflectArraySchema(&models.GeneratedQuery{})
	})
	return queriesSchemaJSON, queriesSchemaErr
}

// OutcomesSchema returns the JSON Schema for an expected-outcomes document.
func OutcomesSchema() ([]byte, error) {
	return []byte(outcomesSchemaText), nil
}

// reflectArraySchema builds the schema for a document that is an array of
// the given element struct.
func reflectArraySchema(elem any) ([]byte, error) {
	r := &jsonschema.Reflector{}
	elemSchema := r.Reflect(elem)

	doc := &jsonschema.Schema{
		Version:     jsonschema.Version,
		Type:        "array",
		Items:       &jsonschema.Schema{Ref: elemSchema.Ref},
		Definitions: elemSchema.Definitions,
	}
	return json.MarshalIndent(doc, "", "  ")
}

const outcomesSchemaText = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "minProperties": 1,
    "maxProperties": 1,
    "additionalProperties": {
      "type": "array",
      "items": {
        "type": "object"
      }
    }
  }
}`
