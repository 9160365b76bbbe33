package loader

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestHypothesesSchema(t *testing.T) {
	schema, err := HypothesesSchema()
	if err != nil {
		t.Fatalf("HypothesesSchema: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(schema, &doc); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	if doc["type"] != "array" {
		t.Errorf("schema type = %v, want array", doc["type"])
	}

	text := string(schema)
	for _, want := range []string{`"id"`, `"name"`, `"hypothesis"`, `"required"`} {
		if !strings.Contains(text, want) {
			t.Errorf("schema missing %s", want)
		}
	}
}

func TestQueriesSchema(t *testing.T) {
	schema, err := QueriesSchema()
	if err != nil {
		t.Fatalf("QueriesSchema: %v", err)
	}

	text := string(schema)
	for _, want := range []string{`"hypothesis_id"`, `"sql_query"`, `"explanation"`, `"generated_at"`} {
		if !strings.Contains(text, want) {
			t.Errorf("schema missing %s", want)
		}
	}
}

func TestOutcomesSchema(t *testing.T) {
	schema, err := OutcomesSchema()
	if err != nil {
		t.Fatalf("OutcomesSchema: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(schema, &doc); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	if doc["type"] != "array" {
		t.Errorf("schema type = %v, want array", doc["type"])
	}
}

func TestSchemasCompile(t *testing.T) {
	// The validators compile lazily; validating an empty document exercises
	// compilation for all three schemas.
	if err := validateHypotheses([]any{}); err != nil {
		t.Errorf("hypotheses schema does not compile: %v", err)
	}
	if err := validateQueries([]any{}); err != nil {
		t.Errorf("queries schema does not compile: %v", err)
	}
	if err := validateOutcomes([]any{}); err != nil {
		t.Errorf("outcomes schema does not compile: %v", err)
	}
}
