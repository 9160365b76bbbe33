// Package loader reads and validates the JSON documents an evaluation run
// consumes: hypotheses, generated queries, and expected outcomes. Every
// document is checked against its JSON Schema before decoding so malformed
// files fail with a pointer to the offending element instead of a zero-value
// surprise halfway through a run.
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json5 "github.com/yosuke-furukawa/json5/encoding/json5"

	"github.com/haasonsaas/huntbench/pkg/models"
)

// LoadHypotheses reads a hypotheses file: a JSON or JSON5 array of
// {id, name, hypothesis} objects. IDs must be unique since outcomes and
// results are keyed by them.
func LoadHypotheses(path string) ([]models.Hypothesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hypotheses: %w", err)
	}

	var doc any
	if err := json5.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse hypotheses %s: %w", path, err)
	}
	if err := validateHypotheses(doc); err != nil {
		return nil, fmt.Errorf("hypotheses %s: %w", path, err)
	}

	var hypotheses []models.Hypothesis
	if err := json5.Unmarshal(data, &hypotheses); err != nil {
		return nil, fmt.Errorf("decode hypotheses %s: %w", path, err)
	}

	seen := make(map[string]int, len(hypotheses))
	for i, h := range hypotheses {
		if strings.TrimSpace(h.ID) == "" {
			return nil, fmt.Errorf("hypotheses %s: entry %d has an empty id", path, i+1)
		}
		if prev, ok := seen[h.ID]; ok {
			return nil, fmt.Errorf("hypotheses %s: id %q appears at entries %d and %d", path, h.ID, prev, i+1)
		}
		seen[h.ID] = i + 1
	}
	return hypotheses, nil
}

// LoadQueries reads a generated-queries file, as written by SaveQueries,
// so evaluation can reuse earlier translations instead of calling the
// provider again.
func LoadQueries(path string) ([]models.GeneratedQuery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse queries %s: %w", path, err)
	}
	if err := validateQueries(doc); err != nil {
		return nil, fmt.Errorf("queries %s: %w", path, err)
	}

	var queries []models.GeneratedQuery
	if err := json.Unmarshal(data, &queries); err != nil {
		return nil, fmt.Errorf("decode queries %s: %w", path, err)
	}
	return queries, nil
}

// SaveQueries writes generated queries as indented JSON, creating parent
// directories as needed.
func SaveQueries(path string, queries []models.GeneratedQuery) error {
	data, err := json.MarshalIndent(queries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode queries: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write queries: %w", err)
	}
	return nil
}

// LoadOutcomes reads an expected-outcomes file: a JSON array of single-key
// objects, each mapping a hypothesis id to the rows its query should return.
// When the same id appears more than once the last entry wins.
func LoadOutcomes(path string) (map[string][]models.EventRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read outcomes: %w", err)
	}

	// json.Number keeps identifiers like account IDs in their literal
	// form; a float64 round-trip would corrupt them.
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse outcomes %s: %w", path, err)
	}
	if err := validateOutcomes(doc); err != nil {
		return nil, fmt.Errorf("outcomes %s: %w", path, err)
	}

	entries, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("outcomes %s: document is not an array", path)
	}

	outcomes := make(map[string][]models.EventRow, len(entries))
	for i, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("outcomes %s: entry %d is not an object", path, i+1)
		}
		for id, rowsVal := range obj {
			rowList, ok := rowsVal.([]any)
			if !ok {
				return nil, fmt.Errorf("outcomes %s: entry %d (%s) is not an array of rows", path, i+1, id)
			}
			rows := make([]models.EventRow, 0, len(rowList))
			for j, rowVal := range rowList {
				rowObj, ok := rowVal.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("outcomes %s: %s row %d is not an object", path, id, j+1)
				}
				rows = append(rows, models.RowFromJSON(rowObj))
			}
			outcomes[id] = rows
		}
	}
	return outcomes, nil
}
