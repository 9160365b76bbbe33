// Package report renders evaluation results as JSON, Markdown, and console
// output. Rendering only formats what the evaluator computed; no metric is
// ever recomputed here.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/haasonsaas/huntbench/pkg/models"
)

// JSONFileName returns the JSON report name for an iteration.
func JSONFileName(iteration int) string {
	return fmt.Sprintf("evaluation_results_iter%d.json", iteration)
}

// MarkdownFileName returns the Markdown report name for an iteration.
func MarkdownFileName(iteration int) string {
	return fmt.Sprintf("EVALUATION_REPORT_ITER%d.md", iteration)
}

// SaveJSON writes the JSON report into dir and returns the file path.
func SaveJSON(dir string, rep *models.EvaluationReport) (string, error) {
	data, err := renderJSON(rep)
	if err != nil {
		return "", err
	}
	return saveFile(dir, JSONFileName(rep.Iteration), data)
}

// SaveMarkdown writes the Markdown report into dir and returns the file path.
func SaveMarkdown(dir string, rep *models.EvaluationReport) (string, error) {
	return saveFile(dir, MarkdownFileName(rep.Iteration), []byte(RenderMarkdown(rep)))
}

func saveFile(dir, name string, data []byte) (string, error) {
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// truncate limits s to max runes so one giant SQL error cannot swallow a
// report.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
