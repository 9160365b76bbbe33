package report

import (
	"fmt"
	"strings"

	"github.com/haasonsaas/huntbench/pkg/models"
)

// RenderMarkdown produces the full Markdown evaluation report: summary,
// metrics table, one section per hypothesis with an F1 assessment, failure
// analysis, and recommendations.
func RenderMarkdown(rep *models.EvaluationReport) string {
	var sb strings.Builder

	sb.WriteString("# Evaluation Report - AI Threat Hunting Query Generation\n\n")

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("**Iteration:** %d\n\n", rep.Iteration))
	sb.WriteString(fmt.Sprintf("- **Total Hypotheses:** %d\n", rep.TotalHypotheses))
	sb.WriteString(fmt.Sprintf("- **Successful Queries:** %d\n", rep.SuccessfulQueries))
	sb.WriteString(fmt.Sprintf("- **Failed Queries:** %d\n", rep.FailedQueries))
	sb.WriteString(fmt.Sprintf("- **Success Rate:** %.1f%%\n\n", rep.SuccessRate()*100))

	sb.WriteString("### Overall Metrics\n\n")
	sb.WriteString("| Metric | Score |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Precision | %.3f |\n", rep.AvgPrecision))
	sb.WriteString(fmt.Sprintf("| Recall | %.3f |\n", rep.AvgRecall))
	sb.WriteString(fmt.Sprintf("| F1 Score | %.3f |\n", rep.AvgF1))
	sb.WriteString(fmt.Sprintf("| Overall Score | %.3f |\n\n", rep.AvgOverallScore))

	sb.WriteString("## Per-Hypothesis Results\n\n")
	for i := range rep.Results {
		writeResultSection(&sb, &rep.Results[i])
	}

	writeFailureAnalysis(&sb, rep)
	writeRecommendations(&sb, rep)

	return sb.String()
}

func writeResultSection(sb *strings.Builder, r *models.HypothesisEvaluation) {
	status := "❌"
	if r.Succeeded() {
		status = "✅"
	}
	sb.WriteString(fmt.Sprintf("### %s [%s] %s\n\n", status, r.HypothesisID, r.HypothesisName))

	if r.SQL != "" {
		sb.WriteString("```sql\n")
		sb.WriteString(r.SQL)
		sb.WriteString("\n```\n\n")
	}

	if !r.Succeeded() {
		sb.WriteString("**Error:** Query execution failed\n\n")
		sb.WriteString(fmt.Sprintf("```\n%s\n```\n\n", r.Error))
		return
	}

	sb.WriteString("**Metrics:**\n")
	sb.WriteString(fmt.Sprintf("- Expected Records: %d\n", r.ExpectedCount))
	sb.WriteString(fmt.Sprintf("- Actual Records: %d\n", r.ActualCount))
	sb.WriteString(fmt.Sprintf("- Precision: %.3f\n", r.Precision))
	sb.WriteString(fmt.Sprintf("- Recall: %.3f\n", r.Recall))
	sb.WriteString(fmt.Sprintf("- F1 Score: %.3f\n", r.F1))
	sb.WriteString(fmt.Sprintf("- Overall Score: %.3f\n\n", r.OverallScore))

	if r.MissingCount > 0 || r.ExtraCount > 0 {
		sb.WriteString("**Discrepancies:**\n")
		sb.WriteString(fmt.Sprintf("- Missing Records: %d\n", r.MissingCount))
		sb.WriteString(fmt.Sprintf("- Extra Records: %d\n\n", r.ExtraCount))
	}

	sb.WriteString(fmt.Sprintf("**Assessment:** %s\n\n", assessment(r.F1)))
}

func assessment(f1 float64) string {
	switch {
	case f1 >= 0.9:
		return "Excellent performance ✨"
	case f1 >= 0.7:
		return "Good performance ✓"
	case f1 >= 0.5:
		return "Moderate performance ⚠️"
	default:
		return "Needs improvement ⚠️⚠️"
	}
}

func writeFailureAnalysis(sb *strings.Builder, rep *models.EvaluationReport) {
	var failed []*models.HypothesisEvaluation
	for i := range rep.Results {
		if !rep.Results[i].Succeeded() {
			failed = append(failed, &rep.Results[i])
		}
	}
	if len(failed) == 0 {
		return
	}

	sb.WriteString("## Failure Analysis\n\n")
	sb.WriteString(fmt.Sprintf("The following %d queries failed to execute:\n\n", len(failed)))
	for _, r := range failed {
		sb.WriteString(fmt.Sprintf("- **%s**: %s\n", r.HypothesisID, r.HypothesisName))
		sb.WriteString(fmt.Sprintf("  - Error: %s\n\n", truncate(r.Error, 200)))
	}
}

func writeRecommendations(sb *strings.Builder, rep *models.EvaluationReport) {
	sb.WriteString("## Recommendations\n\n")

	var low []*models.HypothesisEvaluation
	for i := range rep.Results {
		r := &rep.Results[i]
		if r.Succeeded() && r.F1 < 0.7 {
			low = append(low, r)
		}
	}
	if len(low) > 0 {
		sb.WriteString("### Queries Needing Improvement\n\n")
		for _, r := range low {
			sb.WriteString(fmt.Sprintf("- **%s**: %s (F1=%.2f)\n", r.HypothesisID, r.HypothesisName, r.F1))
		}
		sb.WriteString("\n")
	}

	if rep.AvgF1 < 0.8 {
		sb.WriteString("### General Improvements\n\n")
		sb.WriteString("- Review and refine prompt engineering strategies\n")
		sb.WriteString("- Add more examples for low-performing hypothesis types\n")
		sb.WriteString("- Implement query validation before execution\n")
		sb.WriteString("- Consider multi-step reasoning for complex hypotheses\n\n")
	}
}
