package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/haasonsaas/huntbench/pkg/models"
)

const rule = 80

// WriteConsole prints the run summary and a per-hypothesis table to w.
func WriteConsole(w io.Writer, rep *models.EvaluationReport) error {
	line := strings.Repeat("=", rule)

	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "EVALUATION SUMMARY")
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "\nTotal Hypotheses: %d\n", rep.TotalHypotheses)
	fmt.Fprintf(w, "Successful Queries: %d\n", rep.SuccessfulQueries)
	fmt.Fprintf(w, "Failed Queries: %d\n", rep.FailedQueries)

	fmt.Fprintln(w, "\nAverage Metrics:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  Precision:\t%.3f\n", rep.AvgPrecision)
	fmt.Fprintf(tw, "  Recall:\t%.3f\n", rep.AvgRecall)
	fmt.Fprintf(tw, "  F1 Score:\t%.3f\n", rep.AvgF1)
	fmt.Fprintf(tw, "  Overall:\t%.3f\n", rep.AvgOverallScore)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "PER-HYPOTHESIS RESULTS")
	fmt.Fprintln(w, line)

	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tID\tNAME\tEXPECTED\tACTUAL\tP\tR\tF1\tSCORE\tNOTES")
	for i := range rep.Results {
		r := &rep.Results[i]
		if r.Succeeded() {
			notes := ""
			if r.MissingCount > 0 || r.ExtraCount > 0 {
				notes = fmt.Sprintf("missing %d, extra %d", r.MissingCount, r.ExtraCount)
			}
			fmt.Fprintf(tw, "✓\t%s\t%s\t%d\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n",
				r.HypothesisID, r.HypothesisName, r.ExpectedCount, r.ActualCount,
				r.Precision, r.Recall, r.F1, r.OverallScore, notes)
			continue
		}
		fmt.Fprintf(tw, "✗\t%s\t%s\t-\t-\t-\t-\t-\t%.2f\t%s\n",
			r.HypothesisID, r.HypothesisName, r.OverallScore, truncate(r.Error, 100))
	}
	return tw.Flush()
}
