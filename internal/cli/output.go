// Package cli provides report rendering for the kembar command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hyperjump/kembar/internal/models"
	"github.com/hyperjump/kembar/pkg/utils"
)

// OutputFormat is the format for report output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// maxMessageLen bounds issue messages in text output.
const maxMessageLen = 160

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case OutputText, OutputJSON:
		return f, nil
	case "":
		return OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// WriteReport writes a run report to w in the given format. Text output lists only
// records with issues; clean records are counted in the summary.
func WriteReport(w io.Writer, report *models.RunReport, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, report)
	}
	run := report.Run
	fmt.Fprintf(w, "\nRun %s over %s\n", run.ID, run.Root)
	writeSummary(w, run.Summary)
	if !run.FinishedAt.IsZero() {
		fmt.Fprintf(w, "Finished in %s\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	}
	for _, res := range report.Results {
		if len(res.Issues) > 0 {
			writeResultText(w, res)
		}
	}
	if len(report.Skipped) > 0 {
		fmt.Fprintln(w, "\n--- Skipped files ---")
		for _, s := range report.Skipped {
			fmt.Fprintf(w, "%s: %s\n", s.Path, s.Reason)
		}
	}
	fmt.Fprintln(w)
	return nil
}

// WriteResult writes a single validation result to w in the given format.
func WriteResult(w io.Writer, res *models.ValidationResult, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, res)
	}
	writeResultText(w, res)
	return nil
}

// WriteRuns writes a list of stored runs to w in the given format.
func WriteRuns(w io.Writer, runs []*models.Run, format OutputFormat) error {
	if format == OutputJSON {
		if runs == nil {
			runs = []*models.Run{}
		}
		return writeJSON(w, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs stored.")
		return nil
	}
	for _, r := range runs {
		s := r.Summary
		fmt.Fprintf(w, "%s  %s  %d total, %d failed, %d skipped  %s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), s.Total, s.Failed, s.Skipped, r.Root)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSummary(w io.Writer, s models.Summary) {
	fmt.Fprintf(w, "%d documents: %d passed, %d failed (%d errors, %d warnings, %d info), %d skipped\n",
		s.Total, s.Passed, s.Failed, s.Errors, s.Warnings, s.Infos, s.Skipped)
}

func writeResultText(w io.Writer, res *models.ValidationResult) {
	status := "PASS"
	if !res.Passed {
		status = "FAIL"
	}
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "%s [%s] %s | max similarity %d%% | %d shingles\n",
		res.ID, res.Category, status, res.Metrics.MaxSimilarity, res.Metrics.FingerprintSize)
	for _, is := range res.Issues {
		fmt.Fprintf(w, "  %-7s %s %s\n", is.Severity, is.Code, utils.Truncate(is.Message, maxMessageLen))
		for _, m := range is.Details.Matches {
			fmt.Fprintf(w, "          %3d%%  %s\n", m.Score, m.ID)
		}
		for _, p := range is.Details.Phrases {
			fmt.Fprintf(w, "          %q in %d pages\n", utils.TruncateWords(p.Phrase, 8), p.Occurrences)
		}
		if is.Suggestion != "" {
			fmt.Fprintf(w, "          hint: %s\n", is.Suggestion)
		}
	}
}
