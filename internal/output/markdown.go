package output

import (
	"io"
	"strings"

	"github.com/dshills/loom/internal/review"
)

// MarkdownWriter outputs the report as markdown, suitable for pasting into
// issues or docs.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *review.Report) error {
	ew := &errWriter{w: w}

	ew.printf("# Config Review: %s\n\n", strings.ToUpper(string(report.Verdict)))
	ew.printf("%d finding(s): %d critical, %d high, %d medium, %d low.\n\n",
		report.Summary.Total,
		report.Summary.Counts.Critical,
		report.Summary.Counts.High,
		report.Summary.Counts.Medium,
		report.Summary.Counts.Low,
	)

	if len(report.Reviewers) > 0 {
		ew.println("## Reviewers\n")
		for _, o := range report.Reviewers {
			if o.OK() {
				ew.printf("- **%s**: %d finding(s) in %dms\n", o.Reviewer, len(o.Findings), o.ElapsedMs)
			} else {
				ew.printf("- **%s**: failed (%s)\n", o.Reviewer, o.Reason)
			}
		}
		ew.println("")
	}

	if len(report.Findings) > 0 {
		ew.println("## Findings\n")
		ew.println("| Severity | Location | Category | Message | Sources |")
		ew.println("|---|---|---|---|---|")
		for _, f := range report.Findings {
			ew.printf("| %s | %s | %s | %s | %s |\n",
				f.Severity, location(f), f.Category,
				escapePipes(f.Message), strings.Join(f.Sources, ", "))
		}
		ew.println("")

		var withSuggestions []review.Finding
		for _, f := range report.Findings {
			if f.Suggestion != "" {
				withSuggestions = append(withSuggestions, f)
			}
		}
		if len(withSuggestions) > 0 {
			ew.println("## Suggestions\n")
			for _, f := range withSuggestions {
				ew.printf("- **%s**: %s\n", location(f), f.Suggestion)
			}
			ew.println("")
		}
	}

	ew.printf("Completed in %dms.\n", report.ElapsedMs)
	return ew.err
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
