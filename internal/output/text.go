package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/loom/internal/review"
	"github.com/dshills/loom/internal/validator"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *review.Report) error {
	ew := &errWriter{w: w}

	ew.printf("Loom Config Review — verdict: %s\n", strings.ToUpper(string(report.Verdict)))
	ew.println(strings.Repeat("─", 60))
	ew.printf("Findings: %d total", report.Summary.Total)
	if report.Summary.Total > 0 {
		ew.printf(" (%d critical, %d high, %d medium, %d low)",
			report.Summary.Counts.Critical,
			report.Summary.Counts.High,
			report.Summary.Counts.Medium,
			report.Summary.Counts.Low,
		)
	}
	ew.println("")
	writeReviewerLine(ew, report.Reviewers)
	ew.println(strings.Repeat("─", 60))

	if report.Verdict == review.VerdictIndeterminate {
		ew.println("\nNo reviewer produced a usable result. Check provider keys and connectivity.")
		return ew.err
	}
	if report.Summary.Total == 0 {
		ew.println("\nNo issues found. Ship it.")
		return ew.err
	}

	grouped := groupBySeverity(report.Findings)
	for _, sev := range []review.Severity{review.SeverityCritical, review.SeverityHigh, review.SeverityMedium, review.SeverityLow} {
		findings := grouped[sev]
		if len(findings) == 0 {
			continue
		}

		ew.printf("\n%s %s\n", severityIcon(sev), strings.ToUpper(string(sev)))
		ew.println(strings.Repeat("─", 40))

		for _, f := range findings {
			ew.printf("\n  %s  [%s]\n", location(f), f.Category)
			for _, line := range wrapText(f.Message, 70) {
				ew.printf("    %s\n", line)
			}
			if f.Suggestion != "" {
				ew.println("  Suggestion:")
				for _, line := range wrapText(f.Suggestion, 70) {
					ew.printf("    %s\n", line)
				}
			}
			ew.printf("  Reported by: %s\n", strings.Join(f.Sources, ", "))
		}
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.printf("Completed in %dms\n", report.ElapsedMs)

	return ew.err
}

func writeReviewerLine(ew *errWriter, outcomes []review.Outcome) {
	var parts []string
	for _, o := range outcomes {
		if o.OK() {
			parts = append(parts, fmt.Sprintf("%s ok (%dms)", o.Reviewer, o.ElapsedMs))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed: %s", o.Reviewer, o.Reason))
		}
	}
	if len(parts) > 0 {
		ew.printf("Reviewers: %s\n", strings.Join(parts, "; "))
	}
}

// WriteValidation renders a structural validation report as text.
func WriteValidation(w io.Writer, rep validator.Report) error {
	ew := &errWriter{w: w}
	if len(rep.Issues) == 0 {
		ew.println("Validation passed: no structural issues.")
		return ew.err
	}
	ew.printf("Validation: %d issue(s)\n", len(rep.Issues))
	for _, issue := range rep.Issues {
		ew.printf("  %s %s: %s\n", severityIcon(issue.Severity), issue.Path, issue.Message)
	}
	if rep.OK() {
		ew.println("No blocking issues.")
	} else {
		ew.println("Blocking issues present.")
	}
	return ew.err
}

func location(f review.Finding) string {
	switch {
	case f.Path == "":
		return "(general)"
	case f.Line > 0:
		return fmt.Sprintf("%s:%d", f.Path, f.Line)
	default:
		return f.Path
	}
}

func groupBySeverity(findings []review.Finding) map[review.Severity][]review.Finding {
	m := make(map[review.Severity][]review.Finding)
	for _, f := range findings {
		m[f.Severity] = append(m[f.Severity], f)
	}
	return m
}

func severityIcon(s review.Severity) string {
	switch s {
	case review.SeverityCritical:
		return "[!!!]"
	case review.SeverityHigh:
		return "[!!]"
	case review.SeverityMedium:
		return "[!]"
	case review.SeverityLow:
		return "[-]"
	default:
		return "[?]"
	}
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
