package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/loom/internal/review"
	"github.com/dshills/loom/internal/validator"
)

func testReport() *review.Report {
	findings := []review.Finding{
		{
			ID:         "f1",
			Path:       "CLAUDE.md",
			Line:       12,
			Severity:   review.SeverityHigh,
			Category:   review.CategorySecurity,
			Message:    "instructions allow unrestricted | deletion",
			Suggestion: "Scope deletion to session files",
			Confidence: 0.9,
			Sources:    []string{"alpha", "beta"},
		},
		{
			ID:         "f2",
			Severity:   review.SeverityLow,
			Category:   review.CategoryImprovement,
			Message:    "minor wording issue",
			Confidence: 0.8,
			Sources:    []string{"alpha"},
		},
	}
	return &review.Report{
		CorrelationID: "corr-1",
		Verdict:       review.VerdictFail,
		Findings:      findings,
		Reviewers: []review.Outcome{
			{Reviewer: "alpha", Findings: findings, ElapsedMs: 42},
			{Reviewer: "beta", Reason: review.FailTimeout},
		},
		Summary:   review.ComputeSummary(findings),
		ElapsedMs: 97,
	}
}

func TestGetWriter(t *testing.T) {
	for _, format := range []string{"text", "json", "markdown", "md"} {
		if _, err := GetWriter(format); err != nil {
			t.Errorf("GetWriter(%q): %v", format, err)
		}
	}
	if _, err := GetWriter("yaml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TextWriter{}).Write(&buf, testReport()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := buf.String()

	for _, want := range []string{
		"verdict: FAIL",
		"Findings: 2 total (0 critical, 1 high, 0 medium, 1 low)",
		"alpha ok (42ms)",
		"beta failed: timeout",
		"[!!] HIGH",
		"CLAUDE.md:12",
		"Suggestion:",
		"Reported by: alpha, beta",
		"(general)",
		"Completed in 97ms",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("text output missing %q\n%s", want, got)
		}
	}
}

func TestTextWriterPassNoFindings(t *testing.T) {
	report := &review.Report{
		Verdict:   review.VerdictPass,
		Reviewers: []review.Outcome{{Reviewer: "alpha", ElapsedMs: 10}},
	}
	var buf bytes.Buffer
	if err := (&TextWriter{}).Write(&buf, report); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "No issues found. Ship it.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestTextWriterIndeterminate(t *testing.T) {
	report := &review.Report{
		Verdict:   review.VerdictIndeterminate,
		Reviewers: []review.Outcome{{Reviewer: "alpha", Reason: review.FailTransport}},
	}
	var buf bytes.Buffer
	if err := (&TextWriter{}).Write(&buf, report); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "No reviewer produced a usable result") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestJSONWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONWriter{}).Write(&buf, testReport()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var decoded review.Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output not valid JSON: %v", err)
	}
	if decoded.Verdict != review.VerdictFail || len(decoded.Findings) != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.CorrelationID != "corr-1" {
		t.Errorf("correlationId = %q", decoded.CorrelationID)
	}
}

func TestMarkdownWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&MarkdownWriter{}).Write(&buf, testReport()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := buf.String()

	for _, want := range []string{
		"# Config Review: FAIL",
		"| Severity | Location | Category | Message | Sources |",
		"| high | CLAUDE.md:12 | security |",
		"unrestricted \\| deletion",
		"- **alpha**: 2 finding(s) in 42ms",
		"- **beta**: failed (timeout)",
		"## Suggestions",
		"- **CLAUDE.md:12**: Scope deletion to session files",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("markdown output missing %q\n%s", want, got)
		}
	}
}

func TestWriteReportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := WriteReport(testReport(), "json", path); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	var decoded review.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report file not valid JSON: %v", err)
	}
}

func TestWriteValidation(t *testing.T) {
	rep := validator.Report{Issues: []validator.Issue{
		{Severity: review.SeverityCritical, Path: "CLAUDE.md", Message: "missing"},
	}}
	var buf bytes.Buffer
	if err := WriteValidation(&buf, rep); err != nil {
		t.Fatalf("WriteValidation: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "1 issue(s)") || !strings.Contains(got, "Blocking issues present.") {
		t.Errorf("output = %q", got)
	}

	buf.Reset()
	if err := WriteValidation(&buf, validator.Report{}); err != nil {
		t.Fatalf("WriteValidation: %v", err)
	}
	if !strings.Contains(buf.String(), "Validation passed") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six seven eight nine ten", 20)
	if len(lines) < 2 {
		t.Fatalf("lines = %v, want wrapping", lines)
	}
	for _, line := range lines {
		if len(line) > 20 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if got := wrapText("short", 20); len(got) != 1 || got[0] != "short" {
		t.Errorf("short text = %v", got)
	}
}
