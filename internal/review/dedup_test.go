package review

import (
	"reflect"
	"strings"
	"testing"
)

func finding(sev Severity, path string, line int, msg, suggestion string) Finding {
	f := Finding{
		Severity:   sev,
		Category:   CategorySecurity,
		Path:       path,
		Line:       line,
		Message:    msg,
		Suggestion: suggestion,
		Confidence: 0.9,
	}
	f.ID = FindingID(f)
	return f
}

func TestMergeCollapsesDuplicates(t *testing.T) {
	d := NewDeduplicator()
	merged := d.Merge(map[string][]Finding{
		"openai:gpt-4o": {
			finding(SeverityMedium, ".claude/settings.json", 10, "allow list permits unrestricted file deletion", "restrict deletion"),
		},
		"gemini:gemini-1.5-pro": {
			finding(SeverityHigh, ".claude/settings.json", 12, "allow list permits unrestricted file deletion here", "add a deny rule"),
		},
	})

	if len(merged) != 1 {
		t.Fatalf("expected 1 merged finding, got %d", len(merged))
	}
	f := merged[0]
	if f.Severity != SeverityHigh {
		t.Errorf("severity = %s, want high (escalated)", f.Severity)
	}
	if len(f.Sources) != 2 {
		t.Errorf("sources = %v, want both reviewers", f.Sources)
	}
	if !strings.Contains(f.Suggestion, "restrict deletion") || !strings.Contains(f.Suggestion, "add a deny rule") {
		t.Errorf("suggestion = %q, want both suggestions joined", f.Suggestion)
	}
	if f.Line != 10 {
		t.Errorf("line = %d, want min anchor 10", f.Line)
	}
}

func TestMergeKeepsDistinctFindings(t *testing.T) {
	d := NewDeduplicator()
	tests := []struct {
		name string
		a, b Finding
	}{
		{
			name: "different files",
			a:    finding(SeverityHigh, "CLAUDE.md", 5, "missing test command for verification", ""),
			b:    finding(SeverityHigh, ".claude/settings.json", 5, "missing test command for verification", ""),
		},
		{
			name: "lines too far apart",
			a:    finding(SeverityHigh, "CLAUDE.md", 5, "missing test command for verification", ""),
			b:    finding(SeverityHigh, "CLAUDE.md", 20, "missing test command for verification", ""),
		},
		{
			name: "messages dissimilar",
			a:    finding(SeverityHigh, "CLAUDE.md", 5, "missing test command", ""),
			b:    finding(SeverityHigh, "CLAUDE.md", 5, "permissions are dangerously broad in scope", ""),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := d.Merge(map[string][]Finding{
				"a": {tt.a},
				"b": {tt.b},
			})
			if len(merged) != 2 {
				t.Errorf("expected 2 findings, got %d", len(merged))
			}
		})
	}
}

func TestLinesClose(t *testing.T) {
	d := NewDeduplicator()
	tests := []struct {
		a, b int
		want bool
	}{
		{5, 8, true},
		{8, 5, true},
		{5, 9, false},
		{0, 0, true},
		{0, 1, false}, // whole-file only matches whole-file
		{1, 0, false},
	}
	for _, tt := range tests {
		if got := d.linesClose(tt.a, tt.b); got != tt.want {
			t.Errorf("linesClose(%d, %d) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"missing test command", "missing test command", 1},
		{"", "", 1},
		{"one two", "three four", 0},
		{"Missing Test, command.", "missing test command", 1}, // case and punctuation insensitive
	}
	for _, tt := range tests {
		if got := jaccard(tt.a, tt.b); got != tt.want {
			t.Errorf("jaccard(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

// Merging must not depend on which reviewer's findings are seen first.
func TestMergeOrderIndependent(t *testing.T) {
	a := finding(SeverityMedium, "CLAUDE.md", 3, "security section does not mention secrets", "add a secrets rule")
	b := finding(SeverityHigh, "CLAUDE.md", 4, "security section does not mention secrets handling", "document secret handling")
	c := finding(SeverityLow, "models.json", 0, "no default model for ollama provider", "")

	d := NewDeduplicator()
	first := d.Merge(map[string][]Finding{
		"r1": {a, c},
		"r2": {b},
	})
	second := d.Merge(map[string][]Finding{
		"r2": {b},
		"r1": {c, a},
	})

	// Strip sources before comparing: provenance names differ per map key,
	// but both runs used the same names so they should match exactly too.
	if !reflect.DeepEqual(first, second) {
		t.Errorf("merge depends on input order:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestMergeTransitiveChain(t *testing.T) {
	// a~b and b~c but a and c alone would not match on line distance.
	a := finding(SeverityMedium, "CLAUDE.md", 1, "build command missing from commands section", "")
	b := finding(SeverityMedium, "CLAUDE.md", 4, "build command missing from commands section", "")
	c := finding(SeverityMedium, "CLAUDE.md", 7, "build command missing from commands section", "")

	d := NewDeduplicator()
	merged := d.Merge(map[string][]Finding{
		"r1": {a}, "r2": {b}, "r3": {c},
	})
	if len(merged) != 1 {
		t.Fatalf("expected transitive chain to merge into 1, got %d", len(merged))
	}
	if merged[0].Line != 1 {
		t.Errorf("line = %d, want min 1", merged[0].Line)
	}
	if len(merged[0].Sources) != 3 {
		t.Errorf("sources = %v, want all three", merged[0].Sources)
	}
}

func TestMergeSortsBySeverityThenPath(t *testing.T) {
	d := NewDeduplicator()
	merged := d.Merge(map[string][]Finding{
		"r": {
			finding(SeverityLow, "a.md", 1, "minor wording nit in overview", ""),
			finding(SeverityCritical, "z.md", 9, "plaintext credential committed to config", ""),
			finding(SeverityLow, "b.md", 1, "another minor wording nit elsewhere", ""),
		},
	})
	if len(merged) != 3 {
		t.Fatalf("expected 3 findings, got %d", len(merged))
	}
	if merged[0].Severity != SeverityCritical {
		t.Errorf("first finding severity = %s, want critical", merged[0].Severity)
	}
	if merged[1].Path != "a.md" || merged[2].Path != "b.md" {
		t.Errorf("ties not sorted by path: %s, %s", merged[1].Path, merged[2].Path)
	}
}

func TestMergeEmpty(t *testing.T) {
	d := NewDeduplicator()
	merged := d.Merge(map[string][]Finding{})
	if merged == nil || len(merged) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", merged)
	}
}
