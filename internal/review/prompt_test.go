package review

import (
	"strings"
	"testing"
)

func TestParseFindings(t *testing.T) {
	valid := `{"issues":[{"severity":"high","category":"security","message":"deny list is empty","suggestion":"add deny rules","file":".claude/settings.json","line":4,"confidence":0.95}]}`

	tests := []struct {
		name    string
		content string
		count   int
		wantErr bool
	}{
		{"clean object", valid, 1, false},
		{"fenced", "```json\n" + valid + "\n```", 1, false},
		{"prose wrapped", "Here is my review:\n" + valid + "\nHope this helps!", 1, false},
		{"empty issues", `{"issues":[]}`, 0, false},
		{"not json", "I could not review this.", 0, true},
		{"truncated json", `{"issues":[{"sev`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings, err := ParseFindings(tt.content, "test-reviewer")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(findings) != tt.count {
				t.Errorf("got %d findings, want %d", len(findings), tt.count)
			}
		})
	}
}

func TestParseFindingsFilters(t *testing.T) {
	content := `{"issues":[
		{"severity":"high","message":"","confidence":0.95},
		{"severity":"high","message":"low confidence guess","confidence":0.5},
		{"severity":"weird","category":"weird","message":"kept with normalized fields","confidence":0.9}
	]}`
	findings, err := ParseFindings(content, "r")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	f := findings[0]
	if f.Severity != SeverityMedium {
		t.Errorf("severity = %s, want medium (normalized)", f.Severity)
	}
	if f.Category != CategoryImprovement {
		t.Errorf("category = %s, want improvement (normalized)", f.Category)
	}
	if len(f.Sources) != 1 || f.Sources[0] != "r" {
		t.Errorf("sources = %v, want attributed to r", f.Sources)
	}
	if f.ID == "" {
		t.Error("finding id not set")
	}
}

func TestBuildUserPrompt(t *testing.T) {
	req := Request{
		Root: "my-config",
		Files: []File{
			{Path: "CLAUDE.md", Content: "# Hello"},
			{Path: ".claude/settings.json", Content: "{}"},
		},
	}
	prompt := BuildUserPrompt(req)
	if !strings.Contains(prompt, "=== CLAUDE.md ===") {
		t.Error("prompt missing CLAUDE.md header")
	}
	if !strings.Contains(prompt, "=== .claude/settings.json ===") {
		t.Error("prompt missing settings header")
	}
	if !strings.Contains(prompt, "Files: 2") {
		t.Error("prompt missing file count")
	}
}

func TestBuildUserPromptTruncates(t *testing.T) {
	req := Request{
		Files: []File{{Path: "big.md", Content: strings.Repeat("x", maxFileBytes+100)}},
	}
	prompt := BuildUserPrompt(req)
	if !strings.Contains(prompt, "[truncated]") {
		t.Error("oversized content not truncated")
	}
}
