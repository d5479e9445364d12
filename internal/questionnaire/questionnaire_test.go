package questionnaire

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func testGroups() []Group {
	return []Group{
		{
			Name: "Test",
			Questions: []Question{
				{Key: "name", Prompt: "Name?", Kind: KindText, Default: "fallback"},
				{Key: "lang", Prompt: "Language?", Kind: KindSelect, Options: []string{"Go", "Python", "Rust"}},
				{Key: "tools", Prompt: "Tools?", Kind: KindMulti, Options: []string{"lint", "test", "bench"}},
				{Key: "ok", Prompt: "Proceed?", Kind: KindConfirm, Default: "n"},
				{
					Key:    "why",
					Prompt: "Why?",
					Kind:   KindText,
					Condition: func(a Answers) bool {
						return a.Bool("ok")
					},
				},
			},
		},
	}
}

func runScript(t *testing.T, input string) Answers {
	t.Helper()
	var out bytes.Buffer
	e := NewEngineWithGroups(testGroups(), strings.NewReader(input), &out)
	answers, err := e.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return answers
}

func TestRunCollectsAnswers(t *testing.T) {
	a := runScript(t, "loom\n2\n1,3\ny\nbecause\n")

	if a.String("name") != "loom" {
		t.Errorf("name = %q", a.String("name"))
	}
	if a.String("lang") != "Python" {
		t.Errorf("lang = %q, want Python (option 2)", a.String("lang"))
	}
	tools := a.List("tools")
	if len(tools) != 2 || tools[0] != "lint" || tools[1] != "bench" {
		t.Errorf("tools = %v", tools)
	}
	if !a.Bool("ok") {
		t.Error("ok = false, want true")
	}
	if a.String("why") != "because" {
		t.Errorf("why = %q", a.String("why"))
	}
}

func TestRunDefaultsAndConditions(t *testing.T) {
	// Empty name takes the default; "n" hides the conditional question.
	a := runScript(t, "\ngo\n\nn\n")

	if a.String("name") != "fallback" {
		t.Errorf("name = %q, want default", a.String("name"))
	}
	if a.String("lang") != "Go" {
		t.Errorf("lang = %q, want Go (matched by text)", a.String("lang"))
	}
	if got := a.List("tools"); len(got) != 0 {
		t.Errorf("tools = %v, want empty", got)
	}
	if _, present := a["why"]; present {
		t.Error("conditional question asked despite ok=false")
	}
}

func TestRunRepromptsOnBadInput(t *testing.T) {
	// "9" is out of range, "maybe" is not a confirm answer; both re-prompt.
	a := runScript(t, "x\n9\n3\n\nmaybe\nn\n")

	if a.String("lang") != "Rust" {
		t.Errorf("lang = %q, want Rust after re-prompt", a.String("lang"))
	}
	if a.Bool("ok") {
		t.Error("ok = true, want false")
	}
}

func TestRunEOF(t *testing.T) {
	var out bytes.Buffer
	e := NewEngineWithGroups(testGroups(), strings.NewReader("only-one-line\n"), &out)
	if _, err := e.Run(); err == nil {
		t.Error("expected error when input ends early")
	}
}

func TestSelectOption(t *testing.T) {
	options := []string{"Alpha", "Beta"}
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1", "Alpha", false},
		{"2", "Beta", false},
		{"beta", "Beta", false},
		{"0", "", true},
		{"3", "", true},
		{"gamma", "", true},
	}
	for _, tt := range tests {
		got, err := selectOption(options, tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("selectOption(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("selectOption(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestAnswersRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.yaml")
	in := Answers{
		"config_name": "demo",
		"frameworks":  []string{"React/Next.js"},
		"enable_review": true,
	}
	if err := SaveAnswers(path, in); err != nil {
		t.Fatalf("SaveAnswers: %v", err)
	}
	out, err := LoadAnswers(path)
	if err != nil {
		t.Fatalf("LoadAnswers: %v", err)
	}
	if out.String("config_name") != "demo" {
		t.Errorf("config_name = %q", out.String("config_name"))
	}
	if fw := out.List("frameworks"); len(fw) != 1 || fw[0] != "React/Next.js" {
		t.Errorf("frameworks = %v", fw)
	}
	if !out.Bool("enable_review") {
		t.Error("enable_review lost in round trip")
	}
}
