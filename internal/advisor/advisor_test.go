package advisor

import (
	"testing"

	"github.com/dshills/loom/internal/questionnaire"
	"github.com/dshills/loom/internal/review"
)

func cleanAnswers() questionnaire.Answers {
	return questionnaire.Answers{
		"purpose":             "Solo development",
		"security_level":      "Standard - balanced safety",
		"autonomy_level":      "Senior dev - autonomous with check-ins",
		"allow_file_deletion": "Limited - only files it created",
		"has_secrets":         false,
		"test_runner":         "go test ./...",
		"build_command":       "go build ./...",
		"enable_review":       true,
	}
}

func TestAnalyzeCleanAnswers(t *testing.T) {
	result := Analyze(cleanAnswers())
	if len(result.Concerns) != 0 {
		t.Errorf("concerns = %+v, want none", result.Concerns)
	}
	if result.Score != 100 {
		t.Errorf("score = %d, want 100", result.Score)
	}
	if result.Blocking() {
		t.Error("clean answers should not block")
	}
}

func TestAnalyzeRelaxedEnterprise(t *testing.T) {
	a := cleanAnswers()
	a["purpose"] = "Enterprise"
	a["security_level"] = "Relaxed - personal projects"

	result := Analyze(a)
	if !result.Blocking() {
		t.Error("relaxed enterprise should raise a blocking concern")
	}
	found := false
	for _, c := range result.Concerns {
		if c.Category == review.CategorySecurity && c.Severity == review.SeverityHigh {
			found = true
		}
	}
	if !found {
		t.Errorf("concerns = %+v, want a high security concern", result.Concerns)
	}
}

func TestAnalyzeSecretsWithRelaxedSecurity(t *testing.T) {
	a := cleanAnswers()
	a["has_secrets"] = true
	a["security_level"] = "Relaxed - personal projects"

	result := Analyze(a)
	if !result.Blocking() {
		t.Error("secrets with relaxed security should block")
	}
}

func TestAnalyzeMissingEssentials(t *testing.T) {
	a := cleanAnswers()
	a["test_runner"] = ""
	a["build_command"] = ""

	result := Analyze(a)
	if result.Blocking() {
		t.Error("missing commands should warn, not block")
	}
	if len(result.Concerns) != 2 {
		t.Errorf("concerns = %d, want 2", len(result.Concerns))
	}
	if result.Score != 85 {
		t.Errorf("score = %d, want 85 (100 - 10 - 5)", result.Score)
	}
}

func TestScoreFloor(t *testing.T) {
	concerns := make([]Concern, 5)
	for i := range concerns {
		concerns[i] = Concern{Severity: review.SeverityCritical}
	}
	if got := score(concerns); got != 0 {
		t.Errorf("score = %d, want floor of 0", got)
	}
}
