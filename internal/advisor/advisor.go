package advisor

import (
	"strings"

	"github.com/dshills/loom/internal/questionnaire"
	"github.com/dshills/loom/internal/review"
)

// Concern is a rule-based objection to the user's questionnaire choices,
// raised before anything is generated.
type Concern struct {
	Severity   review.Severity `json:"severity"`
	Category   review.Category `json:"category"`
	Message    string          `json:"message"`
	Suggestion string          `json:"suggestion"`
}

// Result is the advisor's assessment of a full answer set.
type Result struct {
	Concerns []Concern `json:"concerns"`
	// Score grades the answer coherence from 0 (incoherent) to 100 (clean).
	Score int `json:"score"`
}

// Blocking reports whether any concern is severe enough that generation
// should pause for confirmation.
func (r Result) Blocking() bool {
	for _, c := range r.Concerns {
		if review.SeverityRank(c.Severity) >= review.SeverityRank(review.SeverityHigh) {
			return true
		}
	}
	return false
}

// Analyze applies every rule to the answers.
func Analyze(answers questionnaire.Answers) Result {
	var concerns []Concern
	concerns = append(concerns, checkSecurity(answers)...)
	concerns = append(concerns, checkAutonomy(answers)...)
	concerns = append(concerns, checkCoherence(answers)...)
	concerns = append(concerns, checkEssentials(answers)...)
	return Result{Concerns: concerns, Score: score(concerns)}
}

func checkSecurity(a questionnaire.Answers) []Concern {
	var out []Concern
	security := a.String("security_level")
	purpose := a.String("purpose")

	if strings.HasPrefix(security, "Relaxed") && purpose == "Enterprise" {
		out = append(out, Concern{
			Severity:   review.SeverityHigh,
			Category:   review.CategorySecurity,
			Message:    "Relaxed security selected for an enterprise config",
			Suggestion: "Use High or Maximum security for production systems",
		})
	}
	if a.Bool("has_secrets") && strings.HasPrefix(security, "Relaxed") {
		out = append(out, Concern{
			Severity:   review.SeverityHigh,
			Category:   review.CategorySecurity,
			Message:    "Project uses secrets but security level is Relaxed",
			Suggestion: "Raise the security level so secret-bearing paths get deny rules",
		})
	}
	if strings.HasPrefix(a.String("allow_file_deletion"), "Yes") &&
		(strings.HasPrefix(security, "High") || strings.HasPrefix(security, "Maximum")) {
		out = append(out, Concern{
			Severity:   review.SeverityMedium,
			Category:   review.CategorySecurity,
			Message:    "Unrestricted file deletion conflicts with a strict security level",
			Suggestion: "Limit deletion to files the assistant created",
		})
	}
	return out
}

func checkAutonomy(a questionnaire.Answers) []Concern {
	var out []Concern
	autonomy := a.String("autonomy_level")

	if strings.HasPrefix(autonomy, "Co-founder") && strings.HasPrefix(a.String("security_level"), "Maximum") {
		out = append(out, Concern{
			Severity:   review.SeverityMedium,
			Category:   review.CategoryBestPractice,
			Message:    "Co-founder autonomy will constantly collide with Maximum security gates",
			Suggestion: "Drop to Senior dev autonomy or High security",
		})
	}
	if strings.HasPrefix(autonomy, "Co-founder") && a.String("purpose") == "Learning" {
		out = append(out, Concern{
			Severity:   review.SeverityLow,
			Category:   review.CategoryBestPractice,
			Message:    "High autonomy hides the steps a learning config should surface",
			Suggestion: "Use Junior dev autonomy so the assistant explains its work",
		})
	}
	return out
}

func checkCoherence(a questionnaire.Answers) []Concern {
	var out []Concern
	if a.Bool("enable_memory") && len(a.List("enable_agents")) == 0 {
		out = append(out, Concern{
			Severity:   review.SeverityLow,
			Category:   review.CategoryImprovement,
			Message:    "Memory system enabled with no agents to use it",
			Suggestion: "Enable at least one agent or drop the memory system",
		})
	}
	if !a.Bool("enable_review") && a.String("purpose") == "Enterprise" {
		out = append(out, Concern{
			Severity:   review.SeverityMedium,
			Category:   review.CategoryBestPractice,
			Message:    "Enterprise config without consensus review before shipping",
			Suggestion: "Enable multi-provider review for production configs",
		})
	}
	return out
}

func checkEssentials(a questionnaire.Answers) []Concern {
	var out []Concern
	if a.String("test_runner") == "" {
		out = append(out, Concern{
			Severity:   review.SeverityMedium,
			Category:   review.CategoryMissing,
			Message:    "No test command configured",
			Suggestion: "Set a test command so the assistant can verify its changes",
		})
	}
	if a.String("build_command") == "" {
		out = append(out, Concern{
			Severity:   review.SeverityLow,
			Category:   review.CategoryMissing,
			Message:    "No build command configured",
			Suggestion: "Set a build command for pre-commit verification",
		})
	}
	return out
}

// score starts at 100 and deducts per concern, weighted by severity.
func score(concerns []Concern) int {
	s := 100
	for _, c := range concerns {
		switch c.Severity {
		case review.SeverityCritical:
			s -= 30
		case review.SeverityHigh:
			s -= 20
		case review.SeverityMedium:
			s -= 10
		case review.SeverityLow:
			s -= 5
		}
	}
	if s < 0 {
		s = 0
	}
	return s
}
