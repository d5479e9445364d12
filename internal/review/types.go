package review

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Severity represents the severity level of a finding.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ParseSeverity normalizes a severity string from a provider response.
// Unknown values map to medium rather than being dropped.
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return Severity(s)
	default:
		return SeverityMedium
	}
}

// Category represents the type of configuration issue.
type Category string

const (
	CategorySecurity     Category = "security"
	CategoryBestPractice Category = "best_practice"
	CategoryMissing      Category = "missing"
	CategoryImprovement  Category = "improvement"
)

// ParseCategory normalizes a category string from a provider response.
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategorySecurity, CategoryBestPractice, CategoryMissing, CategoryImprovement:
		return Category(s)
	default:
		return CategoryImprovement
	}
}

// Finding is one issue reported against a location in the artifact.
// Sources lists every reviewer that independently reported it; the set grows
// as duplicates merge and never shrinks.
type Finding struct {
	ID         string   `json:"id"`
	Severity   Severity `json:"severity"`
	Category   Category `json:"category"`
	Path       string   `json:"path,omitempty"`
	Line       int      `json:"line,omitempty"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources"`
}

// FindingID derives a stable identifier from the finding's location and message.
func FindingID(f Finding) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%s", f.Path, f.Line, f.Message)))
	return fmt.Sprintf("%x", h[:8])
}

// FailureReason classifies why a reviewer invocation produced no findings.
type FailureReason string

const (
	FailTimeout     FailureReason = "timeout"
	FailTransport   FailureReason = "transport-error"
	FailMalformed   FailureReason = "malformed-response"
	FailRateLimited FailureReason = "rate-limited"
)

// Outcome is the tagged result of one reviewer invocation. Exactly one
// reviewer owns each outcome. Reason is empty on success.
type Outcome struct {
	Reviewer  string        `json:"reviewer"`
	Findings  []Finding     `json:"findings,omitempty"`
	Reason    FailureReason `json:"reason,omitempty"`
	Detail    string        `json:"detail,omitempty"`
	ElapsedMs int64         `json:"elapsedMs"`
}

// OK reports whether the reviewer produced findings successfully.
func (o Outcome) OK() bool { return o.Reason == "" }

// Verdict is the overall result of a consensus run.
type Verdict string

const (
	VerdictPass Verdict = "pass"
	VerdictFail Verdict = "fail"
	// VerdictIndeterminate means no reviewer produced a usable result. It is
	// distinct from pass: no signal was obtained at all.
	VerdictIndeterminate Verdict = "indeterminate"
)

// SeverityCounts holds finding counts by severity level.
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Summary provides an overview of the merged finding set.
type Summary struct {
	Total           int            `json:"total"`
	Counts          SeverityCounts `json:"counts"`
	HighestSeverity Severity       `json:"highestSeverity,omitempty"`
}

// Report is the immutable output of one consensus run. It is created fresh per
// review cycle and never mutated after construction.
type Report struct {
	CorrelationID string    `json:"correlationId"`
	Verdict       Verdict   `json:"verdict"`
	Findings      []Finding `json:"findings"`
	Reviewers     []Outcome `json:"reviewers"`
	Summary       Summary   `json:"summary"`
	CreatedAt     time.Time `json:"createdAt"`
	ElapsedMs     int64     `json:"elapsedMs"`
}

// ComputeSummary calculates the summary from a merged finding set.
func ComputeSummary(findings []Finding) Summary {
	s := Summary{Total: len(findings)}
	for _, f := range findings {
		switch f.Severity {
		case SeverityCritical:
			s.Counts.Critical++
		case SeverityHigh:
			s.Counts.High++
		case SeverityMedium:
			s.Counts.Medium++
		case SeverityLow:
			s.Counts.Low++
		}
		if SeverityRank(f.Severity) > SeverityRank(s.HighestSeverity) {
			s.HighestSeverity = f.Severity
		}
	}
	return s
}

// ComputeVerdict applies the union rule: any critical or high finding fails
// the review, even when only a single reviewer reported it.
func ComputeVerdict(findings []Finding) Verdict {
	for _, f := range findings {
		if SeverityRank(f.Severity) >= SeverityRank(SeverityHigh) {
			return VerdictFail
		}
	}
	return VerdictPass
}
