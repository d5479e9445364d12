package validator

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dshills/loom/internal/redact"
	"github.com/dshills/loom/internal/review"
)

// Issue is one structural problem found in an artifact set.
type Issue struct {
	Severity review.Severity `json:"severity"`
	Path     string          `json:"path"`
	Message  string          `json:"message"`
}

// Report is the outcome of validating an artifact set.
type Report struct {
	Issues []Issue `json:"issues"`
}

// OK reports whether nothing blocks shipping: no critical or high issues.
func (r Report) OK() bool {
	for _, issue := range r.Issues {
		if review.SeverityRank(issue.Severity) >= review.SeverityRank(review.SeverityHigh) {
			return false
		}
	}
	return true
}

// Validate runs every structural check over the artifact files. Validation is
// deterministic and offline; it complements, not replaces, AI review.
func Validate(files []review.File) Report {
	var rep Report
	byPath := make(map[string]string, len(files))
	for _, f := range files {
		byPath[f.Path] = f.Content
	}

	rep.Issues = append(rep.Issues, checkClaudeMD(byPath)...)
	rep.Issues = append(rep.Issues, checkSettings(byPath)...)
	rep.Issues = append(rep.Issues, checkModels(byPath)...)
	rep.Issues = append(rep.Issues, checkDefinitions(files)...)
	rep.Issues = append(rep.Issues, checkSecrets(files)...)
	return rep
}

func checkClaudeMD(byPath map[string]string) []Issue {
	content, ok := byPath["CLAUDE.md"]
	if !ok {
		return []Issue{{
			Severity: review.SeverityCritical,
			Path:     "CLAUDE.md",
			Message:  "instruction file is missing",
		}}
	}
	var out []Issue
	if strings.TrimSpace(content) == "" {
		return []Issue{{
			Severity: review.SeverityCritical,
			Path:     "CLAUDE.md",
			Message:  "instruction file is empty",
		}}
	}
	for _, section := range []string{"Project", "Commands", "Security"} {
		if !strings.Contains(content, "## "+section) {
			out = append(out, Issue{
				Severity: review.SeverityMedium,
				Path:     "CLAUDE.md",
				Message:  fmt.Sprintf("missing %q section", section),
			})
		}
	}
	if lines := strings.Count(content, "\n"); lines > 400 {
		out = append(out, Issue{
			Severity: review.SeverityLow,
			Path:     "CLAUDE.md",
			Message:  fmt.Sprintf("instruction file is long (%d lines); consider moving detail into commands", lines),
		})
	}
	return out
}

type settingsDoc struct {
	Permissions struct {
		Allow []string `json:"allow"`
		Deny  []string `json:"deny"`
	} `json:"permissions"`
	Hooks map[string][]struct {
		Matcher string `json:"matcher"`
		Hooks   []struct {
			Type    string `json:"type"`
			Command string `json:"command"`
		} `json:"hooks"`
	} `json:"hooks"`
}

func checkSettings(byPath map[string]string) []Issue {
	path := filepath.Join(".claude", "settings.json")
	content, ok := byPath[path]
	if !ok {
		return []Issue{{
			Severity: review.SeverityHigh,
			Path:     path,
			Message:  "settings file is missing",
		}}
	}

	var doc settingsDoc
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return []Issue{{
			Severity: review.SeverityCritical,
			Path:     path,
			Message:  fmt.Sprintf("settings file is not valid JSON: %v", err),
		}}
	}

	var out []Issue
	if len(doc.Permissions.Deny) == 0 {
		out = append(out, Issue{
			Severity: review.SeverityHigh,
			Path:     path,
			Message:  "no deny rules configured; destructive commands are unrestricted",
		})
	}

	denied := make(map[string]bool, len(doc.Permissions.Deny))
	for _, rule := range doc.Permissions.Deny {
		denied[rule] = true
	}
	for _, rule := range doc.Permissions.Allow {
		if denied[rule] {
			out = append(out, Issue{
				Severity: review.SeverityHigh,
				Path:     path,
				Message:  fmt.Sprintf("rule %q appears in both allow and deny", rule),
			})
		}
	}

	for event, matchers := range doc.Hooks {
		for _, m := range matchers {
			for _, h := range m.Hooks {
				if strings.TrimSpace(h.Command) == "" {
					out = append(out, Issue{
						Severity: review.SeverityMedium,
						Path:     path,
						Message:  fmt.Sprintf("%s hook has an empty command", event),
					})
				}
			}
		}
	}
	return out
}

func checkModels(byPath map[string]string) []Issue {
	content, ok := byPath["models.json"]
	if !ok {
		return nil // models registry is optional
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return []Issue{{
			Severity: review.SeverityHigh,
			Path:     "models.json",
			Message:  fmt.Sprintf("not valid JSON: %v", err),
		}}
	}
	return nil
}

// checkDefinitions validates agent and command files: front matter present,
// non-empty body.
func checkDefinitions(files []review.File) []Issue {
	var out []Issue
	for _, f := range files {
		dir := filepath.Dir(f.Path)
		if dir != filepath.Join(".claude", "agents") && dir != filepath.Join(".claude", "commands") {
			continue
		}
		if !strings.HasPrefix(f.Content, "---\n") {
			out = append(out, Issue{
				Severity: review.SeverityMedium,
				Path:     f.Path,
				Message:  "definition is missing YAML front matter",
			})
			continue
		}
		rest := f.Content[4:]
		end := strings.Index(rest, "\n---")
		if end < 0 {
			out = append(out, Issue{
				Severity: review.SeverityMedium,
				Path:     f.Path,
				Message:  "front matter is not closed",
			})
			continue
		}
		body := rest[end+4:]
		if strings.TrimSpace(body) == "" {
			out = append(out, Issue{
				Severity: review.SeverityMedium,
				Path:     f.Path,
				Message:  "definition has no body",
			})
		}
	}
	return out
}

func checkSecrets(files []review.File) []Issue {
	var out []Issue
	for _, f := range files {
		if redact.HasSecrets(f.Content) {
			out = append(out, Issue{
				Severity: review.SeverityCritical,
				Path:     f.Path,
				Message:  "file contains what looks like a secret; reference environment variables instead",
			})
		}
	}
	return out
}
