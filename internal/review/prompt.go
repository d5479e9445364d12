package review

import (
	"encoding/json"
	"fmt"
	"strings"
)

const systemPrompt = `You are a strict, expert reviewer of AI coding-assistant project configurations. Your job is to review configuration files and produce structured issues in JSON format.

Rules:
1. Review for security problems (permissions too broad, missing denials, exposed secrets), best practice violations, missing essential components, and improvement opportunities.
2. Be concise and actionable. Every issue must include a concrete suggestion.
3. Reference the file path, and a line number when the issue is anchored to one.
4. Rate severity as "critical", "high", "medium", or "low".
5. Rate your confidence from 0.0 to 1.0. Only include issues with confidence 0.8 or above.
6. Categorize each issue as one of: security, best_practice, missing, improvement.

You MUST respond with ONLY a JSON object. No markdown, no explanation, no preamble.

The object must have this exact structure:
{
  "issues": [
    {
      "severity": "critical|high|medium|low",
      "category": "security|best_practice|missing|improvement",
      "message": "what is wrong and why it matters",
      "suggestion": "how to fix it",
      "file": "relative/file/path",
      "line": 1,
      "confidence": 0.0-1.0
    }
  ]
}

If there are no issues, respond with {"issues": []}`

// Per-file cap keeps the prompt inside every provider's context window.
const maxFileBytes = 8192

// minConfidence drops low-confidence speculation before it reaches the
// deduplicator.
const minConfidence = 0.8

// SystemPrompt returns the system prompt shared by all reviewers.
func SystemPrompt() string { return systemPrompt }

// BuildUserPrompt renders the artifact files into the review prompt.
func BuildUserPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Review the following generated configuration.\n")
	if req.Root != "" {
		fmt.Fprintf(&b, "Configuration root: %s\n", req.Root)
	}
	fmt.Fprintf(&b, "Files: %d\n", len(req.Files))
	for _, f := range req.Files {
		content := f.Content
		if len(content) > maxFileBytes {
			content = content[:maxFileBytes] + "\n[truncated]"
		}
		fmt.Fprintf(&b, "\n=== %s ===\n%s\n", f.Path, content)
	}
	return b.String()
}

// rawIssue is the JSON structure returned by providers.
type rawIssue struct {
	Severity   string  `json:"severity"`
	Category   string  `json:"category"`
	Message    string  `json:"message"`
	Suggestion string  `json:"suggestion"`
	File       string  `json:"file"`
	Line       int     `json:"line"`
	Confidence float64 `json:"confidence"`
}

type rawResponse struct {
	Issues []rawIssue `json:"issues"`
}

// ParseFindings decodes a provider response into findings attributed to
// source. Markdown code fences are tolerated; anything else that fails to
// decode is a malformed response.
func ParseFindings(content, source string) ([]Finding, error) {
	content = stripFences(strings.TrimSpace(content))

	// Some providers wrap the object in prose despite instructions; recover
	// the outermost object before giving up.
	if !strings.HasPrefix(content, "{") {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("no JSON object in response")
		}
		content = content[start : end+1]
	}

	var raw rawResponse
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON object: %w", err)
	}

	findings := make([]Finding, 0, len(raw.Issues))
	for _, r := range raw.Issues {
		if r.Message == "" || r.Confidence < minConfidence {
			continue
		}
		f := Finding{
			Severity:   ParseSeverity(r.Severity),
			Category:   ParseCategory(r.Category),
			Path:       strings.TrimSpace(r.File),
			Line:       r.Line,
			Message:    r.Message,
			Suggestion: r.Suggestion,
			Confidence: r.Confidence,
			Sources:    []string{source},
		}
		f.ID = FindingID(f)
		findings = append(findings, f)
	}
	return findings, nil
}

func stripFences(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return content
	}
	end := len(lines)
	if strings.TrimSpace(lines[end-1]) == "```" {
		end--
	}
	return strings.Join(lines[1:end], "\n")
}
