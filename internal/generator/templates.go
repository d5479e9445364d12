package generator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

func renderClaudeMD(in Input) string {
	a := in.Answers
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", a.String("config_name"))
	fmt.Fprintf(&b, "Address the user as %q.\n\n", orDefault(a.String("identity"), "Boss"))

	b.WriteString("## Project\n\n")
	fmt.Fprintf(&b, "- Purpose: %s\n", orDefault(a.String("purpose"), "Solo development"))
	fmt.Fprintf(&b, "- Primary language: %s\n", orDefault(a.String("primary_language"), "unspecified"))
	if fws := a.List("frameworks"); len(fws) > 0 {
		fmt.Fprintf(&b, "- Frameworks: %s\n", strings.Join(fws, ", "))
	}
	if dbs := a.List("database"); len(dbs) > 0 && !onlyNone(dbs) {
		fmt.Fprintf(&b, "- Databases: %s\n", strings.Join(dbs, ", "))
	}
	b.WriteString("\n")

	b.WriteString("## Commands\n\n")
	if test := a.String("test_runner"); test != "" {
		fmt.Fprintf(&b, "- Test: `%s`\n", test)
	} else {
		b.WriteString("- Test: not configured\n")
	}
	if build := a.String("build_command"); build != "" {
		fmt.Fprintf(&b, "- Build: `%s`\n", build)
	}
	b.WriteString("\n")

	b.WriteString("## Working Style\n\n")
	b.WriteString(autonomyGuidance(a.String("autonomy_level")))
	if tasks := a.List("common_tasks"); len(tasks) > 0 {
		fmt.Fprintf(&b, "\nMost common tasks: %s.\n", strings.Join(tasks, ", "))
	}
	b.WriteString("\n")

	b.WriteString("## Security\n\n")
	b.WriteString(securityGuidance(a.String("security_level"), a.String("allow_file_deletion")))
	if a.Bool("has_secrets") {
		b.WriteString("Never print, commit, or paste API keys or other secrets. Reference them by environment variable name only.\n")
	}
	b.WriteString("\n")

	if practices := bestPractices(in); len(practices) > 0 {
		b.WriteString("## Guidelines\n\n")
		for _, p := range practices {
			fmt.Fprintf(&b, "- %s: %s\n", p.Title, p.Detail)
		}
		b.WriteString("\n")
	}

	if sections := inheritedSections(in); len(sections) > 0 {
		for _, s := range sections {
			fmt.Fprintf(&b, "## %s\n\nTODO: fill in from project specifics.\n\n", s)
		}
	}

	if a.Bool("enable_memory") {
		b.WriteString("## Memory\n\nPersistent notes live in .claude/memory/MEMORY.md. Read it at session start; update it when you learn something durable about this project.\n\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func bestPractices(in Input) []struct{ Title, Detail string } {
	if in.Research == nil {
		return nil
	}
	var out []struct{ Title, Detail string }
	for _, p := range in.Research.ByPriority("high") {
		out = append(out, struct{ Title, Detail string }{p.Title, p.Detail})
		if len(out) == 6 {
			break
		}
	}
	return out
}

// inheritedSections picks section headings common across the user's existing
// configs that the generated file does not already cover.
func inheritedSections(in Input) []string {
	if in.Patterns == nil {
		return nil
	}
	covered := map[string]bool{
		"Project": true, "Commands": true, "Working Style": true,
		"Security": true, "Guidelines": true, "Memory": true,
	}
	var out []string
	for _, s := range in.Patterns.CommonSections() {
		if !covered[s] {
			out = append(out, s)
		}
	}
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

func autonomyGuidance(level string) string {
	switch {
	case strings.HasPrefix(level, "Co-founder"):
		return "Work autonomously. Make decisions, implement them, and report what you did. Only stop for destructive or irreversible actions.\n"
	case strings.HasPrefix(level, "Senior dev"):
		return "Work autonomously within a task, but check in before changing scope or touching shared infrastructure.\n"
	case strings.HasPrefix(level, "Junior dev"):
		return "Explain your plan before implementing. Ask when a requirement is ambiguous rather than guessing.\n"
	default:
		return "Wait for explicit instructions before making changes.\n"
	}
}

func securityGuidance(level, deletion string) string {
	var b strings.Builder
	switch {
	case strings.HasPrefix(level, "Maximum"):
		b.WriteString("Maximum strictness: ask before any shell command that mutates state. No network access without approval.\n")
	case strings.HasPrefix(level, "High"):
		b.WriteString("High strictness: destructive commands and pushes require confirmation.\n")
	case strings.HasPrefix(level, "Relaxed"):
		b.WriteString("Relaxed mode: standard development commands are pre-approved.\n")
	default:
		b.WriteString("Standard mode: read and build freely; confirm destructive operations.\n")
	}
	switch {
	case strings.HasPrefix(deletion, "No"):
		b.WriteString("Never delete files.\n")
	case strings.HasPrefix(deletion, "Limited"):
		b.WriteString("Only delete files you created in this session.\n")
	}
	return b.String()
}

// settingsDoc mirrors the settings.json schema the assistant consumes.
type settingsDoc struct {
	Permissions struct {
		Allow []string `json:"allow"`
		Deny  []string `json:"deny"`
	} `json:"permissions"`
	Hooks map[string][]hookMatcher `json:"hooks,omitempty"`
}

type hookMatcher struct {
	Matcher string      `json:"matcher"`
	Hooks   []hookEntry `json:"hooks"`
}

type hookEntry struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

func renderSettings(in Input) string {
	a := in.Answers
	var doc settingsDoc

	doc.Permissions.Allow = allowRules(in)
	doc.Permissions.Deny = denyRules(a.String("security_level"), a.String("allow_file_deletion"), a.Bool("has_secrets"))

	if test := a.String("test_runner"); test != "" {
		doc.Hooks = map[string][]hookMatcher{
			"PostToolUse": {{
				Matcher: "Edit|Write",
				Hooks:   []hookEntry{{Type: "command", Command: test}},
			}},
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		// settingsDoc contains only marshalable types
		return "{}"
	}
	return string(data) + "\n"
}

func allowRules(in Input) []string {
	rules := map[string]bool{
		"Read(**)": true,
		"Grep(**)": true,
		"Glob(**)": true,
	}
	a := in.Answers
	if test := a.String("test_runner"); test != "" {
		rules["Bash("+test+")"] = true
	}
	if build := a.String("build_command"); build != "" {
		rules["Bash("+build+")"] = true
	}
	// Inherit the most common allow rules from existing configs.
	if in.Patterns != nil {
		type rc struct {
			rule  string
			count int
		}
		var ranked []rc
		for rule, count := range in.Patterns.AllowRules {
			if count >= 2 {
				ranked = append(ranked, rc{rule, count})
			}
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].count != ranked[j].count {
				return ranked[i].count > ranked[j].count
			}
			return ranked[i].rule < ranked[j].rule
		})
		for i, r := range ranked {
			if i == 5 {
				break
			}
			rules[r.rule] = true
		}
	}

	out := make([]string, 0, len(rules))
	for rule := range rules {
		out = append(out, rule)
	}
	sort.Strings(out)
	return out
}

func denyRules(security, deletion string, hasSecrets bool) []string {
	rules := []string{
		"Bash(rm -rf /*)",
		"Bash(git push --force*)",
		"Bash(curl * | sh)",
		"Bash(curl * | bash)",
	}
	if strings.HasPrefix(deletion, "No") {
		rules = append(rules, "Bash(rm *)")
	}
	if hasSecrets {
		rules = append(rules, "Read(.env)", "Read(.env.*)", "Read(**/credentials*)")
	}
	if strings.HasPrefix(security, "High") || strings.HasPrefix(security, "Maximum") {
		rules = append(rules, "Bash(git push*)", "WebFetch(*)")
	}
	sort.Strings(rules)
	return rules
}

func renderModels() string {
	doc := map[string]any{
		"providers": map[string]any{
			"anthropic": map[string]string{"default": "claude-sonnet-4-20250514"},
			"openai":    map[string]string{"default": "gpt-4o"},
			"gemini":    map[string]string{"default": "gemini-1.5-pro"},
			"ollama":    map[string]string{"default": "llama3.1"},
		},
	}
	data, _ := json.MarshalIndent(doc, "", "  ")
	return string(data) + "\n"
}

// agentSpecs describes the built-in agent catalog.
var agentSpecs = map[string]struct {
	description string
	body        string
}{
	"code-reviewer": {
		description: "Reviews diffs for correctness, style, and risk before commit.",
		body: `Review the staged changes. For each issue report the file, line, severity,
and a concrete fix. Prioritize correctness bugs and security problems over
style. Approve explicitly when nothing blocks.`,
	},
	"test-writer": {
		description: "Writes tests for new or changed code.",
		body: `Write table-driven tests covering the changed behavior: the happy path,
each documented error, and boundary inputs. Match the existing test style in
the package.`,
	},
	"doc-writer": {
		description: "Keeps documentation in sync with code changes.",
		body: `Update README sections, doc comments, and usage examples affected by the
change. Keep the voice consistent with existing docs.`,
	},
	"security-auditor": {
		description: "Audits changes for security regressions.",
		body: `Check the change for injection risks, secret leakage, path traversal, and
permission widening. Report each concern with severity and a remediation.`,
	},
}

func renderAgent(name string, in Input) string {
	spec, ok := agentSpecs[name]
	if !ok {
		spec.description = "Custom agent."
		spec.body = "Describe this agent's responsibility here."
	}
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "name: %s\n", name)
	fmt.Fprintf(&b, "description: %s\n", spec.description)
	b.WriteString("---\n\n")
	b.WriteString(spec.body)
	b.WriteString("\n")
	if name == "test-writer" {
		if test := in.Answers.String("test_runner"); test != "" {
			fmt.Fprintf(&b, "\nRun `%s` to verify.\n", test)
		}
	}
	return b.String()
}

var commandSpecs = map[string]struct {
	description string
	body        string
}{
	"commit": {
		description: "Stage and commit current work with a clear message.",
		body: `Review the working tree, stage the relevant changes, and commit with a
message describing what changed and why. Never commit secrets or generated
artifacts.`,
	},
	"review": {
		description: "Run a self-review of recent changes.",
		body:        `Act as a reviewer on the current diff. List issues by severity; approve explicitly if clean.`,
	},
	"test": {
		description: "Run the test suite and fix failures.",
		body:        `Run the project's test command. If anything fails, diagnose and fix, then re-run until green.`,
	},
	"ship": {
		description: "Final verification before sharing work.",
		body:        `Run tests and build, review the diff one last time, then summarize the change set for a reviewer.`,
	},
}

func renderCommand(name string, in Input) string {
	spec, ok := commandSpecs[name]
	if !ok {
		spec.description = "Custom command."
		spec.body = "Describe this command here."
	}
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "description: %s\n", spec.description)
	b.WriteString("---\n\n")
	b.WriteString(spec.body)
	b.WriteString("\n")
	if name == "test" || name == "ship" {
		if test := in.Answers.String("test_runner"); test != "" {
			fmt.Fprintf(&b, "\nTest command: `%s`\n", test)
		}
	}
	return b.String()
}

func renderMemory(in Input) string {
	var b strings.Builder
	b.WriteString("# Memory\n\n")
	fmt.Fprintf(&b, "Project: %s\n\n", in.Answers.String("config_name"))
	b.WriteString("One fact per bullet. Keep entries current; delete what stops being true.\n\n")
	b.WriteString("## Facts\n\n")
	b.WriteString("## Decisions\n\n")
	b.WriteString("## Gotchas\n")
	return b.String()
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func onlyNone(items []string) bool {
	for _, it := range items {
		if it != "None" {
			return false
		}
	}
	return true
}
