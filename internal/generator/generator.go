package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dshills/loom/internal/analyzer"
	"github.com/dshills/loom/internal/questionnaire"
	"github.com/dshills/loom/internal/research"
	"github.com/dshills/loom/internal/review"
)

// Input carries everything the generator draws on. Patterns and Research are
// optional; absent, the generator falls back to its own defaults.
type Input struct {
	Answers  questionnaire.Answers
	Patterns *analyzer.Patterns
	Research *research.Results
}

// Output is the generated artifact set, held in memory until written.
type Output struct {
	Name  string
	Files []review.File
}

// File returns the content of the file at path, or ("", false).
func (o *Output) File(path string) (string, bool) {
	for _, f := range o.Files {
		if f.Path == path {
			return f.Content, true
		}
	}
	return "", false
}

func (o *Output) setFile(path, content string) {
	for i, f := range o.Files {
		if f.Path == path {
			o.Files[i].Content = content
			return
		}
	}
	o.Files = append(o.Files, review.File{Path: path, Content: content})
}

// Generate renders the full artifact set from the input. File order is
// deterministic: CLAUDE.md first, then settings, then definitions by path.
func Generate(in Input) (*Output, error) {
	name := in.Answers.String("config_name")
	if name == "" {
		return nil, fmt.Errorf("generate: config_name is required")
	}

	out := &Output{Name: name}
	out.setFile("CLAUDE.md", renderClaudeMD(in))
	out.setFile(filepath.Join(".claude", "settings.json"), renderSettings(in))
	out.setFile("models.json", renderModels())

	for _, agent := range in.Answers.List("enable_agents") {
		out.setFile(
			filepath.Join(".claude", "agents", agent+".md"),
			renderAgent(agent, in),
		)
	}
	for _, cmd := range in.Answers.List("enable_commands") {
		out.setFile(
			filepath.Join(".claude", "commands", cmd+".md"),
			renderCommand(cmd, in),
		)
	}
	if in.Answers.Bool("enable_memory") {
		out.setFile(filepath.Join(".claude", "memory", "MEMORY.md"), renderMemory(in))
	}

	sortFiles(out)
	return out, nil
}

func sortFiles(out *Output) {
	sort.Slice(out.Files, func(i, j int) bool {
		// CLAUDE.md leads, everything else sorts by path.
		if out.Files[i].Path == "CLAUDE.md" {
			return true
		}
		if out.Files[j].Path == "CLAUDE.md" {
			return false
		}
		return out.Files[i].Path < out.Files[j].Path
	})
}

// ApplyImprovements folds review suggestions back into the artifact set for
// the next cycle. Suggestions targeting a generated markdown file are appended
// to that file; everything else lands in CLAUDE.md. Returns how many
// suggestions were applied.
func ApplyImprovements(out *Output, findings []review.Finding) int {
	perFile := make(map[string][]string)
	for _, f := range findings {
		if strings.TrimSpace(f.Suggestion) == "" {
			continue
		}
		target := "CLAUDE.md"
		if f.Path != "" && strings.HasSuffix(f.Path, ".md") {
			if _, ok := out.File(f.Path); ok {
				target = f.Path
			}
		}
		perFile[target] = append(perFile[target], f.Suggestion)
	}

	applied := 0
	paths := make([]string, 0, len(perFile))
	for path := range perFile {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		content, ok := out.File(path)
		if !ok {
			continue
		}
		var b strings.Builder
		b.WriteString(strings.TrimRight(content, "\n"))
		b.WriteString("\n\n## Review Follow-ups\n\n")
		for _, s := range perFile[path] {
			fmt.Fprintf(&b, "- %s\n", s)
			applied++
		}
		out.setFile(path, b.String())
	}
	return applied
}

// WriteConfig writes the artifact set under dir/<Name>. Existing files are
// overwritten; the caller decides whether that is acceptable.
func WriteConfig(out *Output, dir string) (string, error) {
	root := filepath.Join(dir, out.Name)
	for _, f := range out.Files {
		full := filepath.Join(root, f.Path)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return "", fmt.Errorf("creating %s: %w", filepath.Dir(full), err)
		}
		if err := os.WriteFile(full, []byte(f.Content), 0o644); err != nil {
			return "", fmt.Errorf("writing %s: %w", full, err)
		}
	}
	return root, nil
}
