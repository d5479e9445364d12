package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Agent is an agent definition extracted from an existing config tree.
type Agent struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source"`
}

// Command is a slash-command definition extracted from an existing tree.
type Command struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source"`
}

// Hook is a lifecycle hook extracted from a settings file.
type Hook struct {
	Event   string `json:"event"`
	Command string `json:"command"`
	Purpose string `json:"purpose"`
	Source  string `json:"source"`
}

// Patterns aggregates what was learned from every scanned config tree. The
// generator uses it to keep new configs consistent with existing ones.
type Patterns struct {
	ConfigsScanned int            `json:"configsScanned"`
	Sections       map[string]int `json:"sections"`
	AllowRules     map[string]int `json:"allowRules"`
	DenyRules      map[string]int `json:"denyRules"`
	Agents         []Agent        `json:"agents"`
	Commands       []Command      `json:"commands"`
	Hooks          []Hook         `json:"hooks"`
}

// scanConcurrency bounds parallel directory scans.
const scanConcurrency = 4

// Analyze discovers config directories under root and scans them in
// parallel. A root with no config trees yields empty Patterns, not an error.
func Analyze(ctx context.Context, root string) (*Patterns, error) {
	dirs, err := findConfigDirs(root)
	if err != nil {
		return nil, err
	}

	// One result slot per directory; slots are written exactly once.
	results := make([]*Patterns, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scanConcurrency)
	for i, dir := range dirs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := scanDir(dir)
			if err != nil {
				return fmt.Errorf("scanning %s: %w", dir, err)
			}
			results[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := newPatterns()
	for _, p := range results {
		merged.absorb(p)
	}
	merged.ConfigsScanned = len(dirs)
	return merged, nil
}

func newPatterns() *Patterns {
	return &Patterns{
		Sections:   make(map[string]int),
		AllowRules: make(map[string]int),
		DenyRules:  make(map[string]int),
	}
}

func (p *Patterns) absorb(other *Patterns) {
	if other == nil {
		return
	}
	for k, v := range other.Sections {
		p.Sections[k] += v
	}
	for k, v := range other.AllowRules {
		p.AllowRules[k] += v
	}
	for k, v := range other.DenyRules {
		p.DenyRules[k] += v
	}
	p.Agents = append(p.Agents, other.Agents...)
	p.Commands = append(p.Commands, other.Commands...)
	p.Hooks = append(p.Hooks, other.Hooks...)
}

// CommonSections returns section headings seen in at least half the scanned
// configs, most common first.
func (p *Patterns) CommonSections() []string {
	if p.ConfigsScanned == 0 {
		return nil
	}
	var out []string
	for name, count := range p.Sections {
		if count*2 >= p.ConfigsScanned {
			out = append(out, name)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if p.Sections[out[i]] != p.Sections[out[j]] {
			return p.Sections[out[i]] > p.Sections[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

// findConfigDirs locates directories that look like assistant config trees:
// they contain a CLAUDE.md or a .claude directory.
func findConfigDirs(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading configs path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("configs path %s is not a directory", root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("listing configs path: %w", err)
	}

	var dirs []string
	if isConfigDir(root) {
		dirs = append(dirs, root)
	}
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if isConfigDir(dir) {
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func isConfigDir(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, "CLAUDE.md")); err == nil {
		return true
	}
	if info, err := os.Stat(filepath.Join(dir, ".claude")); err == nil && info.IsDir() {
		return true
	}
	return false
}

func scanDir(dir string) (*Patterns, error) {
	p := newPatterns()

	if data, err := os.ReadFile(filepath.Join(dir, "CLAUDE.md")); err == nil {
		scanClaudeMD(p, string(data))
	}
	if data, err := os.ReadFile(filepath.Join(dir, ".claude", "settings.json")); err == nil {
		scanSettings(p, data, dir)
	}
	scanDefinitions(filepath.Join(dir, ".claude", "agents"), dir, func(name, desc, src string) {
		p.Agents = append(p.Agents, Agent{Name: name, Description: desc, Source: src})
	})
	scanDefinitions(filepath.Join(dir, ".claude", "commands"), dir, func(name, desc, src string) {
		p.Commands = append(p.Commands, Command{Name: name, Description: desc, Source: src})
	})
	return p, nil
}

func scanClaudeMD(p *Patterns, content string) {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "## ") {
			p.Sections[strings.TrimPrefix(trimmed, "## ")]++
		}
	}
}

type settingsFile struct {
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

func scanSettings(p *Patterns, data []byte, source string) {
	var s settingsFile
	if err := json.Unmarshal(data, &s); err != nil {
		return // malformed settings contribute nothing
	}
	for _, rule := range s.Permissions.Allow {
		p.AllowRules[rule]++
	}
	for _, rule := range s.Permissions.Deny {
		p.DenyRules[rule]++
	}
	for event, matchers := range s.Hooks {
		for _, m := range matchers {
			for _, h := range m.Hooks {
				p.Hooks = append(p.Hooks, Hook{
					Event:   event,
					Command: h.Command,
					Purpose: inferHookPurpose(h.Command),
					Source:  source,
				})
			}
		}
	}
}

// scanDefinitions reads markdown definition files (agents or commands): the
// name is the filename, the description the first non-heading line.
func scanDefinitions(dir, source string, add func(name, desc, src string)) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".md")
		desc := ""
		if data, err := os.ReadFile(filepath.Join(dir, e.Name())); err == nil {
			desc = firstProse(string(data))
		}
		add(name, desc, source)
	}
}

func firstProse(content string) string {
	inFrontMatter := false
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "---" {
			if i == 0 {
				inFrontMatter = true
			} else {
				inFrontMatter = false
			}
			continue
		}
		if inFrontMatter || trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return trimmed
	}
	return ""
}

func inferHookPurpose(command string) string {
	lower := strings.ToLower(command)
	switch {
	case strings.Contains(lower, "test"):
		return "run tests"
	case strings.Contains(lower, "lint"), strings.Contains(lower, "fmt"), strings.Contains(lower, "format"):
		return "lint/format"
	case strings.Contains(lower, "git"):
		return "git automation"
	default:
		return "automation"
	}
}
