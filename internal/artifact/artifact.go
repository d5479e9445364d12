package artifact

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dshills/loom/internal/review"
)

// Per-file cap: configuration files are small; anything larger is
// truncated rather than rejected so one oversized file cannot block review.
const maxFileBytes = 64 * 1024

// reviewable lists the file shapes that form a configuration artifact.
var reviewableNames = map[string]bool{
	"CLAUDE.md":   true,
	"models.json": true,
}

// Snapshot is an immutable, ordered view of a configuration tree at one
// point in time. The review engine treats it as opaque input.
type Snapshot struct {
	Root  string
	Files []review.File
}

// Load walks a configuration directory and captures its reviewable files in
// deterministic path order. It returns an error if the root does not exist
// or contains nothing reviewable.
func Load(root string) (*Snapshot, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading artifact root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("artifact root %s is not a directory", root)
	}

	var files []review.File
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !reviewable(rel) {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", rel, err)
		}
		text := string(content)
		if len(text) > maxFileBytes {
			text = text[:maxFileBytes]
		}
		files = append(files, review.File{Path: rel, Content: text})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no reviewable configuration files under %s", root)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return &Snapshot{Root: root, Files: files}, nil
}

// FromFiles builds a snapshot from in-memory generated files, preserving
// deterministic order.
func FromFiles(root string, files []review.File) *Snapshot {
	sorted := make([]review.File, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })
	return &Snapshot{Root: root, Files: sorted}
}

// Request converts the snapshot into a review request with a fresh
// correlation ID. The deadline is applied later by the review session.
func (s *Snapshot) Request() review.Request {
	return review.NewRequest(s.Root, s.Files, time.Time{})
}

func skipDir(name string) bool {
	if name == ".claude" {
		return false
	}
	return strings.HasPrefix(name, ".") || name == "node_modules" || name == "vendor"
}

// reviewable keeps the snapshot to configuration content: top-level known
// files plus everything under .claude/.
func reviewable(rel string) bool {
	if reviewableNames[rel] {
		return true
	}
	if strings.HasPrefix(rel, ".claude/") {
		ext := filepath.Ext(rel)
		return ext == ".json" || ext == ".md" || ext == ".yaml" || ext == ".yml"
	}
	return strings.HasSuffix(rel, ".md") && !strings.Contains(rel, "/")
}
