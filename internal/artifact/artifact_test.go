package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/loom/internal/review"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "CLAUDE.md", "# Config")
	writeFile(t, root, "models.json", "{}")
	writeFile(t, root, ".claude/settings.json", "{}")
	writeFile(t, root, ".claude/agents/reviewer.md", "---\nname: reviewer\n---\nbody")
	writeFile(t, root, "node_modules/pkg/readme.md", "should be skipped")
	writeFile(t, root, ".claude/cache.bin", "not reviewable")
	writeFile(t, root, "src/main.go", "not reviewable")

	snap, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []string{
		".claude/agents/reviewer.md",
		".claude/settings.json",
		"CLAUDE.md",
		"models.json",
	}
	if len(snap.Files) != len(want) {
		t.Fatalf("got %d files %v, want %d", len(snap.Files), paths(snap.Files), len(want))
	}
	for i, p := range want {
		if snap.Files[i].Path != p {
			t.Errorf("file[%d] = %s, want %s", i, snap.Files[i].Path, p)
		}
	}
}

func paths(files []review.File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

func TestLoadEmpty(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.go", "package main")
	if _, err := Load(root); err == nil {
		t.Error("expected error for directory with nothing reviewable")
	}
}

func TestLoadMissingRoot(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestFromFilesSorts(t *testing.T) {
	snap := FromFiles("cfg", []review.File{
		{Path: "b.md"}, {Path: "a.md"},
	})
	if snap.Files[0].Path != "a.md" || snap.Files[1].Path != "b.md" {
		t.Errorf("files not sorted: %v", paths(snap.Files))
	}
}

func TestSnapshotRequest(t *testing.T) {
	snap := FromFiles("cfg", []review.File{{Path: "CLAUDE.md", Content: "# x"}})
	req := snap.Request()
	if req.CorrelationID == "" {
		t.Error("request missing correlation id")
	}
	if req.Root != "cfg" || len(req.Files) != 1 {
		t.Errorf("request = %+v", req)
	}

	// Each request gets a fresh correlation id.
	if snap.Request().CorrelationID == req.CorrelationID {
		t.Error("correlation id reused across requests")
	}
}
