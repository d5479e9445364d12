package cache

import (
	"testing"
)

func TestCachePutGet(t *testing.T) {
	c, err := New(true, t.TempDir(), 3600)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}

	if err := c.Put("key1", "response body"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok := c.Get("key1")
	if !ok || got != "response body" {
		t.Errorf("Get = %q, %v", got, ok)
	}
}

func TestCacheDisabled(t *testing.T) {
	c, err := New(false, "", 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Put("k", "v"); err != nil {
		t.Errorf("Put on disabled cache: %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("disabled cache should always miss")
	}
}

func TestCacheClear(t *testing.T) {
	c, err := New(true, t.TempDir(), 3600)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Put("a", "1")
	c.Put("b", "2")

	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Entries != 2 {
		t.Errorf("entries = %d, want 2", stats.Entries)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	stats, _ = c.GetStats()
	if stats.Entries != 0 {
		t.Errorf("entries after clear = %d, want 0", stats.Entries)
	}
}

func TestCacheKeys(t *testing.T) {
	a := ResearchKey("security", "Go")
	b := ResearchKey("security", "Python")
	c := ResearchKey("workflow", "Go")
	if a == b || a == c {
		t.Error("research keys collide across topic/stack")
	}
	r1 := ReviewKey("openai:gpt-4o", "prompt")
	r2 := ReviewKey("gemini:gemini-1.5-pro", "prompt")
	if r1 == r2 {
		t.Error("review keys collide across reviewers")
	}
	if a == r1 {
		t.Error("research and review keyspaces collide")
	}
}
