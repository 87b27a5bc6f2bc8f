package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func stubGit(responses map[string]string) func(args ...string) string {
	return func(args ...string) string {
		return responses[args[0]]
	}
}

func TestCollect_BuildsSnapshot(t *testing.T) {
	c := NewCollector(t.TempDir(), "")
	c.runGit = stubGit(map[string]string{
		"branch": "feature/policy-gate",
		"status": " M internal/policy/matcher.go",
		"log":    "abc1234 tighten warn tier",
		"diff":   " 1 file changed",
	})

	snap := c.Collect("sess-7")
	if snap.Type != "session_state" || snap.SessionID != "sess-7" {
		t.Errorf("snapshot header wrong: %+v", snap)
	}
	if snap.Git.Branch != "feature/policy-gate" {
		t.Errorf("branch = %q", snap.Git.Branch)
	}
	if snap.Timestamp == "" {
		t.Error("timestamp must be set")
	}
	if snap.Plan != nil {
		t.Errorf("no plan dir configured, got %+v", snap.Plan)
	}
}

func TestCollect_TruncatesLongFields(t *testing.T) {
	c := NewCollector(t.TempDir(), "")
	c.runGit = stubGit(map[string]string{
		"status": strings.Repeat("M file\n", 200),
		"diff":   strings.Repeat("x", 2000),
	})

	snap := c.Collect("s")
	if len(snap.Git.Status) > maxStatusLen {
		t.Errorf("status len = %d, want <= %d", len(snap.Git.Status), maxStatusLen)
	}
	if len(snap.Git.UncommittedChanges) > maxDiffLen {
		t.Errorf("diff len = %d, want <= %d", len(snap.Git.UncommittedChanges), maxDiffLen)
	}
}

func TestActivePlan_PicksMostRecentWithContent(t *testing.T) {
	planDir := t.TempDir()

	old := filepath.Join(planDir, "old.md")
	if err := os.WriteFile(old, []byte(strings.Repeat("old plan content. ", 10)), 0o600); err != nil {
		t.Fatal(err)
	}
	stale := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatal(err)
	}

	fresh := filepath.Join(planDir, "fresh.md")
	if err := os.WriteFile(fresh, []byte(strings.Repeat("fresh plan content. ", 10)), 0o600); err != nil {
		t.Fatal(err)
	}

	c := NewCollector(t.TempDir(), planDir)
	c.runGit = stubGit(nil)

	snap := c.Collect("s")
	if snap.Plan == nil || snap.Plan.File != "fresh.md" {
		t.Errorf("plan = %+v, want fresh.md", snap.Plan)
	}
}

func TestActivePlan_SkipsEmptyTemplates(t *testing.T) {
	planDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(planDir, "stub.md"), []byte("# TODO\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	c := NewCollector(t.TempDir(), planDir)
	c.runGit = stubGit(nil)

	if snap := c.Collect("s"); snap.Plan != nil {
		t.Errorf("near-empty plan must be skipped, got %+v", snap.Plan)
	}
}
