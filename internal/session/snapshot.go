// Package session builds working-state snapshots so context survives
// compaction and new sessions.
package session

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	gitTimeout = 5 * time.Second

	// Truncation limits keep snapshots small enough to inject back into
	// a session prompt.
	maxStatusLen = 500
	maxDiffLen   = 500
	maxPlanLen   = 2000
)

// GitContext captures the repository state at snapshot time.
type GitContext struct {
	Branch             string `json:"branch"`
	Status             string `json:"status"`
	RecentCommits      string `json:"recent_commits"`
	UncommittedChanges string `json:"uncommitted_changes"`
}

// Plan is the most recently edited plan document, when one exists.
type Plan struct {
	File    string `json:"file"`
	Content string `json:"content"`
}

// Snapshot is the state payload stored in the relay at session stop.
type Snapshot struct {
	Type       string     `json:"type"`
	SessionID  string     `json:"session_id"`
	Timestamp  string     `json:"timestamp"`
	Git        GitContext `json:"git"`
	Plan       *Plan      `json:"plan"`
	WorkingDir string     `json:"working_dir"`
}

// Collector gathers snapshot inputs. The git runner is swappable so tests
// never shell out.
type Collector struct {
	RepoRoot string
	PlanDir  string

	runGit func(args ...string) string
}

// NewCollector builds a collector rooted at repoRoot.
func NewCollector(repoRoot, planDir string) *Collector {
	c := &Collector{RepoRoot: repoRoot, PlanDir: planDir}
	c.runGit = c.execGit
	return c
}

// Collect builds a snapshot. Individual probes failing just leave their
// fields empty; a snapshot with holes still beats no snapshot.
func (c *Collector) Collect(sessionID string) Snapshot {
	return Snapshot{
		Type:      "session_state",
		SessionID: sessionID,
		Timestamp: time.Now().Format(time.RFC3339),
		Git: GitContext{
			Branch:             c.runGit("branch", "--show-current"),
			Status:             truncate(c.runGit("status", "--short"), maxStatusLen),
			RecentCommits:      c.runGit("log", "--oneline", "-5"),
			UncommittedChanges: truncate(c.runGit("diff", "--stat", "HEAD"), maxDiffLen),
		},
		Plan:       c.activePlan(),
		WorkingDir: os.Getenv("CLAUDE_PROJECT_DIR"),
	}
}

func (c *Collector) execGit(args ...string) string {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.RepoRoot
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// activePlan returns the most recently modified plan markdown with real
// content, skipping empty templates.
func (c *Collector) activePlan() *Plan {
	if c.PlanDir == "" {
		return nil
	}
	entries, err := os.ReadDir(c.PlanDir)
	if err != nil {
		return nil
	}

	type candidate struct {
		name string
		mod  time.Time
	}
	var plans []candidate
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		plans = append(plans, candidate{name: e.Name(), mod: info.ModTime()})
	}
	if len(plans) == 0 {
		return nil
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].mod.After(plans[j].mod) })

	content, err := os.ReadFile(filepath.Join(c.PlanDir, plans[0].name))
	if err != nil {
		return nil
	}
	if len(strings.TrimSpace(string(content))) <= 50 {
		return nil
	}
	return &Plan{File: plans[0].name, Content: truncate(string(content), maxPlanLen)}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
