package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/stonehive/hivehook/internal/relay"
	"github.com/stonehive/hivehook/internal/session"
)

type sessionInput struct {
	SessionID string `json:"session_id"`
}

var sessionSaveCmd = &cobra.Command{
	Use:   "session-save",
	Short: "Stop hook: snapshot working state to the relay",
	Long: `Captures the working context at session stop (git branch, status,
recent commits, uncommitted changes, and the active plan file) and
stores it in the relay under the session's conversation plus a fixed
latest-state key, so the next session can pick up where this one left
off. Always exits 0; a lost snapshot is not worth failing a session.`,
	RunE: runSessionSave,
}

func init() {
	rootCmd.AddCommand(sessionSaveCmd)
}

func runSessionSave(cmd *cobra.Command, args []string) error {
	sessionID := "unknown"
	if raw, err := io.ReadAll(cmd.InOrStdin()); err == nil {
		var input sessionInput
		if json.Unmarshal(raw, &input) == nil && input.SessionID != "" {
			sessionID = input.SessionID
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		diag.Warn("config load failed", "err", err)
		return nil
	}

	repoRoot := os.Getenv("CLAUDE_PROJECT_DIR")
	if repoRoot == "" {
		repoRoot, _ = os.Getwd()
	}

	collector := session.NewCollector(repoRoot, cfg.PlanDir)
	snap := collector.Collect(sessionID)

	client := relay.New(cfg.RelayURL, relay.WithLogger(diag))
	if err := client.SaveSessionState(context.Background(), sessionID, snap); err != nil {
		diag.Warn("session state save failed", "err", err)
		return nil
	}

	size, _ := json.Marshal(snap)
	fmt.Fprintf(cmd.OutOrStdout(), "Session state saved (%d bytes)\n", len(size))
	return nil
}
