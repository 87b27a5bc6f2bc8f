package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/stonehive/hivehook/internal/relay"
)

// noisyTools are high-frequency, low-value for the audit trail.
var noisyTools = map[string]bool{
	"Read": true,
	"Glob": true,
	"Grep": true,
}

const maxInputSummary = 200

type postToolInput struct {
	ToolName  string          `json:"tool_name"`
	ToolInput json.RawMessage `json:"tool_input"`
	SessionID string          `json:"session_id"`
}

var postToolCmd = &cobra.Command{
	Use:   "posttool",
	Short: "PostToolUse hook: record tool usage in the relay audit trail",
	Long: `Reads a PostToolUse envelope from stdin and posts a truncated usage
record to the relay. Read-only lookup tools (Read, Glob, Grep) are
skipped to keep the trail useful. Always exits 0.`,
	RunE: runPostTool,
}

func init() {
	rootCmd.AddCommand(postToolCmd)
}

func runPostTool(cmd *cobra.Command, args []string) error {
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil
	}

	var input postToolInput
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil
	}
	if input.ToolName == "" {
		input.ToolName = "unknown"
	}
	if noisyTools[input.ToolName] {
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		diag.Warn("config load failed", "err", err)
		return nil
	}

	summary := string(input.ToolInput)
	if len(summary) > maxInputSummary {
		summary = summary[:maxInputSummary]
	}

	client := relay.New(cfg.RelayURL, relay.WithLogger(diag))
	entry := relay.ToolLog{
		Tool:         input.ToolName,
		InputSummary: summary,
		SessionID:    input.SessionID,
		Source:       "claude-code-hook",
	}
	if err := client.PostToolLog(context.Background(), entry); err != nil {
		diag.Debug("tool log post failed", "err", err)
	}
	return nil
}
