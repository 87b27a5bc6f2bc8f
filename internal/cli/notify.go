package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/stonehive/hivehook/internal/relay"
)

// notifyInput is the Notification hook envelope. The full payload also
// lands in raw so the relay keeps every field as metadata.
type notifyInput struct {
	Message string `json:"message"`
	Type    string `json:"type"`

	raw map[string]any
}

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification hook: forward notifications to the relay and UI",
	Long: `Reads a Notification envelope from stdin and forwards it to the relay
for persistence and to the UI endpoint for real-time display. Only
actionable levels (error, warning, task_complete, task_failed, message,
alert) are forwarded. Relay outages are swallowed; the hook never fails
the session.`,
	RunE: runNotify,
}

func init() {
	rootCmd.AddCommand(notifyCmd)
}

func runNotify(cmd *cobra.Command, args []string) error {
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil
	}

	var input notifyInput
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil
	}
	_ = json.Unmarshal(raw, &input.raw)

	if input.Type == "" {
		input.Type = "info"
	}
	if !relay.ShouldForward(input.Type) {
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		diag.Warn("config load failed", "err", err)
		return nil
	}

	client := relay.New(cfg.RelayURL, relay.WithUI(cfg.UIURL), relay.WithLogger(diag))
	n := relay.Notification{
		Type:     "notification",
		Source:   "claude-code",
		Content:  input.Message,
		Level:    input.Type,
		Metadata: input.raw,
	}
	if err := client.PostNotification(context.Background(), n); err != nil {
		diag.Warn("notification forward failed", "err", err)
	}
	return nil
}
