// Package cli wires the hivehook commands. Each hook subcommand reads a
// JSON envelope on stdin, does its work, and exits 0. Verdicts and
// results travel in the stdout payload, never in the exit status.
package cli

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/stonehive/hivehook/internal/config"
	"github.com/stonehive/hivehook/internal/policy"
)

var (
	flagPolicyPath string
	flagLogPath    string
	flagRelayURL   string
	flagFailClosed bool
)

// diag is the diagnostic logger. Hooks own stdout for payloads, so all
// diagnostics go to stderr.
var diag = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
	Prefix:          "hivehook",
})

var rootCmd = &cobra.Command{
	Use:   "hivehook",
	Short: "Safety gate and session glue for agent hooks",
	Long: `hivehook is the hook suite for agent coding sessions. Its core is a
pre-execution safety gate that validates shell commands against a
two-tier rule catalog before they reach an interpreter. Around it sit
the session glue hooks: notification forwarding, tool-usage audit,
session-state snapshots, and context injection via the Hive relay.

Validation failures default to fail-open: if the gate cannot complete,
the command is allowed with a diagnostic reason rather than stalling
the session. Deployments that prefer blocking on uncertainty set
--fail-closed (or fail_closed in ~/.hivehook/config.yaml).`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagPolicyPath, "policy", "", "path to YAML rule overlay (default: ~/.hivehook/rules.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "path to audit log (default: ~/.hivehook/audit.jsonl)")
	rootCmd.PersistentFlags().StringVar(&flagRelayURL, "relay", "", "relay service URL (default: http://localhost:8600)")
	rootCmd.PersistentFlags().BoolVar(&flagFailClosed, "fail-closed", false, "block instead of allow when validation itself fails")
}

func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	return config.Load(config.Overrides{
		PolicyPath: flagPolicyPath,
		LogPath:    flagLogPath,
		RelayURL:   flagRelayURL,
		FailClosed: flagFailClosed,
	})
}

// buildRegistry compiles the built-in catalog plus the optional overlay.
func buildRegistry(cfg *config.Config) (*policy.Registry, error) {
	return policy.LoadOverlay(cfg.PolicyPath, policy.Default())
}
