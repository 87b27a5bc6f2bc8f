package cli

import (
	"encoding/json"
	"fmt"
	"io"

	shellwords "github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"

	"github.com/stonehive/hivehook/internal/hook"
	"github.com/stonehive/hivehook/internal/logger"
	"github.com/stonehive/hivehook/internal/policy"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "PreToolUse hook: validate a shell command before execution",
	Long: `Reads a PreToolUse envelope from stdin, runs the command through the
safety rule catalog, and prints the decision JSON on stdout.

Only Bash tool calls are validated; every other tool passes through with
a minimal allow. The process always exits 0; the orchestrator must read
the decision payload, not the exit code.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		raw = nil // adapter turns unreadable input into a parse-failure decision
	}

	res := validateRaw(raw)

	enc := json.NewEncoder(cmd.OutOrStdout())
	if err := enc.Encode(res.Decision); err != nil {
		// Exit status stays 0 even here: the orchestrator treats a
		// non-zero exit as a hook fault, not a verdict.
		diag.Error("encode decision failed", "err", err)
	}
	return nil
}

// validateRaw runs the full gate: config, registry, adapter, audit. Any
// setup failure is converted into a decision so the hook always emits one.
func validateRaw(raw []byte) hook.Result {
	cfg, err := loadConfig()
	if err != nil {
		return failureResult(fmt.Sprintf("Hook error: %v", err), flagFailClosed)
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		return failureResult(fmt.Sprintf("Hook error: %v", err), cfg.FailClosed)
	}

	adapter := hook.NewAdapter(reg)
	adapter.FailClosed = cfg.FailClosed
	res := adapter.Handle(raw)

	auditDecision(cfg.LogPath, res)
	return res
}

func failureResult(reason string, failClosed bool) hook.Result {
	outcome := policy.OutcomeAllow
	if failClosed {
		outcome = policy.OutcomeBlock
	}
	return hook.Result{Decision: policy.Decision{
		Outcome: outcome,
		Reason:  reason,
		Class:   policy.ClassInternalFailure,
	}}
}

// auditDecision appends the decision to the local JSONL trail.
// Best-effort: audit problems are diagnostics, never verdict changes.
func auditDecision(logPath string, res hook.Result) {
	if res.Envelope.ToolName != hook.MonitoredTool || res.Envelope.ToolInput.Command == "" {
		return
	}

	audit, err := logger.New(logPath)
	if err != nil {
		diag.Warn("audit log unavailable", "err", err)
		return
	}
	defer func() {
		_ = audit.Close()
	}()

	command := res.Envelope.ToolInput.Command
	args, err := shellwords.Parse(command)
	if err != nil {
		args = []string{command}
	}

	event := logger.Event{
		SessionID: res.Envelope.SessionID,
		Command:   command,
		Args:      args,
		Decision:  string(res.Decision.Outcome),
		Class:     res.Decision.Class.String(),
		Reason:    res.Decision.Reason,
		Warnings:  res.Decision.Warnings,
		Pattern:   res.Decision.Pattern,
	}
	if err := audit.Log(event); err != nil {
		diag.Warn("audit write failed", "err", err)
	}
}
