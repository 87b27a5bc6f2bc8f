package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/stonehive/hivehook/internal/policy"
)

var checkCmd = &cobra.Command{
	Use:   "check COMMAND",
	Short: "Evaluate a command against the rule catalog without an envelope",
	Long: `Runs a single command string through the safety gate and reports the
decision. Nothing is executed. Useful for testing rule overlays:

  hivehook check "rm -rf /"
  hivehook check "sudo apt update"

Prints a readable report on a terminal, decision JSON otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	decision := policy.Compose(policy.Evaluate(args[0], reg))

	if term.IsTerminal(int(os.Stdout.Fd())) {
		printReport(cmd, args[0], decision)
		return nil
	}
	return json.NewEncoder(cmd.OutOrStdout()).Encode(decision)
}

func printReport(cmd *cobra.Command, command string, d policy.Decision) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Command:  %s\n", command)
	fmt.Fprintf(out, "Decision: %s\n", d.Outcome)
	if d.Reason != "" {
		fmt.Fprintf(out, "Reason:   %s\n", d.Reason)
	}
	for _, w := range d.Warnings {
		fmt.Fprintf(out, "  warning: %s\n", w)
	}
	if d.Pattern != "" {
		fmt.Fprintf(out, "Pattern:  %s\n", d.Pattern)
	}
}
