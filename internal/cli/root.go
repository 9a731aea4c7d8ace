package cli

import (
	"github.com/spf13/cobra"
)

var (
	policyPath string
	logPath    string
)

var rootCmd = &cobra.Command{
	Use:   "boardguard",
	Short: "boardguard - edit-time guardrail for agent task boards",
	Long: `boardguard vets file edits proposed by a coding agent before they are
applied: it enforces zero-access and read-only path rules, and protects
task-board record stores from silent record deletion. Deleting a tracked
record requires a single-use authorization token granted out-of-band.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&policyPath, "policy", "", "Path to policy YAML file (default: ~/.boardguard/policy.yaml)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "Path to audit log file (default: ~/.boardguard/audit.jsonl)")
}

func Execute() error {
	return rootCmd.Execute()
}
