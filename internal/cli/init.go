package cli

import (
	"fmt"
	"os"

	"github.com/boardguard/boardguard/internal/config"
	"github.com/boardguard/boardguard/internal/policy"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter policy file",
	Long: `Write a starter policy.yaml with common zero-access paths and an
example protected store. Without a policy file every edit is allowed.

  boardguard init`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing policy file")
	rootCmd.AddCommand(initCmd)
}

func initCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(policyPath, logPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if _, err := os.Stat(cfg.PolicyPath); err == nil && !initForce {
		return fmt.Errorf("policy file already exists at %s (use --force to overwrite)", cfg.PolicyPath)
	}

	data, err := yaml.Marshal(policy.StarterPolicy())
	if err != nil {
		return fmt.Errorf("failed to marshal starter policy: %w", err)
	}

	if err := os.WriteFile(cfg.PolicyPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write policy file: %w", err)
	}

	fmt.Printf("Wrote starter policy to %s\n", cfg.PolicyPath)
	fmt.Println("Edit the path lists to match your environment, then run `boardguard setup claude-code`.")
	return nil
}
