package cli

import (
	"fmt"

	"github.com/boardguard/boardguard/internal/approval"
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Manage single-use deletion authorization tokens",
	Long: `A token authorizes exactly one future deletion of a specific record
from a protected store. Tokens are zero-byte marker files in a shared
ephemeral directory; the guard consumes a token when it approves the
matching deletion.`,
}

var tokensGrantCmd = &cobra.Command{
	Use:   "grant <record-id> [<record-id>...]",
	Short: "Grant deletion tokens for the given record identifiers",
	Args:  cobra.MinimumNArgs(1),
	RunE:  tokensGrantCommand,
}

var tokensListCmd = &cobra.Command{
	Use:   "list",
	Short: "List currently granted, unconsumed tokens",
	RunE:  tokensListCommand,
}

var tokensRevokeCmd = &cobra.Command{
	Use:   "revoke <record-id> [<record-id>...]",
	Short: "Revoke unconsumed tokens",
	Args:  cobra.MinimumNArgs(1),
	RunE:  tokensRevokeCommand,
}

func init() {
	tokensCmd.AddCommand(tokensGrantCmd)
	tokensCmd.AddCommand(tokensListCmd)
	tokensCmd.AddCommand(tokensRevokeCmd)
	rootCmd.AddCommand(tokensCmd)
}

func tokensGrantCommand(cmd *cobra.Command, args []string) error {
	engine := loadEngine()
	store := engine.Tokens()

	result := approval.Ask(approval.Prompt{
		RecordIDs: args,
		TokenDir:  store.Dir(),
	})
	if !result.Approved {
		fmt.Println("Cancelled; no tokens granted.")
		return nil
	}

	for _, id := range args {
		if err := store.Grant(id); err != nil {
			return fmt.Errorf("grant %s: %w", id, err)
		}
		fmt.Printf("Granted deletion token for %s (%s)\n", id, store.Path(id))
	}
	return nil
}

func tokensListCommand(cmd *cobra.Command, args []string) error {
	engine := loadEngine()

	ids, err := engine.Tokens().List()
	if err != nil {
		return fmt.Errorf("list tokens: %w", err)
	}
	if len(ids) == 0 {
		fmt.Println("No deletion tokens granted.")
		return nil
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}

func tokensRevokeCommand(cmd *cobra.Command, args []string) error {
	engine := loadEngine()
	store := engine.Tokens()

	for _, id := range args {
		if err := store.Revoke(id); err != nil {
			return fmt.Errorf("revoke %s: %w", id, err)
		}
		fmt.Printf("Revoked token for %s\n", id)
	}
	return nil
}
