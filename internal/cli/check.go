package cli

import (
	"fmt"
	"strings"

	"github.com/boardguard/boardguard/internal/policy"
	"github.com/spf13/cobra"
)

var (
	checkFile    string
	checkOld     string
	checkNew     string
	checkAll     bool
	checkConsume bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate a hypothetical edit against the current policy",
	Long: `Run the guard against an edit described on the command line, without
any agent involved. Useful for testing policy rules before relying on
them.

By default this is a dry run: deletion tokens are checked but never
consumed. Pass --consume to use them up exactly as a real edit would.

Examples:
  boardguard check --file ~/.ssh/config --old a --new b
  boardguard check --file ~/.backlog/board.json --old '"id": "T-1"' --new ''`,
	RunE: checkCommand,
}

func init() {
	checkCmd.Flags().StringVar(&checkFile, "file", "", "Target file of the hypothetical edit")
	checkCmd.Flags().StringVar(&checkOld, "old", "", "Text the edit would replace")
	checkCmd.Flags().StringVar(&checkNew, "new", "", "Replacement text")
	checkCmd.Flags().BoolVar(&checkAll, "all", false, "Replace every occurrence instead of the first")
	checkCmd.Flags().BoolVar(&checkConsume, "consume", false, "Consume deletion tokens exactly as a real edit would")
	_ = checkCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(checkCmd)
}

func checkCommand(cmd *cobra.Command, args []string) error {
	engine := loadEngine()
	if !checkConsume {
		engine.DryRun()
	}

	decision := engine.Evaluate(policy.EditProposal{
		TargetPath:      checkFile,
		PriorText:       checkOld,
		ReplacementText: checkNew,
		ReplaceAll:      checkAll,
	})

	if decision.Blocked {
		fmt.Println("Decision: BLOCK")
		fmt.Println(decision.Reason)
		return nil
	}

	fmt.Println("Decision: ALLOW")
	if len(decision.RemovedIDs) > 0 {
		fmt.Printf("Authorized record deletion(s): %s\n", strings.Join(decision.RemovedIDs, ", "))
		if checkConsume {
			fmt.Println("The deletion tokens for these records were consumed.")
		} else {
			fmt.Println("Tokens were left in place (pass --consume to use them up).")
		}
	}
	return nil
}
