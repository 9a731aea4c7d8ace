package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const hookMatcher = "Edit|Write|MultiEdit|Bash"

var setupCmd = &cobra.Command{
	Use:   "setup [claude-code]",
	Short: "Install the boardguard hook into Claude Code",
	Long: `Register boardguard as a PreToolUse hook in ~/.claude/settings.json.
Every Edit, Write, MultiEdit, and Bash tool call will then pass through
the guard before it runs.

  boardguard setup claude-code`,
	Args: cobra.MaximumNArgs(1),
	RunE: setupCommand,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func setupCommand(cmd *cobra.Command, args []string) error {
	target := "claude-code"
	if len(args) > 0 {
		target = args[0]
	}
	if target != "claude-code" {
		return fmt.Errorf("unsupported target %q (only claude-code is supported)", target)
	}

	settingsPath := filepath.Join(os.Getenv("HOME"), ".claude", "settings.json")
	if err := installClaudeHook(settingsPath); err != nil {
		return err
	}

	fmt.Printf("✅ boardguard hook installed in %s\n", settingsPath)
	fmt.Println("Restart Claude Code for the hook to take effect.")
	return nil
}

// installClaudeHook merges a PreToolUse entry into settings.json,
// preserving everything else in the file.
func installClaudeHook(settingsPath string) error {
	settings := map[string]interface{}{}
	if data, err := os.ReadFile(settingsPath); err == nil {
		if err := json.Unmarshal(data, &settings); err != nil {
			return fmt.Errorf("existing %s is not valid JSON: %w", settingsPath, err)
		}
	}

	hooks, _ := settings["hooks"].(map[string]interface{})
	if hooks == nil {
		hooks = map[string]interface{}{}
	}

	preToolUse, _ := hooks["PreToolUse"].([]interface{})
	if hookAlreadyInstalled(preToolUse) {
		fmt.Println("boardguard hook already installed.")
		return nil
	}

	preToolUse = append(preToolUse, map[string]interface{}{
		"matcher": hookMatcher,
		"hooks": []interface{}{
			map[string]interface{}{
				"type":    "command",
				"command": "boardguard hook",
			},
		},
	})
	hooks["PreToolUse"] = preToolUse
	settings["hooks"] = hooks

	if err := os.MkdirAll(filepath.Dir(settingsPath), 0700); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(settingsPath), err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(settingsPath, data, 0600)
}

func hookAlreadyInstalled(preToolUse []interface{}) bool {
	for _, entry := range preToolUse {
		raw, err := json.Marshal(entry)
		if err != nil {
			continue
		}
		if strings.Contains(string(raw), "boardguard hook") {
			return true
		}
	}
	return false
}
