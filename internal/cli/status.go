package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/boardguard/boardguard/internal/config"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show boardguard status — hook, policy, tokens, audit log",
	Long: `Check whether boardguard is active: whether the Claude Code hook is
installed, which policy file is in effect, how many deletion tokens are
pending, and where the audit log lives.

  boardguard status`,
	RunE: statusCommand,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusCommand(cmd *cobra.Command, args []string) error {
	cfg, _ := config.Load(policyPath, logPath)

	fmt.Println("═══════════════════════════════════════════════════════")
	fmt.Println("  boardguard Status")
	fmt.Println("═══════════════════════════════════════════════════════")
	fmt.Println()

	binPath, err := os.Executable()
	if err != nil {
		binPath = "unknown"
	}
	fmt.Printf("  Binary:    %s (%s)\n", binPath, Version)

	configDir := "~/.boardguard"
	if cfg != nil {
		configDir = cfg.ConfigDir
	}
	fmt.Printf("  Config:    %s\n", configDir)
	fmt.Println()

	fmt.Println("─── Hook ──────────────────────────────────────────────")
	checkClaudeHook()
	fmt.Println()

	fmt.Println("─── Policy ────────────────────────────────────────────")
	if cfg != nil {
		checkPolicyFile(cfg.PolicyPath)
	} else {
		fmt.Println("  ⬚  Policy: using built-in defaults")
	}
	fmt.Println()

	fmt.Println("─── Deletion Tokens ───────────────────────────────────")
	checkTokens()
	fmt.Println()

	fmt.Println("─── Audit Log ─────────────────────────────────────────")
	auditPath := ""
	if cfg != nil {
		auditPath = cfg.LogPath
	}
	checkAuditLog(auditPath)
	fmt.Println()

	return nil
}

func checkClaudeHook() {
	settingsPath := filepath.Join(os.Getenv("HOME"), ".claude", "settings.json")
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		fmt.Printf("  ⬚  Claude Code: not configured (run `boardguard setup claude-code`)\n")
		return
	}
	if strings.Contains(string(data), "boardguard hook") {
		fmt.Printf("  ✅ Claude Code: hook active (%s)\n", settingsPath)
	} else {
		fmt.Printf("  ⬚  Claude Code: settings.json exists but no boardguard hook\n")
	}
}

func checkPolicyFile(path string) {
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("  ✅ Policy: %s\n", path)
	} else {
		fmt.Printf("  ⬚  Policy: no file at %s — all edits allowed (run `boardguard init`)\n", path)
	}
}

func checkTokens() {
	engine := loadEngine()
	ids, err := engine.Tokens().List()
	if err != nil {
		fmt.Printf("  ⚠  Could not read token directory: %v\n", err)
		return
	}
	if len(ids) == 0 {
		fmt.Println("  ⬚  No pending deletion tokens")
		return
	}
	fmt.Printf("  ⚠  %d pending deletion token(s): %s\n", len(ids), strings.Join(ids, ", "))
}

func checkAuditLog(path string) {
	if path == "" {
		fmt.Println("  ⬚  No audit log path configured")
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("  ⬚  No audit log yet (%s)\n", path)
		return
	}
	fmt.Printf("  ✅ Audit log: %s (%d bytes)\n", path, info.Size())
}
