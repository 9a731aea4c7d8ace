package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/boardguard/boardguard/internal/config"
	"github.com/boardguard/boardguard/internal/logger"
	"github.com/boardguard/boardguard/internal/normalize"
	"github.com/boardguard/boardguard/internal/policy"
	"github.com/spf13/cobra"
)

// hookInput is the Claude Code PreToolUse payload:
// {"hook_event_name": "PreToolUse", "tool_name": "Edit", "tool_input": {...}}
type hookInput struct {
	HookEventName string    `json:"hook_event_name"`
	ToolName      string    `json:"tool_name"`
	ToolInput     toolInput `json:"tool_input"`
	Cwd           string    `json:"cwd"`
}

type toolInput struct {
	// Edit / MultiEdit / Write
	FilePath   string      `json:"file_path"`
	OldString  string      `json:"old_string"`
	NewString  string      `json:"new_string"`
	ReplaceAll bool        `json:"replace_all"`
	Content    string      `json:"content"`
	Edits      []editEntry `json:"edits"`

	// Bash
	Command string `json:"command"`
}

type editEntry struct {
	OldString  string `json:"old_string"`
	NewString  string `json:"new_string"`
	ReplaceAll bool   `json:"replace_all"`
}

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "PreToolUse hook handler for Claude Code",
	Long: `Reads a PreToolUse JSON payload from stdin, evaluates the proposed
tool call against the boardguard policy, and signals the decision via
exit code:

  0  allow
  1  malformed input document
  2  block (reason written to stderr)

Edit, Write, and MultiEdit calls are checked against path rules and
protected-store deletion rules. Bash calls are checked against path
rules only. All other tools pass through.

Setup:
  boardguard setup claude-code`,
	RunE: hookCommand,
}

func init() {
	rootCmd.AddCommand(hookCmd)
}

func hookCommand(cmd *cobra.Command, args []string) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[boardguard] failed to read stdin: %v\n", err)
		os.Exit(1)
	}

	var input hookInput
	if err := json.Unmarshal(data, &input); err != nil {
		// Malformed input is its own failure mode, distinct from a
		// policy block.
		fmt.Fprintf(os.Stderr, "[boardguard] could not parse hook input: %v\n", err)
		os.Exit(1)
	}

	decision, handled := evaluateHook(loadEngine(), input)
	if !handled {
		// Tools this guard does not cover pass through untouched.
		return nil
	}

	logDecision(input, decision)

	if decision.Blocked {
		fmt.Fprintf(os.Stderr, "BLOCKED by boardguard\n%s\n", decision.Reason)
		os.Exit(2)
	}
	return nil
}

// evaluateHook applies the guard to one parsed hook payload. handled is
// false for tool names this guard does not cover, which always pass
// through without any further processing.
func evaluateHook(engine *policy.Engine, input hookInput) (decision policy.Decision, handled bool) {
	switch input.ToolName {
	case "Edit":
		return engine.Evaluate(policy.EditProposal{
			TargetPath:      input.ToolInput.FilePath,
			PriorText:       input.ToolInput.OldString,
			ReplacementText: input.ToolInput.NewString,
			ReplaceAll:      input.ToolInput.ReplaceAll,
		}), true
	case "Write":
		return engine.EvaluateRewrite(input.ToolInput.FilePath, input.ToolInput.Content), true
	case "MultiEdit":
		edits := make([]policy.EditProposal, 0, len(input.ToolInput.Edits))
		for _, e := range input.ToolInput.Edits {
			edits = append(edits, policy.EditProposal{
				PriorText:       e.OldString,
				ReplacementText: e.NewString,
				ReplaceAll:      e.ReplaceAll,
			})
		}
		return engine.EvaluateSequence(input.ToolInput.FilePath, edits), true
	case "Bash":
		return evaluateBash(engine, input.ToolInput.Command, input.Cwd), true
	}
	return policy.Decision{}, false
}

// loadEngine builds the policy engine, falling open to an empty policy
// when configuration cannot be loaded. Absence of rules must never
// itself block an edit.
func loadEngine() *policy.Engine {
	pol := policy.DefaultPolicy()

	cfg, err := config.Load(policyPath, logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[boardguard] warning: config load failed: %v\n", err)
		return policy.NewEngine(pol)
	}

	loaded, err := policy.Load(cfg.PolicyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[boardguard] warning: policy load failed: %v\n", err)
		return policy.NewEngine(pol)
	}

	return policy.NewEngine(loaded)
}

// evaluateBash applies path rules to a shell command: any referenced
// path may trip a zero-access rule, while read-only rules only trip on
// write targets. Deletion simulation is not possible for shell
// commands, so protected stores are not diffed here.
func evaluateBash(engine *policy.Engine, command, cwd string) policy.Decision {
	if command == "" {
		return policy.Decision{}
	}
	if cwd == "" {
		cwd, _ = os.Getwd()
	}

	paths := normalize.ExtractPaths(command, cwd)
	for _, p := range paths.Referenced {
		if blocked, category, pattern := engine.CheckAccess(p); blocked && category == policy.CategoryZeroAccess {
			return policy.Decision{
				Blocked:  true,
				Category: category,
				Pattern:  pattern,
				Reason:   fmt.Sprintf("Command references zero-access path %s (rule %q).", p, pattern),
			}
		}
	}
	for _, p := range paths.Written {
		if blocked, category, pattern := engine.CheckAccess(p); blocked {
			return policy.Decision{
				Blocked:  true,
				Category: category,
				Pattern:  pattern,
				Reason:   fmt.Sprintf("Command writes to %s path %s (rule %q).", category, p, pattern),
			}
		}
	}
	return policy.Decision{}
}

// logDecision appends the decision to the audit log. Audit failures
// are warnings, never blocks.
func logDecision(input hookInput, decision policy.Decision) {
	cfg, err := config.Load(policyPath, logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[boardguard] warning: config load failed: %v\n", err)
		return
	}

	auditLogger, err := logger.New(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[boardguard] warning: audit log init failed: %v\n", err)
		return
	}
	defer func() {
		_ = auditLogger.Close()
	}()

	outcome := "ALLOW"
	if decision.Blocked {
		outcome = "BLOCK"
	}

	event := logger.AuditEvent{
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Tool:         input.ToolName,
		FilePath:     input.ToolInput.FilePath,
		Command:      input.ToolInput.Command,
		Decision:     outcome,
		Category:     string(decision.Category),
		Pattern:      decision.Pattern,
		RemovedIDs:   decision.RemovedIDs,
		Unauthorized: decision.Unauthorized,
		Source:       "claude-code-hook",
	}
	if err := auditLogger.Log(event); err != nil {
		fmt.Fprintf(os.Stderr, "[boardguard] warning: audit log failed: %v\n", err)
	}
}
