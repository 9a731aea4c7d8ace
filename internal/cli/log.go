package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/boardguard/boardguard/internal/config"
	"github.com/boardguard/boardguard/internal/logger"
	"github.com/spf13/cobra"
)

var (
	logFilterDecision string
	logLast           int
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View and filter the audit log",
	Long: `View the boardguard audit log.

Examples:
  boardguard log                   # Show all entries
  boardguard log --last 20         # Show last 20 entries
  boardguard log --decision BLOCK  # Show only blocked proposals`,
	RunE: logCommand,
}

func init() {
	logCmd.Flags().StringVar(&logFilterDecision, "decision", "", "Filter by decision (ALLOW, BLOCK)")
	logCmd.Flags().IntVar(&logLast, "last", 0, "Show last N entries")
	rootCmd.AddCommand(logCmd)
}

func logCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(policyPath, logPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	events, err := readAuditLog(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}

	if logFilterDecision != "" {
		filtered := events[:0]
		for _, e := range events {
			if e.Decision == logFilterDecision {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}

	if logLast > 0 && len(events) > logLast {
		events = events[len(events)-logLast:]
	}

	if len(events) == 0 {
		fmt.Println("No audit log entries found.")
		return nil
	}

	for _, e := range events {
		target := e.FilePath
		if target == "" {
			target = e.Command
		}
		fmt.Printf("%s  %-5s  %-9s  %s\n", e.Timestamp, e.Decision, e.Tool, target)
		if len(e.Unauthorized) > 0 {
			fmt.Printf("%26sunauthorized deletion(s): %v\n", "", e.Unauthorized)
		}
	}
	return nil
}

func readAuditLog(path string) ([]logger.AuditEvent, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	var events []logger.AuditEvent
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var event logger.AuditEvent
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			continue // skip malformed lines
		}
		events = append(events, event)
	}
	return events, scanner.Err()
}
