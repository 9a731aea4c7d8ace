// Package approval prompts an operator before a deletion token is
// granted. Granting a token authorizes one irreversible record
// removal, so it is confirmed interactively when a terminal is
// attached.
package approval

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

type Result struct {
	Approved   bool
	UserAction string
}

// Prompt describes the grant being confirmed.
type Prompt struct {
	RecordIDs []string
	TokenDir  string
}

func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Ask confirms a token grant with the operator. Without a terminal the
// grant proceeds: non-interactive callers (scripts, automation) are
// already a deliberate invocation of the grant command.
func Ask(p Prompt) Result {
	if !IsInteractive() {
		return Result{
			Approved:   true,
			UserAction: "auto_approve_non_interactive",
		}
	}

	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintf(os.Stderr, "About to authorize deletion of record(s): %s\n", strings.Join(p.RecordIDs, ", "))
	fmt.Fprintf(os.Stderr, "Each token allows exactly one future deletion of that record.\n")
	fmt.Fprintf(os.Stderr, "Token directory: %s\n", p.TokenDir)
	fmt.Fprintln(os.Stderr, "")

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Fprint(os.Stderr, "Grant deletion token(s)? [y/n]: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return Result{
				Approved:   false,
				UserAction: "error_reading_input",
			}
		}

		input = strings.TrimSpace(strings.ToLower(input))

		switch input {
		case "y", "yes":
			return Result{
				Approved:   true,
				UserAction: "grant",
			}
		case "n", "no":
			return Result{
				Approved:   false,
				UserAction: "deny",
			}
		default:
			fmt.Fprintln(os.Stderr, "Invalid input. Please enter 'y' to grant or 'n' to cancel.")
		}
	}
}
