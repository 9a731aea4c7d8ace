package policy

import (
	"fmt"
	"os"
	"strings"

	"github.com/boardguard/boardguard/internal/board"
	"github.com/boardguard/boardguard/internal/tokens"
)

// Engine evaluates edit proposals against a loaded policy: path access
// control first, then deletion protection for protected stores. The
// only side effect of an evaluation is token consumption on an
// authorized deletion.
type Engine struct {
	policy   *Policy
	matcher  *Matcher
	tokens   *tokens.Store
	detector *board.Detector
}

func NewEngine(p *Policy) *Engine {
	store := tokens.NewStore(p.Tokens.Dir)
	return &Engine{
		policy:  p,
		matcher: NewMatcher(),
		tokens:  store,
		detector: board.NewDetector(store, func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "[boardguard] warning: "+format+"\n", args...)
		}),
	}
}

// Tokens exposes the engine's token store for the CLI surface.
func (e *Engine) Tokens() *tokens.Store {
	return e.tokens
}

// DryRun disables token consumption for subsequent evaluations:
// decisions come out the same, but authorized deletions leave their
// tokens in place.
func (e *Engine) DryRun() {
	e.detector.DryRun()
}

// CheckAccess applies the ordered access lists to a path: zero-access
// rules first, then read-only. First match wins.
func (e *Engine) CheckAccess(path string) (blocked bool, category Category, pattern string) {
	for _, pat := range e.policy.Paths.ZeroAccess {
		if e.matcher.Matches(path, pat) {
			return true, CategoryZeroAccess, pat
		}
	}
	for _, pat := range e.policy.Paths.ReadOnly {
		if e.matcher.Matches(path, pat) {
			return true, CategoryReadOnly, pat
		}
	}
	return false, "", ""
}

// IsProtectedStore reports whether path matches a protected-store rule.
func (e *Engine) IsProtectedStore(path string) (bool, string) {
	for _, pat := range e.policy.Paths.ProtectedStores {
		if e.matcher.Matches(path, pat) {
			return true, pat
		}
	}
	return false, ""
}

// Evaluate decides one edit proposal. The flow is linear: access check,
// then protected-store deletion detection, then allow.
func (e *Engine) Evaluate(p EditProposal) Decision {
	if d, done := e.checkPath(p.TargetPath); done {
		return d
	}
	det := e.detector.Detect(p.TargetPath, p.PriorText, p.ReplacementText, p.ReplaceAll)
	return e.decideDetection(det)
}

// EvaluateRewrite decides a whole-file replacement (the host's Write
// tool): the simulated result is newContent verbatim.
func (e *Engine) EvaluateRewrite(targetPath, newContent string) Decision {
	if d, done := e.checkPath(targetPath); done {
		return d
	}
	det := e.detector.DetectRewrite(targetPath, newContent)
	return e.decideDetection(det)
}

// EvaluateSequence decides an ordered batch of substitutions against
// one file (the host's MultiEdit tool). Access is checked once; the
// deletion diff runs on the final simulated content.
func (e *Engine) EvaluateSequence(targetPath string, edits []EditProposal) Decision {
	if d, done := e.checkPath(targetPath); done {
		return d
	}

	current, err := os.ReadFile(targetPath)
	if err != nil {
		// Missing file is creation; unreadable fails open.
		return Decision{}
	}
	simulated := string(current)
	for _, edit := range edits {
		simulated = board.Simulate(simulated, edit.PriorText, edit.ReplacementText, edit.ReplaceAll)
	}
	det := e.detector.DetectRewrite(targetPath, simulated)
	return e.decideDetection(det)
}

// checkPath runs the access stage and the protected-store gate. done
// is true when the decision is terminal: either an access rule blocked,
// or the target is not a protected store and the edit is allowed.
func (e *Engine) checkPath(path string) (Decision, bool) {
	if blocked, category, pattern := e.CheckAccess(path); blocked {
		return Decision{
			Blocked:  true,
			Category: category,
			Pattern:  pattern,
			Reason:   accessReason(category, pattern, path),
		}, true
	}
	if protected, _ := e.IsProtectedStore(path); !protected {
		return Decision{}, true
	}
	return Decision{}, false
}

func (e *Engine) decideDetection(det board.Detection) Decision {
	if !det.Blocked {
		return Decision{RemovedIDs: det.RemovedIDs}
	}
	return Decision{
		Blocked:      true,
		Category:     CategoryProtectedStore,
		RemovedIDs:   det.RemovedIDs,
		Unauthorized: det.Unauthorized,
		Reason:       e.deletionReason(det),
	}
}

func accessReason(category Category, pattern, path string) string {
	switch category {
	case CategoryZeroAccess:
		return fmt.Sprintf("Path %s matches zero-access rule %q and may not be modified.", path, pattern)
	case CategoryReadOnly:
		return fmt.Sprintf("Path %s matches read-only rule %q and may not be written.", path, pattern)
	}
	return fmt.Sprintf("Path %s matches rule %q.", path, pattern)
}

func (e *Engine) deletionReason(det board.Detection) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "This edit would delete tracked record(s) without authorization: %s.\n",
		strings.Join(det.Unauthorized, ", "))
	if len(det.Unauthorized) < len(det.RemovedIDs) {
		fmt.Fprintf(&sb, "All records removed by the edit: %s.\n", strings.Join(det.RemovedIDs, ", "))
	}
	sb.WriteString(board.Remediation(det.Unauthorized, e.tokens.Path))
	return sb.String()
}
