package board

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// TokenStore is the slice of the authorization store the detector
// needs: presence check plus single-use consumption.
type TokenStore interface {
	Has(recordID string) bool
	Consume(recordID string) error
}

// Detection is the outcome of simulating one edit against a protected
// store.
type Detection struct {
	Blocked bool
	// RemovedIDs are all record identifiers the edit would delete.
	RemovedIDs []string
	// Unauthorized is the subset of RemovedIDs with no valid token.
	Unauthorized []string
}

// Detector simulates edits against protected stores and decides
// whether the removals they would cause are authorized.
type Detector struct {
	tokens TokenStore
	warnf  func(format string, args ...any)
	dryRun bool
}

func NewDetector(tokens TokenStore, warnf func(format string, args ...any)) *Detector {
	if warnf == nil {
		warnf = func(string, ...any) {}
	}
	return &Detector{tokens: tokens, warnf: warnf}
}

// DryRun makes subsequent detections leave authorized tokens in place,
// so a hypothetical evaluation has no side effects.
func (d *Detector) DryRun() {
	d.dryRun = true
}

// Detect simulates substituting priorText with replacementText in the
// current content of targetPath and reports which record identifiers
// would disappear.
//
// A missing target is creation and never blocks. An unreadable target
// fails open: this check must never be the reason an otherwise valid
// edit cannot be evaluated.
func (d *Detector) Detect(targetPath, priorText, replacementText string, replaceAll bool) Detection {
	current, err := os.ReadFile(targetPath)
	if err != nil {
		return Detection{}
	}

	simulated := Simulate(string(current), priorText, replacementText, replaceAll)
	return d.detect(string(current), simulated)
}

// DetectRewrite handles a whole-file replacement: the simulated result
// is the new content verbatim.
func (d *Detector) DetectRewrite(targetPath, newContent string) Detection {
	current, err := os.ReadFile(targetPath)
	if err != nil {
		return Detection{}
	}
	return d.detect(string(current), newContent)
}

// Simulate applies one textual substitution: every occurrence of prior
// when replaceAll, otherwise only the first. A prior that does not
// occur leaves the content unchanged.
func Simulate(content, prior, replacement string, replaceAll bool) string {
	if prior == "" {
		return content
	}
	n := 1
	if replaceAll {
		n = -1
	}
	return strings.Replace(content, prior, replacement, n)
}

func (d *Detector) detect(before, after string) Detection {
	removed := diffIDs(ExtractIDs(before), ExtractIDs(after))
	if len(removed) == 0 {
		return Detection{}
	}

	var authorized, unauthorized []string
	for _, id := range removed {
		if d.tokens.Has(id) {
			authorized = append(authorized, id)
		} else {
			unauthorized = append(unauthorized, id)
		}
	}

	if len(unauthorized) > 0 {
		// No tokens are consumed on a blocked attempt, so a corrected
		// retry can still use them.
		return Detection{Blocked: true, RemovedIDs: removed, Unauthorized: unauthorized}
	}

	if !d.dryRun {
		for _, id := range authorized {
			if err := d.tokens.Consume(id); err != nil {
				d.warnf("could not consume deletion token for %s: %v", id, err)
			}
		}
	}
	return Detection{RemovedIDs: removed}
}

// diffIDs returns the identifiers present in before but not in after,
// sorted.
func diffIDs(before, after map[string]struct{}) []string {
	var removed []string
	for id := range before {
		if _, ok := after[id]; !ok {
			removed = append(removed, id)
		}
	}
	sort.Strings(removed)
	return removed
}

// Remediation names the exact token files to create before retrying a
// blocked deletion.
func Remediation(unauthorized []string, tokenPath func(string) string) string {
	var sb strings.Builder
	sb.WriteString("To authorize, create the token file(s) and retry:\n")
	for _, id := range unauthorized {
		fmt.Fprintf(&sb, "  touch %s\n", tokenPath(id))
	}
	return sb.String()
}
