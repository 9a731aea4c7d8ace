package policy

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher decides whether a filesystem path matches a rule pattern.
// Patterns containing *, ? or [ are globs; anything else is a literal
// path prefix.
type Matcher struct {
	homeDir string
}

func NewMatcher() *Matcher {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}
	return &Matcher{homeDir: homeDir}
}

// Matches reports whether path matches pattern under glob or prefix
// semantics. A failure to match is not an error, it is just false.
func (m *Matcher) Matches(path, pattern string) bool {
	if isGlob(pattern) {
		return m.matchGlob(path, pattern)
	}
	return m.matchPrefix(path, pattern)
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// matchGlob is case-insensitive and tries, in order: the path's basename
// against the pattern's basename portion, the basename against the raw
// pattern as written, and the full normalized path against the full
// pattern. Any one hit is a match.
func (m *Matcher) matchGlob(path, pattern string) bool {
	normPath := m.normalize(path)
	normPattern := m.normalize(pattern)
	base := filepath.Base(normPath)

	if ok, _ := doublestar.Match(strings.ToLower(filepath.Base(normPattern)), strings.ToLower(base)); ok {
		return true
	}
	if ok, _ := doublestar.Match(pattern, base); ok {
		return true
	}
	ok, _ := doublestar.Match(strings.ToLower(normPattern), strings.ToLower(normPath))
	return ok
}

// matchPrefix lets a rule naming a directory cover the directory itself
// and everything beneath it. A pattern written with a trailing separator
// binds at a path boundary, so "/srv/app/" does not cover "/srv/app2".
func (m *Matcher) matchPrefix(path, pattern string) bool {
	dirOnly := strings.HasSuffix(pattern, string(filepath.Separator)) || strings.HasSuffix(pattern, "/")
	normPath := m.normalize(path)
	normPattern := m.normalize(pattern)

	if normPath == normPattern {
		return true
	}
	if dirOnly {
		return strings.HasPrefix(normPath, normPattern+string(filepath.Separator))
	}
	return strings.HasPrefix(normPath, normPattern)
}

// normalize expands a leading ~ and collapses redundant separators.
// filepath.Clean also drops any trailing separator, so callers that care
// about directory-boundary semantics must record it beforehand.
func (m *Matcher) normalize(path string) string {
	if m.homeDir != "" {
		if path == "~" {
			path = m.homeDir
		} else if strings.HasPrefix(path, "~/") {
			path = filepath.Join(m.homeDir, path[2:])
		}
	}
	return filepath.Clean(path)
}
