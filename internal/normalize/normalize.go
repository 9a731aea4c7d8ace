// Package normalize extracts filesystem paths from shell commands so
// the access policy can be applied to Bash tool calls, not just direct
// file edits. It parses the command into an AST rather than splitting
// on whitespace, which survives quoting, pipes, and command lists.
package normalize

import (
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// CommandPaths is the path surface of one shell command.
type CommandPaths struct {
	// Referenced holds every path-looking argument anywhere in the
	// command.
	Referenced []string
	// Written holds the subset that the command plausibly writes:
	// redirect targets and arguments of known mutating executables.
	Written []string
}

// mutators are executables whose path arguments count as write
// targets.
var mutators = map[string]bool{
	"rm": true, "mv": true, "cp": true, "tee": true, "truncate": true,
	"sed": true, "dd": true, "touch": true, "ln": true, "install": true,
	"rsync": true, "unlink": true, "shred": true, "chmod": true, "chown": true,
}

// ExtractPaths parses a shell command and collects referenced and
// written paths, resolved against cwd. A command the parser cannot
// handle falls back to whitespace fields, so a malformed command still
// yields its obvious paths.
func ExtractPaths(command, cwd string) CommandPaths {
	parser := syntax.NewParser(syntax.KeepComments(false), syntax.Variant(syntax.LangBash))
	file, err := parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return fallback(command, cwd)
	}

	var cp CommandPaths
	homeDir, _ := os.UserHomeDir()

	syntax.Walk(file, func(node syntax.Node) bool {
		switch n := node.(type) {
		case *syntax.CallExpr:
			cp.collectCall(n, cwd, homeDir)
		case *syntax.Redirect:
			if n.Word != nil {
				target := wordText(n.Word)
				if looksLikePath(target) {
					path := resolve(target, cwd, homeDir)
					cp.Referenced = append(cp.Referenced, path)
					if isWriteRedirect(n.Op) {
						cp.Written = append(cp.Written, path)
					}
				}
			}
		}
		return true
	})

	cp.Referenced = unique(cp.Referenced)
	cp.Written = unique(cp.Written)
	return cp
}

// fallback splits on whitespace when the shell parser gives up.
func fallback(command, cwd string) CommandPaths {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return CommandPaths{}
	}

	var cp CommandPaths
	homeDir, _ := os.UserHomeDir()
	writes := mutators[filepath.Base(fields[0])]
	for _, field := range fields[1:] {
		if !looksLikePath(field) {
			continue
		}
		path := resolve(field, cwd, homeDir)
		cp.Referenced = append(cp.Referenced, path)
		if writes {
			cp.Written = append(cp.Written, path)
		}
	}
	return cp
}

func (cp *CommandPaths) collectCall(call *syntax.CallExpr, cwd, homeDir string) {
	if len(call.Args) == 0 {
		return
	}
	exe := filepath.Base(wordText(call.Args[0]))
	if exe == "sudo" && len(call.Args) > 1 {
		rest := &syntax.CallExpr{Args: call.Args[1:]}
		cp.collectCall(rest, cwd, homeDir)
		return
	}
	writes := mutators[exe]
	for _, arg := range call.Args[1:] {
		text := wordText(arg)
		if !looksLikePath(text) {
			continue
		}
		path := resolve(text, cwd, homeDir)
		cp.Referenced = append(cp.Referenced, path)
		if writes {
			cp.Written = append(cp.Written, path)
		}
	}
}

func isWriteRedirect(op syntax.RedirOperator) bool {
	switch op {
	case syntax.RdrOut, syntax.AppOut, syntax.RdrAll, syntax.AppAll, syntax.ClbOut:
		return true
	}
	return false
}

func wordText(w *syntax.Word) string {
	var sb strings.Builder
	for _, part := range w.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			sb.WriteString(p.Value)
		case *syntax.SglQuoted:
			sb.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, inner := range p.Parts {
				if lit, ok := inner.(*syntax.Lit); ok {
					sb.WriteString(lit.Value)
				}
			}
		}
	}
	return sb.String()
}

func looksLikePath(arg string) bool {
	if arg == "" || strings.HasPrefix(arg, "-") {
		return false
	}
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return false
	}
	return strings.HasPrefix(arg, "/") ||
		strings.HasPrefix(arg, "./") ||
		strings.HasPrefix(arg, "../") ||
		strings.HasPrefix(arg, "~/") ||
		strings.Contains(arg, "/") ||
		strings.Contains(arg, ".")
}

func resolve(path, cwd, homeDir string) string {
	if strings.HasPrefix(path, "~/") && homeDir != "" {
		return filepath.Join(homeDir, path[2:])
	}
	if path == "~" && homeDir != "" {
		return homeDir
	}
	if !filepath.IsAbs(path) && cwd != "" {
		return filepath.Join(cwd, path)
	}
	return filepath.Clean(path)
}

func unique(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
