package policy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testPolicy(tokenDir string, paths PathRules) *Policy {
	return &Policy{
		Version: "0.1",
		Paths:   paths,
		Tokens:  TokenConf{Dir: tokenDir},
	}
}

func writeBoard(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "board.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write board file: %v", err)
	}
	return path
}

func TestEngine_ZeroAccessBeforeReadOnly(t *testing.T) {
	engine := NewEngine(testPolicy(t.TempDir(), PathRules{
		ZeroAccess: []string{"/etc/secrets/"},
		ReadOnly:   []string{"/etc/secrets/", "/etc/"},
	}))

	decision := engine.Evaluate(EditProposal{
		TargetPath:      "/etc/secrets/api.key",
		PriorText:       "a",
		ReplacementText: "b",
	})

	if !decision.Blocked {
		t.Fatal("expected block for zero-access path")
	}
	if decision.Category != CategoryZeroAccess {
		t.Errorf("expected category %s, got %s", CategoryZeroAccess, decision.Category)
	}
	if decision.Pattern != "/etc/secrets/" {
		t.Errorf("expected pattern /etc/secrets/, got %q", decision.Pattern)
	}
}

func TestEngine_ReadOnlyBlocksWrite(t *testing.T) {
	engine := NewEngine(testPolicy(t.TempDir(), PathRules{
		ReadOnly: []string{"go.sum"},
	}))

	decision := engine.Evaluate(EditProposal{
		TargetPath:      "go.sum",
		PriorText:       "a",
		ReplacementText: "b",
	})

	if !decision.Blocked || decision.Category != CategoryReadOnly {
		t.Errorf("expected read-only block, got %+v", decision)
	}
}

func TestEngine_UnmatchedPathAllows(t *testing.T) {
	engine := NewEngine(testPolicy(t.TempDir(), PathRules{
		ZeroAccess: []string{"/etc/secrets/"},
	}))

	decision := engine.Evaluate(EditProposal{
		TargetPath:      "/tmp/scratch.txt",
		PriorText:       "a",
		ReplacementText: "b",
	})
	if decision.Blocked {
		t.Errorf("expected allow for unmatched path, got %+v", decision)
	}
}

func TestEngine_ProtectedStoreDeletionBlocked(t *testing.T) {
	tmpDir := t.TempDir()
	board := writeBoard(t, tmpDir, `{"tasks": [{"id": "T-1", "title": "ship"}, {"id": "T-2", "title": "test"}]}`)

	engine := NewEngine(testPolicy(t.TempDir(), PathRules{
		ProtectedStores: []string{board},
	}))

	decision := engine.Evaluate(EditProposal{
		TargetPath:      board,
		PriorText:       `{"id": "T-1", "title": "ship"}, `,
		ReplacementText: "",
	})

	if !decision.Blocked {
		t.Fatal("expected block for unauthorized record deletion")
	}
	if decision.Category != CategoryProtectedStore {
		t.Errorf("expected category %s, got %s", CategoryProtectedStore, decision.Category)
	}
	if len(decision.Unauthorized) != 1 || decision.Unauthorized[0] != "T-1" {
		t.Errorf("expected unauthorized [T-1], got %v", decision.Unauthorized)
	}
	if !strings.Contains(decision.Reason, "T-1") {
		t.Errorf("expected reason to name T-1, got %q", decision.Reason)
	}
	if !strings.Contains(decision.Reason, engine.Tokens().Path("T-1")) {
		t.Errorf("expected reason to name the token file, got %q", decision.Reason)
	}
}

func TestEngine_ProtectedStoreAuthorizedDeletion(t *testing.T) {
	tmpDir := t.TempDir()
	board := writeBoard(t, tmpDir, `{"tasks": [{"id": "T-1"}]}`)

	engine := NewEngine(testPolicy(t.TempDir(), PathRules{
		ProtectedStores: []string{board},
	}))
	if err := engine.Tokens().Grant("T-1"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	decision := engine.Evaluate(EditProposal{
		TargetPath:      board,
		PriorText:       `{"id": "T-1"}`,
		ReplacementText: "",
	})

	if decision.Blocked {
		t.Fatalf("expected allow for authorized deletion, got %+v", decision)
	}
	if engine.Tokens().Has("T-1") {
		t.Error("expected token T-1 to be consumed")
	}
}

func TestEngine_ProtectedStoreFieldEditAllowed(t *testing.T) {
	tmpDir := t.TempDir()
	board := writeBoard(t, tmpDir, `{"tasks": [{"id": "T-1", "status": "open"}]}`)

	engine := NewEngine(testPolicy(t.TempDir(), PathRules{
		ProtectedStores: []string{board},
	}))

	// Every identifier survives the edit, so no deletion grounds exist.
	decision := engine.Evaluate(EditProposal{
		TargetPath:      board,
		PriorText:       `"status": "open"`,
		ReplacementText: `"status": "done"`,
	})
	if decision.Blocked {
		t.Errorf("expected allow for field edit, got %+v", decision)
	}
}

func TestEngine_ProtectedStoreMissingFileAllows(t *testing.T) {
	engine := NewEngine(testPolicy(t.TempDir(), PathRules{
		ProtectedStores: []string{"/nonexistent/board.json"},
	}))

	decision := engine.Evaluate(EditProposal{
		TargetPath:      "/nonexistent/board.json",
		PriorText:       "",
		ReplacementText: "{}",
	})
	if decision.Blocked {
		t.Errorf("expected allow for file creation, got %+v", decision)
	}
}

func TestEngine_ProtectedStoreUnreadableFailsOpen(t *testing.T) {
	// The target exists but is a directory, so reading it as a file
	// fails. The guard fails open rather than blocking on an I/O error.
	target := t.TempDir()
	engine := NewEngine(testPolicy(t.TempDir(), PathRules{
		ProtectedStores: []string{target},
	}))

	decision := engine.Evaluate(EditProposal{
		TargetPath:      target,
		PriorText:       "a",
		ReplacementText: "b",
	})
	if decision.Blocked {
		t.Errorf("expected allow for unreadable target, got %+v", decision)
	}
}

// A path listed both zero-access and protected-store blocks at the
// access stage; the deletion logic never runs.
func TestEngine_ZeroAccessShortCircuitsProtectedStore(t *testing.T) {
	tmpDir := t.TempDir()
	board := writeBoard(t, tmpDir, `{"tasks": [{"id": "T-1"}]}`)

	engine := NewEngine(testPolicy(t.TempDir(), PathRules{
		ZeroAccess:      []string{board},
		ProtectedStores: []string{board},
	}))
	if err := engine.Tokens().Grant("T-1"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	decision := engine.Evaluate(EditProposal{
		TargetPath:      board,
		PriorText:       `{"id": "T-1"}`,
		ReplacementText: "",
	})

	if !decision.Blocked || decision.Category != CategoryZeroAccess {
		t.Errorf("expected zero-access block, got %+v", decision)
	}
	if !engine.Tokens().Has("T-1") {
		t.Error("token must not be consumed when the access stage blocks")
	}
}

func TestEngine_EvaluateRewrite(t *testing.T) {
	tmpDir := t.TempDir()
	board := writeBoard(t, tmpDir, `{"tasks": [{"id": "T-1"}, {"id": "T-2"}]}`)

	engine := NewEngine(testPolicy(t.TempDir(), PathRules{
		ProtectedStores: []string{board},
	}))

	decision := engine.EvaluateRewrite(board, `{"tasks": [{"id": "T-2"}]}`)
	if !decision.Blocked {
		t.Fatal("expected block: rewrite drops T-1")
	}
	if len(decision.Unauthorized) != 1 || decision.Unauthorized[0] != "T-1" {
		t.Errorf("expected unauthorized [T-1], got %v", decision.Unauthorized)
	}

	decision = engine.EvaluateRewrite(board, `{"tasks": [{"id": "T-1"}, {"id": "T-2"}, {"id": "T-3"}]}`)
	if decision.Blocked {
		t.Errorf("expected allow: rewrite keeps every record, got %+v", decision)
	}
}

func TestEngine_EvaluateSequence(t *testing.T) {
	tmpDir := t.TempDir()
	board := writeBoard(t, tmpDir, `{"tasks": [{"id": "T-1"}, {"id": "T-2"}]}`)

	engine := NewEngine(testPolicy(t.TempDir(), PathRules{
		ProtectedStores: []string{board},
	}))

	// The first edit renames T-1's entry, the second restores it: the
	// final simulated content keeps both records.
	decision := engine.EvaluateSequence(board, []EditProposal{
		{PriorText: `{"id": "T-1"}`, ReplacementText: `{"id": "tmp"}`},
		{PriorText: `{"id": "tmp"}`, ReplacementText: `{"id": "T-1"}`},
	})
	if decision.Blocked {
		t.Errorf("expected allow: sequence preserves all records, got %+v", decision)
	}

	decision = engine.EvaluateSequence(board, []EditProposal{
		{PriorText: `{"id": "T-2"}`, ReplacementText: ""},
	})
	if !decision.Blocked {
		t.Error("expected block: sequence removes T-2 without a token")
	}
}
