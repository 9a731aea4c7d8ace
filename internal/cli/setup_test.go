package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInstallClaudeHook_FreshSettings(t *testing.T) {
	settingsPath := filepath.Join(t.TempDir(), ".claude", "settings.json")

	if err := installClaudeHook(settingsPath); err != nil {
		t.Fatalf("install failed: %v", err)
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		t.Fatalf("failed to read settings: %v", err)
	}
	if !strings.Contains(string(data), "boardguard hook") {
		t.Errorf("expected hook command in settings, got %s", data)
	}
	if !strings.Contains(string(data), hookMatcher) {
		t.Errorf("expected matcher %q in settings, got %s", hookMatcher, data)
	}
}

func TestInstallClaudeHook_PreservesExistingSettings(t *testing.T) {
	settingsPath := filepath.Join(t.TempDir(), "settings.json")
	existing := `{"model": "opus", "hooks": {"PostToolUse": []}}`
	if err := os.WriteFile(settingsPath, []byte(existing), 0600); err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}

	if err := installClaudeHook(settingsPath); err != nil {
		t.Fatalf("install failed: %v", err)
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		t.Fatalf("failed to read settings: %v", err)
	}

	var settings map[string]interface{}
	if err := json.Unmarshal(data, &settings); err != nil {
		t.Fatalf("settings no longer valid JSON: %v", err)
	}
	if settings["model"] != "opus" {
		t.Error("existing settings key was dropped")
	}
	hooks := settings["hooks"].(map[string]interface{})
	if _, ok := hooks["PostToolUse"]; !ok {
		t.Error("existing hook list was dropped")
	}
	if _, ok := hooks["PreToolUse"]; !ok {
		t.Error("PreToolUse hook was not added")
	}
}

func TestInstallClaudeHook_Idempotent(t *testing.T) {
	settingsPath := filepath.Join(t.TempDir(), "settings.json")

	if err := installClaudeHook(settingsPath); err != nil {
		t.Fatalf("first install failed: %v", err)
	}
	if err := installClaudeHook(settingsPath); err != nil {
		t.Fatalf("second install failed: %v", err)
	}

	data, _ := os.ReadFile(settingsPath)
	if got := strings.Count(string(data), "boardguard hook"); got != 1 {
		t.Errorf("expected exactly one hook entry, got %d", got)
	}
}
