package policy

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the guard policy from path. A missing file is not an
// error: with no rules configured, nothing can be forbidden, so the
// loader fails open to an empty policy.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultPolicy(), nil
		}
		return nil, err
	}

	var policy Policy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, err
	}

	if policy.Version == "" {
		policy.Version = "0.1"
	}

	return &policy, nil
}

// DefaultPolicy is the empty policy used when no configuration exists.
// Empty rule lists allow everything.
func DefaultPolicy() *Policy {
	return &Policy{Version: "0.1"}
}

// StarterPolicy is what `boardguard init` writes: a commented-out ready
// starting point rather than the empty default.
func StarterPolicy() *Policy {
	return &Policy{
		Version: "0.1",
		Paths: PathRules{
			ZeroAccess: []string{
				"~/.ssh",
				"~/.aws",
				"~/.gnupg",
				"*.pem",
				"*.key",
			},
			ReadOnly: []string{
				"~/.claude/settings.json",
				"go.sum",
			},
			ProtectedStores: []string{
				"~/.backlog/board.json",
			},
		},
	}
}
