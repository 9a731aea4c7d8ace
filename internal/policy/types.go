package policy

// Category is the access class a path rule assigns to matching paths.
type Category string

const (
	// CategoryZeroAccess paths may never be touched by an agent edit.
	CategoryZeroAccess Category = "zero-access"
	// CategoryReadOnly paths may be read but never written.
	CategoryReadOnly Category = "read-only"
	// CategoryProtectedStore paths hold tracked records whose silent
	// deletion must be caught and authorized.
	CategoryProtectedStore Category = "protected-store"
)

// Policy is the loaded guard configuration: three ordered pattern lists
// plus the token store location.
type Policy struct {
	Version string    `yaml:"version"`
	Paths   PathRules `yaml:"paths"`
	Tokens  TokenConf `yaml:"tokens"`
}

// PathRules holds the three pattern lists. Evaluation order is fixed:
// zero-access before read-only; first match wins. Protected-store is
// consulted only after both access lists cleared.
type PathRules struct {
	ZeroAccess      []string `yaml:"zero_access"`
	ReadOnly        []string `yaml:"read_only"`
	ProtectedStores []string `yaml:"protected_stores"`
}

// TokenConf locates the shared ephemeral token directory.
// Empty means the system temp directory.
type TokenConf struct {
	Dir string `yaml:"dir,omitempty"`
}

// EditProposal is one requested textual substitution against one file,
// not yet applied. ReplaceAll selects every occurrence of PriorText
// instead of only the first.
type EditProposal struct {
	TargetPath      string
	PriorText       string
	ReplacementText string
	ReplaceAll      bool
}

// Decision is the outcome of evaluating one edit proposal.
// Constructed fresh per evaluation, never persisted.
type Decision struct {
	Blocked bool
	Reason  string

	// Category and Pattern are set when an access rule matched.
	Category Category
	Pattern  string

	// RemovedIDs holds record identifiers the edit would delete from a
	// protected store; Unauthorized is the subset lacking a token.
	RemovedIDs   []string
	Unauthorized []string
}
