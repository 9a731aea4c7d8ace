// Package tokens implements the single-use deletion authorization
// protocol: a token is the presence of a zero-byte marker file named
// after a record identifier in a shared ephemeral directory. Creating
// the file grants one future deletion of that record; consuming it
// removes the file.
package tokens

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const prefix = "boardguard-allow-"

// Store is a filesystem-backed set of single-use permission markers.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir, or the system temp directory
// when dir is empty.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Store{dir: dir}
}

// Dir returns the token directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the marker file path for a record identifier. This is
// also the remediation surface: creating this exact file authorizes one
// deletion of the record.
func (s *Store) Path(recordID string) string {
	return filepath.Join(s.dir, prefix+sanitize(recordID))
}

// Has reports whether a token is currently granted for recordID.
func (s *Store) Has(recordID string) bool {
	_, err := os.Stat(s.Path(recordID))
	return err == nil
}

// Consume removes the token for recordID. Consuming an absent token is
// not an error. The rename step makes the check-then-delete pair
// exclusive: of two concurrent consumers, only one wins the rename.
func (s *Store) Consume(recordID string) error {
	path := s.Path(recordID)
	claimed := fmt.Sprintf("%s.consumed.%d", path, os.Getpid())
	if err := os.Rename(path, claimed); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return os.Remove(claimed)
}

// Grant creates a token for recordID. Granting an already-granted
// record is not an error.
func (s *Store) Grant(recordID string) error {
	f, err := os.OpenFile(s.Path(recordID), os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	return f.Close()
}

// Revoke removes an unconsumed token. Revoking an absent token is not
// an error.
func (s *Store) Revoke(recordID string) error {
	err := os.Remove(s.Path(recordID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List returns the record identifiers of all currently granted tokens,
// sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if strings.Contains(name, ".consumed.") {
			continue
		}
		ids = append(ids, strings.TrimPrefix(name, prefix))
	}
	sort.Strings(ids)
	return ids, nil
}

// sanitize keeps record identifiers filesystem-safe. Identifiers are
// opaque strings; separators and parent references must not escape the
// token directory.
func sanitize(recordID string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", "..", "_")
	return r.Replace(recordID)
}
