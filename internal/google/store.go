package google

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists a single credential record to a JSON file.
//
// Saves are atomic (write to a temp file in the same directory, then rename)
// so a concurrent reader never observes a partially written record.
// Concurrent writers are last-write-wins, which is acceptable because every
// writer holds a credential for the same underlying account.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the token file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads and parses the persisted credential. It returns ErrSourceAbsent
// when the file does not exist and ErrSourceMalformed when the file cannot
// be parsed.
func (s *Store) Load() (*Credential, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: token file %s", ErrSourceAbsent, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file %s: %w", s.path, err)
	}
	cred, err := ParseCredential(data)
	if err != nil {
		return nil, fmt.Errorf("token file %s: %w", s.path, err)
	}
	return cred, nil
}

// Save writes the credential atomically with owner-only permissions.
func (s *Store) Save(cred *Credential) error {
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing credential: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating token directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*.json")
	if err != nil {
		return fmt.Errorf("creating temp token file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting token file permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing token file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing token file %s: %w", s.path, err)
	}
	return nil
}
