// Package session owns the authenticated identity of the client: login,
// logout, and the single canonical persisted session record. No other
// component writes identity fields.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cinemabook/booking-client/internal/domain"
)

// Store persists the session record. Load returns (nil, nil) when no record
// exists; Clear removes every identity field in one step, so a partially
// cleared record can never be observed.
type Store interface {
	Load() (*domain.Session, error)
	Save(*domain.Session) error
	Clear() error
}

// FileStore keeps the session record as one JSON file under the user's
// config directory. Writes go through a temp file and rename so readers see
// either the old record or the new one, never a torn write.
type FileStore struct {
	path string
}

func NewFileStore() (*FileStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	return &FileStore{path: filepath.Join(dir, "cinebook", "session.json")}, nil
}

// NewFileStoreAt uses an explicit path. Tests point this at a temp dir.
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (*domain.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("invalid session record: %w", err)
	}

	return &sess, nil
}

func (s *FileStore) Save(sess *domain.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	payload, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return err
	}

	return os.Rename(tmp, s.path)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
