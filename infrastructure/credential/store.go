// Package credential persists the session token on device. The file store
// is the only component allowed to touch the credential at rest.
package credential

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	apperrors "echoclient/pkg/errors"
)

// record is the on-disk shape of the stored credential.
type record struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"saved_at"`
}

// FileStore keeps exactly one opaque credential in a mode-0600 JSON file.
// Absence of the file means anonymous. Storage failures are non-fatal:
// Load fails open to the logged-out state, never to an authenticated one.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Save persists the token, replacing any previous credential.
func (s *FileStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return apperrors.NewStorageError("save credential", err)
	}

	data, err := json.Marshal(record{Token: token, SavedAt: time.Now().UTC()})
	if err != nil {
		return apperrors.NewStorageError("save credential", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return apperrors.NewStorageError("save credential", err)
	}
	return nil
}

// Load retrieves the stored token. Any failure, including an unreadable
// or corrupt file, is reported as "no credential".
func (s *FileStore) Load() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("credential file unreadable, treating as anonymous",
				zap.String("path", s.path),
				zap.Error(err),
			)
		}
		return "", false
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Warn("credential file corrupt, treating as anonymous",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return "", false
	}
	if rec.Token == "" {
		return "", false
	}
	return rec.Token, true
}

// Clear removes the stored credential. A missing file is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return apperrors.NewStorageError("clear credential", err)
	}
	return nil
}
