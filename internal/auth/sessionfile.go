package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"albumdex/internal/model"
)

// sessionRecord is the on-disk session layout.
type sessionRecord struct {
	Username  string     `json:"username"`
	Role      model.Role `json:"role,omitempty"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// SessionFile persists a session between CLI invocations.
type SessionFile struct {
	path string
}

// NewSessionFile creates a SessionFile at path.
func NewSessionFile(path string) *SessionFile {
	return &SessionFile{path: path}
}

// Path returns the file location.
func (f *SessionFile) Path() string { return f.path }

// Load hydrates s from the file. A missing file leaves s anonymous.
func (f *SessionFile) Load(s *Session) error {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading session file: %w", err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("parsing session file: %w", err)
	}
	if rec.Username == "" {
		return nil
	}
	var expiresAt time.Time
	if rec.ExpiresAt != nil {
		expiresAt = *rec.ExpiresAt
	}
	s.Begin(model.Identity{Username: rec.Username, Role: rec.Role}, rec.Token, expiresAt)
	return nil
}

// Save writes the current state of s. An anonymous session removes the file.
func (f *SessionFile) Save(s *Session) error {
	id, ok := s.Identity()
	if !ok {
		return f.Remove()
	}
	token, expiresAt := s.Token()
	rec := sessionRecord{Username: id.Username, Role: id.Role, Token: token}
	if !expiresAt.IsZero() {
		rec.ExpiresAt = &expiresAt
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("moving session file into place: %w", err)
	}
	return nil
}

// Remove deletes the file. A missing file is not an error.
func (f *SessionFile) Remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}
