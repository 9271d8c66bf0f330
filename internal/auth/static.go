package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"albumdex/internal/model"
)

// StaticStore is a credential list held in memory, loaded from a JSON
// array of {"username", "password"} objects. Passwords are compared in
// plaintext and added users are lost when the process exits.
type StaticStore struct {
	mu    sync.RWMutex
	creds []model.Credential
}

var _ CredentialStore = (*StaticStore)(nil)

// NewStaticStore creates a store holding creds. Roles are dropped: the
// static list has no role model.
func NewStaticStore(creds []model.Credential) *StaticStore {
	s := &StaticStore{creds: make([]model.Credential, 0, len(creds))}
	for _, c := range creds {
		s.creds = append(s.creds, model.Credential{Username: c.Username, Password: c.Password})
	}
	return s
}

// ReadStaticStore parses a credential array from r.
func ReadStaticStore(r io.Reader) (*StaticStore, error) {
	var creds []model.Credential
	if err := json.NewDecoder(r).Decode(&creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	return NewStaticStore(creds), nil
}

// LoadStaticStore reads a credential file from disk.
func LoadStaticStore(path string) (*StaticStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening credential file: %w", err)
	}
	defer f.Close()
	return ReadStaticStore(f)
}

func (s *StaticStore) Authenticate(_ context.Context, username, password string) (*model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.creds {
		if c.Username == username && c.Password == password {
			return &model.Identity{Username: c.Username}, nil
		}
	}
	return nil, nil
}

func (s *StaticStore) UserExists(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.creds {
		if c.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *StaticStore) AddUser(_ context.Context, cred model.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = append(s.creds, model.Credential{Username: cred.Username, Password: cred.Password})
	return nil
}

func (s *StaticStore) ListUsernames(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.creds))
	for i, c := range s.creds {
		out[i] = c.Username
	}
	return out, nil
}

// Persistent reports whether added users survive a restart.
func (*StaticStore) Persistent() bool { return false }
