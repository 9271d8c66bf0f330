package testutil

import (
	"testing"

	"albumdex/internal/auth"
	"albumdex/internal/catalog"
	"albumdex/internal/fixtures"
	"albumdex/internal/model"
	"albumdex/internal/store"
	"albumdex/internal/vault"
)

// ServiceFixture bundles a catalog service with the collaborators a test may
// want to inspect or mutate.
type ServiceFixture struct {
	Service *catalog.Service
	Store   *store.MemoryStore
	Session *auth.Session
	Vault   *vault.MemoryVault
	Clock   *StubClock
	IDs     *StubIDGenerator
}

// NewServiceFixture builds a service over the seed fixtures with a session
// logged in as role. encryptor may be nil.
func NewServiceFixture(t *testing.T, role model.Role, encryptor catalog.Encryptor) *ServiceFixture {
	t.Helper()

	f := &ServiceFixture{
		Store:   NewSeededStore(t),
		Session: NewSession(role),
		Vault:   NewTestVault(),
		Clock:   FixedClock(),
		IDs:     NewStubIDGenerator(),
	}
	f.Service = catalog.NewService(f.Store, f.Session, f.Vault, encryptor, nil, nil, f.Clock, f.IDs)
	return f
}

// NewSeededStore returns a memory store holding the seed fixtures.
func NewSeededStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	seed, err := fixtures.Catalog()
	if err != nil {
		t.Fatalf("loading fixtures: %v", err)
	}
	return store.NewMemoryStore(seed)
}
