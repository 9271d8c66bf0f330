package vault

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"albumdex/internal/catalog"
)

// MemoryVault keeps scans and snapshots in process memory. It backs tests and
// the throwaway "memory" vault type. Safe for concurrent use.
type MemoryVault struct {
	name            string
	content         map[string][]byte // checksum -> scan bytes
	metadata        map[string][]byte // name -> snapshot bytes
	metadataVersion map[string]int64
	mu              sync.RWMutex
}

var _ catalog.Vault = (*MemoryVault)(nil)

// NewMemoryVault creates an empty vault with the given name.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:            name,
		content:         make(map[string][]byte),
		metadata:        make(map[string][]byte),
		metadataVersion: make(map[string]int64),
	}
}

// Name returns the configured vault name.
func (m *MemoryVault) Name() string { return m.name }

func readSized(r io.Reader, size int64) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	if int64(len(data)) != size {
		return nil, fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}
	return data, nil
}

func (m *MemoryVault) PutContent(_ context.Context, checksum string, r io.Reader, size int64) error {
	data, err := readSized(r, size)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content[checksum] = data
	return nil
}

func (m *MemoryVault) GetContent(_ context.Context, checksum string, w io.Writer) error {
	m.mu.RLock()
	data, ok := m.content[checksum]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("content %s: %w", checksum, catalog.ErrNotFound)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}
	return nil
}

func (m *MemoryVault) PutMetadata(_ context.Context, name string, r io.Reader, size int64, version int64) error {
	data, err := readSized(r, size)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[name] = data
	m.metadataVersion[name] = version
	return nil
}

func (m *MemoryVault) GetMetadata(_ context.Context, name string, w io.Writer) error {
	m.mu.RLock()
	data, ok := m.metadata[name]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("metadata %q: %w", name, catalog.ErrNotFound)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

func (m *MemoryVault) GetMetadataVersion(_ context.Context, name string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.metadataVersion[name], nil
}

// ValidateSetup always succeeds.
func (m *MemoryVault) ValidateSetup(context.Context) error {
	return nil
}
