package catalog

import (
	"context"
	"io"
)

// Vault stores album scans and catalog snapshots.
// Content is addressed by SHA-256 checksum; metadata items are addressed by
// name and carry a version number that increases with every export.
type Vault interface {
	// PutContent stores content identified by its checksum.
	// Storing the same checksum twice is safe.
	// size is the number of bytes that will be read from r.
	PutContent(ctx context.Context, checksum string, r io.Reader, size int64) error

	// GetContent retrieves content by checksum and writes it to w.
	GetContent(ctx context.Context, checksum string, w io.Writer) error

	// PutMetadata stores a named metadata item with its version.
	// Known names: "catalog" (JSON snapshot, possibly encrypted).
	PutMetadata(ctx context.Context, name string, r io.Reader, size int64, version int64) error

	// GetMetadata retrieves a named metadata item and writes it to w.
	GetMetadata(ctx context.Context, name string, w io.Writer) error

	// GetMetadataVersion returns the stored version of a metadata item, or 0
	// if nothing has been stored under that name.
	GetMetadataVersion(ctx context.Context, name string) (int64, error)

	// ValidateSetup verifies that the vault is reachable and writable.
	ValidateSetup(ctx context.Context) error
}
