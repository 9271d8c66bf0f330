package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"albumdex/internal/catalog"
)

// FileSystemVault stores scans and snapshots under a local directory:
//
//	<root>/
//	  scans/
//	    <checksum>.pdf
//	  snapshots/
//	    <name>          (snapshot bytes)
//	    <name>.version  (decimal version number)
type FileSystemVault struct {
	name        string
	root        string
	scanDir     string
	snapshotDir string
}

var _ catalog.Vault = (*FileSystemVault)(nil)

// NewFileSystemVault creates the directory layout under root if needed.
func NewFileSystemVault(name, root string) (*FileSystemVault, error) {
	v := &FileSystemVault{
		name:        name,
		root:        root,
		scanDir:     filepath.Join(root, "scans"),
		snapshotDir: filepath.Join(root, "snapshots"),
	}
	for _, dir := range []string{v.scanDir, v.snapshotDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create vault directory: %w", err)
		}
	}
	return v, nil
}

// Name returns the configured vault name.
func (v *FileSystemVault) Name() string { return v.name }

// checkKey rejects keys that would escape the vault directories.
func checkKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("invalid vault key %q", key)
	}
	return nil
}

func (v *FileSystemVault) scanPath(checksum string) string {
	return filepath.Join(v.scanDir, checksum+".pdf")
}

// PutContent stores a scan. An existing file with the same checksum is kept
// and r is drained.
func (v *FileSystemVault) PutContent(_ context.Context, checksum string, r io.Reader, size int64) error {
	if err := checkKey(checksum); err != nil {
		return err
	}
	dest := v.scanPath(checksum)
	if _, err := os.Stat(dest); err == nil {
		written, err := io.Copy(io.Discard, r)
		if err != nil {
			return fmt.Errorf("failed to read content: %w", err)
		}
		if written != size {
			return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
		}
		return nil
	}
	return writeAtomic(dest, r, size)
}

func (v *FileSystemVault) GetContent(_ context.Context, checksum string, w io.Writer) error {
	if err := checkKey(checksum); err != nil {
		return err
	}
	return copyFile(v.scanPath(checksum), w, "content "+checksum)
}

// PutMetadata writes the snapshot first and the version second, so a reader
// never sees a version whose bytes are missing.
func (v *FileSystemVault) PutMetadata(_ context.Context, name string, r io.Reader, size int64, version int64) error {
	if err := checkKey(name); err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(v.snapshotDir, name), r, size); err != nil {
		return err
	}
	data := strconv.FormatInt(version, 10)
	return writeAtomic(filepath.Join(v.snapshotDir, name+".version"), strings.NewReader(data), int64(len(data)))
}

func (v *FileSystemVault) GetMetadata(_ context.Context, name string, w io.Writer) error {
	if err := checkKey(name); err != nil {
		return err
	}
	return copyFile(filepath.Join(v.snapshotDir, name), w, fmt.Sprintf("metadata %q", name))
}

// GetMetadataVersion returns 0 when no version file exists.
func (v *FileSystemVault) GetMetadataVersion(_ context.Context, name string) (int64, error) {
	if err := checkKey(name); err != nil {
		return 0, err
	}
	data, err := os.ReadFile(filepath.Join(v.snapshotDir, name+".version"))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading version file: %w", err)
	}
	version, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing version: %w", err)
	}
	return version, nil
}

// ValidateSetup checks that both directories exist and accept writes.
func (v *FileSystemVault) ValidateSetup(context.Context) error {
	info, err := os.Stat(v.root)
	if err != nil {
		return fmt.Errorf("vault root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("vault root is not a directory: %s", v.root)
	}
	for _, dir := range []string{v.scanDir, v.snapshotDir} {
		f, err := os.CreateTemp(dir, ".probe-*")
		if err != nil {
			return fmt.Errorf("vault directory not writable: %w", err)
		}
		f.Close()
		os.Remove(f.Name())
	}
	return nil
}

// writeAtomic writes r to destPath through a temp file in the same directory.
func writeAtomic(destPath string, r io.Reader, expectedSize int64) error {
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	success = true
	return nil
}

func copyFile(path string, w io.Writer, what string) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", what, catalog.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return nil
}
