package catalog

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"albumdex/internal/model"
)

const (
	// SnapshotName is the vault metadata name of a plaintext catalog snapshot.
	SnapshotName = "catalog"
	// EncryptedSnapshotName holds the snapshot when an encryptor is configured.
	EncryptedSnapshotName = "catalog.age"

	// MaxScanSize caps an uploaded album scan.
	MaxScanSize = 64 << 20
)

var pdfMagic = []byte("%PDF-")

// ErrNoVault is returned by scan and snapshot operations when no vault is
// configured.
var ErrNoVault = errors.New("no vault configured")

// SnapshotInfo describes a stored catalog snapshot.
type SnapshotInfo struct {
	Version int64
	Albums  int
	Players int
	Teams   int
}

// UploadScan stores a PDF scan of an album in the vault and records its
// checksum on the album. Returns the checksum.
func (s *Service) UploadScan(ctx context.Context, albumID string, r io.Reader) (string, error) {
	if err := s.require(model.PermContentEdit); err != nil {
		return "", err
	}
	if s.vault == nil {
		return "", ErrNoVault
	}
	album, err := s.GetAlbum(ctx, albumID)
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxScanSize+1))
	if err != nil {
		return "", fmt.Errorf("reading scan: %w", err)
	}
	if len(data) > MaxScanSize {
		return "", fmt.Errorf("scan exceeds %d bytes: %w", MaxScanSize, ErrInvalidScan)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return "", ErrInvalidScan
	}

	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])
	if err := s.vault.PutContent(ctx, checksum, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", fmt.Errorf("uploading scan to vault: %w", err)
	}

	album.ScanChecksum = checksum
	if err := s.saveAlbum(ctx, *album); err != nil {
		return "", err
	}
	s.logger.Info("album scan uploaded", "id", albumID, "checksum", checksum, "size", len(data), "user", s.actor())
	return checksum, nil
}

// DownloadScan writes an album's scan to w. Returns ErrNotFound when the
// album has no scan.
func (s *Service) DownloadScan(ctx context.Context, albumID string, w io.Writer) error {
	if s.vault == nil {
		return ErrNoVault
	}
	album, err := s.GetAlbum(ctx, albumID)
	if err != nil {
		return err
	}
	if album.ScanChecksum == "" {
		return fmt.Errorf("scan for album %s: %w", albumID, ErrNotFound)
	}
	if err := s.vault.GetContent(ctx, album.ScanChecksum, w); err != nil {
		return fmt.Errorf("retrieving scan from vault: %w", err)
	}
	return nil
}

// ExportSnapshot writes the whole catalog to the vault as a new snapshot
// version, encrypted when an encryptor is configured.
func (s *Service) ExportSnapshot(ctx context.Context) (*SnapshotInfo, error) {
	if s.vault == nil {
		return nil, ErrNoVault
	}
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	plain, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}

	name := s.snapshotName()
	payload := plain
	if s.encryptor != nil {
		var buf bytes.Buffer
		if err := s.encryptor.Encrypt(bytes.NewReader(plain), &buf); err != nil {
			return nil, fmt.Errorf("encrypting snapshot: %w", err)
		}
		payload = buf.Bytes()
	}

	current, err := s.vault.GetMetadataVersion(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot version: %w", err)
	}
	version := current + 1
	if err := s.vault.PutMetadata(ctx, name, bytes.NewReader(payload), int64(len(payload)), version); err != nil {
		return nil, fmt.Errorf("storing snapshot: %w", err)
	}

	info := &SnapshotInfo{
		Version: version,
		Albums:  len(snapshot.Albums),
		Players: len(snapshot.Players),
		Teams:   len(snapshot.Teams),
	}
	s.logger.Info("snapshot exported", "name", name, "version", version, "encrypted", s.encryptor != nil, "user", s.actor())
	return info, nil
}

// ImportSnapshot replaces every record with the latest snapshot in the
// vault. dc must be non-nil when snapshots are encrypted.
func (s *Service) ImportSnapshot(ctx context.Context, dc DecryptionContext) (*SnapshotInfo, error) {
	if err := s.require(model.PermContentManage); err != nil {
		return nil, err
	}
	if s.vault == nil {
		return nil, ErrNoVault
	}
	name := s.snapshotName()
	version, err := s.vault.GetMetadataVersion(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot version: %w", err)
	}
	if version == 0 {
		return nil, fmt.Errorf("snapshot %s: %w", name, ErrNotFound)
	}

	var plain bytes.Buffer
	if s.encryptor != nil {
		if dc == nil {
			return nil, fmt.Errorf("snapshot is encrypted but no passphrase was provided")
		}
		pr, pw := io.Pipe()
		vaultErrCh := make(chan error, 1)
		go func() {
			err := s.vault.GetMetadata(ctx, name, pw)
			pw.CloseWithError(err)
			vaultErrCh <- err
		}()
		decryptErr := dc.Decrypt(pr, &plain)
		pr.CloseWithError(decryptErr)
		vaultErr := <-vaultErrCh
		if decryptErr != nil {
			return nil, fmt.Errorf("decrypting snapshot: %w", decryptErr)
		}
		if vaultErr != nil {
			return nil, fmt.Errorf("retrieving snapshot: %w", vaultErr)
		}
	} else if err := s.vault.GetMetadata(ctx, name, &plain); err != nil {
		return nil, fmt.Errorf("retrieving snapshot: %w", err)
	}

	var snapshot model.Catalog
	if err := json.Unmarshal(plain.Bytes(), &snapshot); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if err := ValidateCatalog(snapshot); err != nil {
		return nil, fmt.Errorf("checking snapshot: %w", err)
	}
	for i := range snapshot.Players {
		p := &snapshot.Players[i]
		p.TotalSkills = CalculateTotalSkills(p.Position, p.Skills)
	}
	if err := s.store.ReplaceAll(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("replacing catalog: %w", err)
	}

	s.logger.Info("snapshot imported", "name", name, "version", version, "user", s.actor())
	return &SnapshotInfo{
		Version: version,
		Albums:  len(snapshot.Albums),
		Players: len(snapshot.Players),
		Teams:   len(snapshot.Teams),
	}, nil
}

// SnapshotVersion returns the latest stored snapshot version, 0 if none.
func (s *Service) SnapshotVersion(ctx context.Context) (int64, error) {
	if s.vault == nil {
		return 0, ErrNoVault
	}
	return s.vault.GetMetadataVersion(ctx, s.snapshotName())
}

func (s *Service) snapshotName() string {
	if s.encryptor != nil {
		return EncryptedSnapshotName
	}
	return SnapshotName
}

func (s *Service) snapshot(ctx context.Context) (*model.Catalog, error) {
	albums, err := s.store.ListAlbums(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing albums: %w", err)
	}
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}
	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	return &model.Catalog{Albums: albums, Players: players, Teams: teams}, nil
}

// ValidateCatalog checks a whole catalog before it replaces the stored one.
// Ids must be present and unique per collection, album types and player
// positions must be known.
func ValidateCatalog(c model.Catalog) error {
	seen := make(map[string]bool, len(c.Albums))
	for _, a := range c.Albums {
		if err := checkID("album", a.ID, seen); err != nil {
			return err
		}
		if !a.Type.Valid() {
			return invalid("album type", "album %s has unknown type %q", a.ID, a.Type)
		}
	}
	clear(seen)
	for _, p := range c.Players {
		if err := checkID("player", p.ID, seen); err != nil {
			return err
		}
		if !p.Position.Valid() {
			return invalid("position", "player %s has unknown position %q", p.ID, p.Position)
		}
	}
	clear(seen)
	for _, t := range c.Teams {
		if err := checkID("team", t.ID, seen); err != nil {
			return err
		}
	}
	return nil
}

func checkID(kind, id string, seen map[string]bool) error {
	if id == "" {
		return invalid("id", "%s without an id", kind)
	}
	if seen[id] {
		return invalid("id", "duplicate %s id %s", kind, id)
	}
	seen[id] = true
	return nil
}
