package vault

import (
	"context"
	"fmt"

	"albumdex/internal/catalog"
	"albumdex/internal/config"
)

// NewVaultFromConfig creates a Vault implementation based on the vault config
// type. An empty type means no vault; the returned Vault is nil.
func NewVaultFromConfig(ctx context.Context, cfg config.VaultConfig) (catalog.Vault, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemoryVault(cfg.Name), nil
	case "s3":
		return NewS3VaultFromConfig(ctx, cfg)
	case "filesystem":
		if cfg.FSVaultRoot == "" {
			return nil, fmt.Errorf("filesystem vault requires fs_vault_root to be set")
		}
		return NewFileSystemVault(cfg.Name, cfg.FSVaultRoot)
	default:
		return nil, fmt.Errorf("unknown vault type: %s", cfg.Type)
	}
}
