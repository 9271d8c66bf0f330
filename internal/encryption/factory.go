package encryption

import (
	"fmt"

	"albumdex/internal/catalog"
	"albumdex/internal/config"
)

// NewEncryptorFromConfig creates an Encryptor based on the configuration
// type. Snapshots stay plaintext for "" and "none", signalled by a nil
// Encryptor.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (catalog.Encryptor, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "age":
		if cfg.PublicKeyPath == "" || cfg.PrivateKeyPath == "" {
			return nil, fmt.Errorf("age encryption requires public_key_path and private_key_path")
		}
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
