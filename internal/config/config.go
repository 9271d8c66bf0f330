package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
)

// Config represents the main configuration for albumdex.
type Config struct {
	BaseDir     string           `toml:"base_dir"`
	LogDir      string           `toml:"log_dir"`
	SessionPath string           `toml:"session_path"`
	Collation   string           `toml:"collation"` // BCP 47 tag used to sort titles, e.g. "es"
	Store       StoreConfig      `toml:"store"`
	Auth        AuthConfig       `toml:"auth"`
	Vault       VaultConfig      `toml:"vault"`
	Encryption  EncryptionConfig `toml:"encryption"`
}

// StoreConfig selects where catalog records live.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StoreConfig struct {
	Type       string `toml:"type"`                  // "memory" (default), "sqlite", or "sqlite-memory"
	SQLitePath string `toml:"sqlite_path,omitempty"` // only used for type=sqlite
	SeedPath   string `toml:"seed_path,omitempty"`   // catalog JSON to seed from instead of the built-in fixtures
}

// AuthConfig selects the credential store.
type AuthConfig struct {
	Type            string `toml:"type"`                       // "static" (default) or "database"
	CredentialsPath string `toml:"credentials_path,omitempty"` // static only; empty uses the built-in list
	TokenTTL        string `toml:"token_ttl,omitempty"`        // database only, e.g. "12h"
}

// TokenTTLDuration parses TokenTTL. Empty yields zero, meaning the default.
func (c AuthConfig) TokenTTLDuration() (time.Duration, error) {
	if c.TokenTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.TokenTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid token_ttl %q: %w", c.TokenTTL, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("token_ttl must be positive, got %s", d)
	}
	return d, nil
}

// VaultConfig represents configuration for the scan and snapshot vault.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type VaultConfig struct {
	Type string `toml:"type"` // "" (none), "memory", "s3", or "filesystem"
	Name string `toml:"name"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket   string `toml:"s3_bucket,omitempty"`
	S3Prefix   string `toml:"s3_prefix,omitempty"`
	S3Region   string `toml:"s3_region,omitempty"`
	S3Endpoint string `toml:"s3_endpoint,omitempty"` // S3-compatible services; empty uses AWS

	// Static keys; both empty means the default AWS credential chain.
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty"`
}

// EncryptionConfig holds paths to the age key pair used for snapshots.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "" or "none" (plaintext), "age", or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// NewConfig creates a Config rooted at baseDir with every default filled in.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:     baseDir,
		LogDir:      filepath.Join(baseDir, "log"),
		SessionPath: filepath.Join(baseDir, "session.json"),
		Collation:   "es",
		Store:       StoreConfig{Type: "memory"},
		Auth:        AuthConfig{Type: "static"},
		Vault: VaultConfig{
			Type:        "filesystem",
			Name:        "local",
			FSVaultRoot: filepath.Join(baseDir, "vault"),
		},
		Encryption: EncryptionConfig{
			Type:           "none",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "albumdex.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "albumdex.key"),
		},
	}
}

// Validate checks the fields that can be checked without touching the
// outside world.
func (c *Config) Validate() error {
	if c.Collation != "" {
		if _, err := language.Parse(c.Collation); err != nil {
			return fmt.Errorf("invalid collation %q: %w", c.Collation, err)
		}
	}
	switch c.Store.Type {
	case "", "memory", "sqlite-memory":
	case "sqlite":
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("sqlite store requires sqlite_path to be set")
		}
	default:
		return fmt.Errorf("unknown store type: %q", c.Store.Type)
	}
	switch c.Auth.Type {
	case "", "static":
	case "database":
		if c.Store.Type != "sqlite" && c.Store.Type != "sqlite-memory" {
			return fmt.Errorf("database auth requires the sqlite store")
		}
	default:
		return fmt.Errorf("unknown auth type: %q", c.Auth.Type)
	}
	if _, err := c.Auth.TokenTTLDuration(); err != nil {
		return err
	}
	return nil
}

// CollationTag returns the parsed collation language, defaulting to Spanish.
func (c *Config) CollationTag() language.Tag {
	if c.Collation == "" {
		return language.Spanish
	}
	tag, err := language.Parse(c.Collation)
	if err != nil {
		return language.Spanish
	}
	return tag
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to a new file at path. An existing file is never
// overwritten.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
