package app

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"albumdex/internal/auth"
	"albumdex/internal/catalog"
	"albumdex/internal/config"
	"albumdex/internal/database"
	"albumdex/internal/encryption"
	"albumdex/internal/fixtures"
	"albumdex/internal/model"
	"albumdex/internal/store"
	"albumdex/internal/vault"
)

// App is the application layer between the CLI and the catalog service.
// It constructs all dependencies from config, hydrates the session from the
// session file and manages the store lifecycle on Close.
type App struct {
	cfg       *config.Config
	store     catalog.Store
	users     auth.CredentialStore
	session   *auth.Session
	auth      *auth.Authenticator
	vault     catalog.Vault
	encryptor catalog.Encryptor
	service   *catalog.Service
	clock     catalog.Clock
	logger    *slog.Logger
	op        *Operation
	logFile   *os.File
}

// Options tunes NewApp for callers other than the CLI.
type Options struct {
	// StderrLevel is the lowest level copied to stderr. Defaults to Warn.
	StderrLevel slog.Leveler
	// Clock defaults to the wall clock.
	Clock catalog.Clock
	// IDs defaults to random UUIDs.
	IDs catalog.IDGenerator
}

// NewApp creates a fully wired App from the given config.
// command identifies the CLI command being run (e.g. "albums add", "login").
// The caller must call Close when done.
func NewApp(ctx context.Context, cfg *config.Config, command string, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	clock := opts.Clock
	if clock == nil {
		clock = catalog.RealClock{}
	}
	ids := opts.IDs
	if ids == nil {
		ids = catalog.UUIDGenerator{}
	}
	var stderrLevel slog.Leveler = slog.LevelWarn
	if opts.StderrLevel != nil {
		stderrLevel = opts.StderrLevel
	}

	opID := clock.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID, stderrLevel.Level())
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger = logger.With("command", command)
	adapter := &slogAdapter{l: logger}

	a := &App{
		cfg:     cfg,
		clock:   clock,
		logger:  logger,
		logFile: logFile,
		op:      NewOperation(command, clock.Now()),
	}

	a.store, err = store.NewStoreFromConfig(ctx, cfg.Store, clock)
	if err != nil {
		a.closeAll()
		return nil, fmt.Errorf("creating store: %w", err)
	}

	var tokens auth.TokenIssuer
	a.users, tokens, err = newCredentialStore(ctx, cfg.Auth, a.store)
	if err != nil {
		a.closeAll()
		return nil, fmt.Errorf("creating credential store: %w", err)
	}

	ttl, err := cfg.Auth.TokenTTLDuration()
	if err != nil {
		a.closeAll()
		return nil, err
	}
	var file *auth.SessionFile
	if cfg.SessionPath != "" {
		file = auth.NewSessionFile(cfg.SessionPath)
	}
	a.session = auth.NewSession(clock)
	a.auth = auth.NewAuthenticator(a.users, a.session, file, tokens, ttl, adapter)
	if err := a.auth.Restore(ctx); err != nil {
		a.closeAll()
		return nil, fmt.Errorf("restoring session: %w", err)
	}

	a.vault, err = vault.NewVaultFromConfig(ctx, cfg.Vault)
	if err != nil {
		a.closeAll()
		return nil, fmt.Errorf("creating vault: %w", err)
	}

	a.encryptor, err = encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		a.closeAll()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	a.service = catalog.NewService(a.store, a.session, a.vault, a.encryptor,
		catalog.NewLister(cfg.CollationTag()), adapter, clock, ids)

	logger.Debug("app ready", "store", storeType(cfg.Store), "auth", authType(cfg.Auth))
	return a, nil
}

// newCredentialStore returns the credential store selected by cfg and, for
// the database variant, the token issuer backing it.
func newCredentialStore(ctx context.Context, cfg config.AuthConfig, st catalog.Store) (auth.CredentialStore, auth.TokenIssuer, error) {
	switch cfg.Type {
	case "", "static":
		if cfg.CredentialsPath != "" {
			s, err := auth.LoadStaticStore(cfg.CredentialsPath)
			if err != nil {
				return nil, nil, err
			}
			return s, nil, nil
		}
		s, err := auth.ReadStaticStore(bytes.NewReader(fixtures.UsersJSON()))
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	case "database":
		db, ok := st.(*database.SQLiteDatabase)
		if !ok {
			return nil, nil, fmt.Errorf("database auth requires the sqlite store")
		}
		creds, err := fixtures.Users()
		if err != nil {
			return nil, nil, err
		}
		// The first seeded user administers the rest.
		if len(creds) > 0 && creds[0].Role == model.RoleNone {
			creds[0].Role = model.RoleSuperAdmin
		}
		if _, err := db.SeedUsers(ctx, creds); err != nil {
			return nil, nil, err
		}
		if _, err := db.PurgeExpiredTokens(ctx); err != nil {
			return nil, nil, fmt.Errorf("purging expired tokens: %w", err)
		}
		return db, db, nil
	default:
		return nil, nil, fmt.Errorf("unknown auth type: %s", cfg.Type)
	}
}

func storeType(cfg config.StoreConfig) string {
	if cfg.Type == "" {
		return "memory"
	}
	return cfg.Type
}

func authType(cfg config.AuthConfig) string {
	if cfg.Type == "" {
		return "static"
	}
	return cfg.Type
}

// Config returns the configuration the app was built from.
func (a *App) Config() *config.Config { return a.cfg }

// Service returns the catalog service.
func (a *App) Service() *catalog.Service { return a.service }

// Auth returns the authenticator driving the session.
func (a *App) Auth() *auth.Authenticator { return a.auth }

// Session returns the current session.
func (a *App) Session() *auth.Session { return a.session }

// Encryptor returns the snapshot encryptor, or nil when snapshots are
// stored in plaintext.
func (a *App) Encryptor() catalog.Encryptor { return a.encryptor }

// Operation returns the record of the running command.
func (a *App) Operation() *Operation { return a.op }

// SetupEncryption generates the snapshot key pair.
func (a *App) SetupEncryption(passphrase string) error {
	if a.encryptor == nil {
		return fmt.Errorf("encryption is not enabled in the config")
	}
	if err := a.encryptor.Setup(passphrase); err != nil {
		return fmt.Errorf("setting up encryption: %w", err)
	}
	a.logger.Info("encryption configured")
	return nil
}

// VaultName returns the configured vault name, or "" when there is none.
func (a *App) VaultName() string {
	if a.vault == nil {
		return ""
	}
	return a.cfg.Vault.Name
}

// CheckVault verifies that the configured vault is reachable and writable.
func (a *App) CheckVault(ctx context.Context) error {
	if a.vault == nil {
		return catalog.ErrNoVault
	}
	if err := a.vault.ValidateSetup(ctx); err != nil {
		return fmt.Errorf("validating vault: %w", err)
	}
	return nil
}

// Close logs the operation outcome and releases the store and log file.
func (a *App) Close() error {
	args := []any{"status", a.op.Status, "duration", a.op.Duration(a.clock.Now())}
	if a.op.Err != nil {
		args = append(args, "error", a.op.Err)
	}
	a.logger.Info("command finished", args...)
	return a.closeAll()
}

func (a *App) closeAll() error {
	var firstErr error
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			firstErr = fmt.Errorf("closing store: %w", err)
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
