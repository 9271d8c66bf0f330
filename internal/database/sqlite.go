package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"albumdex/internal/auth"
	"albumdex/internal/catalog"
	"albumdex/internal/database/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase stores the catalog, users and tokens in SQLite.
type SQLiteDatabase struct {
	db       *sql.DB
	path     string
	clock    catalog.Clock
	hashCost int
}

var (
	_ catalog.Store        = (*SQLiteDatabase)(nil)
	_ auth.CredentialStore = (*SQLiteDatabase)(nil)
	_ auth.TokenIssuer     = (*SQLiteDatabase)(nil)
	_ auth.UserAdmin       = (*SQLiteDatabase)(nil)
)

// NewSQLiteDatabase opens the database at path, which can be a file path or
// ":memory:". The schema is not migrated; call MigrateUp or CheckMigrations.
// A nil clock uses the real time.
func NewSQLiteDatabase(path string, clock catalog.Clock) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return NewSQLiteDatabaseFromDB(db, path, clock), nil
}

// NewSQLiteDatabaseFromDB wraps an existing connection. The caller is
// responsible for the connection being configured like OpenConnection does.
func NewSQLiteDatabaseFromDB(db *sql.DB, path string, clock catalog.Clock) *SQLiteDatabase {
	if clock == nil {
		clock = catalog.RealClock{}
	}
	return &SQLiteDatabase{
		db:       db,
		path:     path,
		clock:    clock,
		hashCost: bcrypt.DefaultCost,
	}
}

// OpenConnection opens a SQLite connection with foreign keys enabled.
// An in-memory database is limited to one connection, since every new
// connection would otherwise see its own empty database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return db, nil
}

// SetHashCost changes the bcrypt cost used for new passwords. Tests lower it.
func (s *SQLiteDatabase) SetHashCost(cost int) {
	s.hashCost = cost
}

// Path returns the database location given at open time.
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// MigrateUp brings the schema to the latest version.
func (s *SQLiteDatabase) MigrateUp() error {
	return migrations.MigrateUp(s.db)
}

// CheckMigrations reports whether the schema matches this binary.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// BackupTo writes a complete copy of the database to destPath.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	if _, err := s.db.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// withTx runs fn in a transaction, committing when fn returns nil.
func (s *SQLiteDatabase) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// rowsAffected reports whether res touched at least one row.
func rowsAffected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}
	return n > 0, nil
}

// Column helpers

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

// nullJSON encodes v as JSON, or NULL when v is a nil slice.
func nullJSON[T any](v []T) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func fromJSON[T any](n sql.NullString) ([]T, error) {
	if !n.Valid {
		return nil, nil
	}
	out := []T{}
	if err := json.Unmarshal([]byte(n.String), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
