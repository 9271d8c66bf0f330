package database

import (
	"context"
	"fmt"

	"albumdex/internal/catalog"
	"albumdex/internal/config"
	"albumdex/internal/model"
)

// NewDatabaseFromConfig opens the sqlite store described by cfg, brings its
// schema up to date and seeds an empty catalog with seed.
func NewDatabaseFromConfig(ctx context.Context, cfg config.StoreConfig, seed model.Catalog, clock catalog.Clock) (*SQLiteDatabase, error) {
	var path string
	switch cfg.Type {
	case "sqlite":
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite_path required for sqlite store")
		}
		path = cfg.SQLitePath
	case "sqlite-memory":
		path = ":memory:"
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}

	db, err := NewSQLiteDatabase(path, clock)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	if _, err := db.SeedIfEmpty(ctx, seed); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
