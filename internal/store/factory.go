package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"albumdex/internal/catalog"
	"albumdex/internal/config"
	"albumdex/internal/database"
	"albumdex/internal/fixtures"
	"albumdex/internal/model"
)

// NewStoreFromConfig creates the catalog store described by cfg. Empty
// stores start from the seed at cfg.SeedPath, or the built-in fixtures when
// no path is set.
func NewStoreFromConfig(ctx context.Context, cfg config.StoreConfig, clock catalog.Clock) (catalog.Store, error) {
	seed, err := LoadSeed(cfg.SeedPath)
	if err != nil {
		return nil, err
	}

	switch cfg.Type {
	case "", "memory":
		return NewMemoryStore(seed), nil
	case "sqlite", "sqlite-memory":
		return database.NewDatabaseFromConfig(ctx, cfg, seed, clock)
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}

// LoadSeed reads a catalog JSON document from path. An empty path yields the
// built-in fixtures.
func LoadSeed(path string) (model.Catalog, error) {
	if path == "" {
		return fixtures.Catalog()
	}
	f, err := os.Open(path)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("opening seed file: %w", err)
	}
	defer f.Close()

	var c model.Catalog
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return model.Catalog{}, fmt.Errorf("parsing seed file %s: %w", path, err)
	}
	if err := catalog.ValidateCatalog(c); err != nil {
		return model.Catalog{}, fmt.Errorf("seed file %s: %w", path, err)
	}
	for i := range c.Players {
		p := &c.Players[i]
		p.TotalSkills = catalog.CalculateTotalSkills(p.Position, p.Skills)
	}
	return c, nil
}
