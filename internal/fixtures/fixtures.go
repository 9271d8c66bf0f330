// Package fixtures embeds the seed catalog and credential list.
package fixtures

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"albumdex/internal/model"
)

//go:embed data/*.json
var data embed.FS

// Catalog returns a fresh copy of the seed albums, players and teams.
func Catalog() (model.Catalog, error) {
	var c model.Catalog
	if err := decode("data/albums.json", &c.Albums); err != nil {
		return model.Catalog{}, err
	}
	if err := decode("data/players.json", &c.Players); err != nil {
		return model.Catalog{}, err
	}
	if err := decode("data/teams.json", &c.Teams); err != nil {
		return model.Catalog{}, err
	}
	return c, nil
}

// MustCatalog is Catalog for callers that treat broken fixtures as a bug.
func MustCatalog() model.Catalog {
	c, err := Catalog()
	if err != nil {
		panic(err)
	}
	return c
}

// Users returns the seed credential list.
func Users() ([]model.Credential, error) {
	var creds []model.Credential
	if err := decode("data/users.json", &creds); err != nil {
		return nil, err
	}
	return creds, nil
}

// UsersJSON returns the raw seed credential file.
func UsersJSON() []byte {
	b, err := data.ReadFile("data/users.json")
	if err != nil {
		panic(err)
	}
	return b
}

func decode(name string, v any) error {
	b, err := data.ReadFile(name)
	if err != nil {
		return fmt.Errorf("reading fixture %s: %w", name, err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parsing fixture %s: %w", name, err)
	}
	return nil
}
