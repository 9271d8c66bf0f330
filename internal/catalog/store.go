package catalog

import (
	"context"

	"albumdex/internal/model"
)

// Store persists the three record collections.
// Lookups return nil (and no error) when the id does not exist.
// Update and Delete report whether a record with that id was present.
type Store interface {
	// ListAlbums returns every album in collection order (newest insertions first).
	ListAlbums(ctx context.Context) ([]model.Album, error)
	FindAlbum(ctx context.Context, id string) (*model.Album, error)
	// InsertAlbum adds a new album at the front of the collection.
	InsertAlbum(ctx context.Context, album model.Album) error
	// UpdateAlbum replaces the stored album with the same ID.
	UpdateAlbum(ctx context.Context, album model.Album) (bool, error)
	DeleteAlbum(ctx context.Context, id string) (bool, error)

	ListPlayers(ctx context.Context) ([]model.Player, error)
	FindPlayer(ctx context.Context, id string) (*model.Player, error)
	InsertPlayer(ctx context.Context, player model.Player) error
	UpdatePlayer(ctx context.Context, player model.Player) (bool, error)
	DeletePlayer(ctx context.Context, id string) (bool, error)

	ListTeams(ctx context.Context) ([]model.Team, error)
	FindTeam(ctx context.Context, id string) (*model.Team, error)
	InsertTeam(ctx context.Context, team model.Team) error
	UpdateTeam(ctx context.Context, team model.Team) (bool, error)
	DeleteTeam(ctx context.Context, id string) (bool, error)

	// ReplaceAll discards every record and loads the given catalog in order.
	ReplaceAll(ctx context.Context, c model.Catalog) error

	// Close releases any resources held by the store.
	Close() error
}
