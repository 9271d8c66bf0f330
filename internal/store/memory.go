package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"albumdex/internal/catalog"
	"albumdex/internal/model"
)

// MemoryStore keeps the catalog in process memory. Nothing survives a
// restart. Records are copied on the way in and out so callers never share
// slices with the store. Safe for concurrent use; last writer wins.
type MemoryStore struct {
	mu      sync.RWMutex
	albums  []model.Album
	players []model.Player
	teams   []model.Team
}

var _ catalog.Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store holding a copy of seed.
func NewMemoryStore(seed model.Catalog) *MemoryStore {
	s := &MemoryStore{}
	s.load(seed)
	return s
}

func (s *MemoryStore) load(c model.Catalog) {
	s.albums = slices.Clone(c.Albums)
	if s.albums == nil {
		s.albums = []model.Album{}
	}
	s.players = make([]model.Player, len(c.Players))
	for i, p := range c.Players {
		s.players[i] = p.Clone()
	}
	s.teams = make([]model.Team, len(c.Teams))
	for i, t := range c.Teams {
		s.teams[i] = t.Clone()
	}
}

// find returns the index of the record with id, or -1.
func find[T any](items []T, id string, idOf func(T) string) int {
	return slices.IndexFunc(items, func(it T) bool { return idOf(it) == id })
}

func albumID(a model.Album) string   { return a.ID }
func playerID(p model.Player) string { return p.ID }
func teamID(t model.Team) string     { return t.ID }

func (s *MemoryStore) ListAlbums(context.Context) ([]model.Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.albums), nil
}

func (s *MemoryStore) FindAlbum(_ context.Context, id string) (*model.Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := find(s.albums, id, albumID)
	if i < 0 {
		return nil, nil
	}
	a := s.albums[i]
	return &a, nil
}

func (s *MemoryStore) InsertAlbum(_ context.Context, album model.Album) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if find(s.albums, album.ID, albumID) >= 0 {
		return fmt.Errorf("album %s already exists", album.ID)
	}
	s.albums = slices.Insert(s.albums, 0, album)
	return nil
}

func (s *MemoryStore) UpdateAlbum(_ context.Context, album model.Album) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.albums, album.ID, albumID)
	if i < 0 {
		return false, nil
	}
	s.albums[i] = album
	return true, nil
}

func (s *MemoryStore) DeleteAlbum(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.albums, id, albumID)
	if i < 0 {
		return false, nil
	}
	s.albums = slices.Delete(s.albums, i, i+1)
	return true, nil
}

func (s *MemoryStore) ListPlayers(context.Context) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Player, len(s.players))
	for i, p := range s.players {
		out[i] = p.Clone()
	}
	return out, nil
}

func (s *MemoryStore) FindPlayer(_ context.Context, id string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := find(s.players, id, playerID)
	if i < 0 {
		return nil, nil
	}
	p := s.players[i].Clone()
	return &p, nil
}

func (s *MemoryStore) InsertPlayer(_ context.Context, player model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if find(s.players, player.ID, playerID) >= 0 {
		return fmt.Errorf("player %s already exists", player.ID)
	}
	s.players = slices.Insert(s.players, 0, player.Clone())
	return nil
}

func (s *MemoryStore) UpdatePlayer(_ context.Context, player model.Player) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.players, player.ID, playerID)
	if i < 0 {
		return false, nil
	}
	s.players[i] = player.Clone()
	return true, nil
}

func (s *MemoryStore) DeletePlayer(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.players, id, playerID)
	if i < 0 {
		return false, nil
	}
	s.players = slices.Delete(s.players, i, i+1)
	return true, nil
}

func (s *MemoryStore) ListTeams(context.Context) ([]model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Team, len(s.teams))
	for i, t := range s.teams {
		out[i] = t.Clone()
	}
	return out, nil
}

func (s *MemoryStore) FindTeam(_ context.Context, id string) (*model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := find(s.teams, id, teamID)
	if i < 0 {
		return nil, nil
	}
	t := s.teams[i].Clone()
	return &t, nil
}

func (s *MemoryStore) InsertTeam(_ context.Context, team model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if find(s.teams, team.ID, teamID) >= 0 {
		return fmt.Errorf("team %s already exists", team.ID)
	}
	s.teams = slices.Insert(s.teams, 0, team.Clone())
	return nil
}

func (s *MemoryStore) UpdateTeam(_ context.Context, team model.Team) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.teams, team.ID, teamID)
	if i < 0 {
		return false, nil
	}
	s.teams[i] = team.Clone()
	return true, nil
}

func (s *MemoryStore) DeleteTeam(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.teams, id, teamID)
	if i < 0 {
		return false, nil
	}
	s.teams = slices.Delete(s.teams, i, i+1)
	return true, nil
}

func (s *MemoryStore) ReplaceAll(_ context.Context, c model.Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(c)
	return nil
}

// Close is a no-op.
func (*MemoryStore) Close() error { return nil }
