package catalog

import (
	"context"
	"fmt"

	"albumdex/internal/model"
)

// Authorizer is the view of the current session the service needs.
type Authorizer interface {
	// Identity returns the logged-in user, or false when anonymous.
	Identity() (model.Identity, bool)
	Can(permission model.Permission) bool
}

// Service coordinates the store, the session and the vault to implement
// every catalog operation the CLI and browser expose.
type Service struct {
	store     Store
	auth      Authorizer
	vault     Vault
	encryptor Encryptor
	lister    *Lister
	logger    Logger
	clock     Clock
	idgen     IDGenerator
}

// NewService creates a Service. vault and encryptor may be nil when scans
// and snapshots are not configured. A nil lister, logger, clock or idgen
// falls back to the default implementation.
func NewService(store Store, auth Authorizer, vault Vault, encryptor Encryptor, lister *Lister, logger Logger, clock Clock, idgen IDGenerator) *Service {
	if lister == nil {
		lister = defaultLister
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	if clock == nil {
		clock = RealClock{}
	}
	if idgen == nil {
		idgen = UUIDGenerator{}
	}
	return &Service{
		store:     store,
		auth:      auth,
		vault:     vault,
		encryptor: encryptor,
		lister:    lister,
		logger:    logger,
		clock:     clock,
		idgen:     idgen,
	}
}

// require returns ErrUnauthorized unless the session holds perm.
func (s *Service) require(perm model.Permission) error {
	if s.auth == nil || !s.auth.Can(perm) {
		return fmt.Errorf("%s: %w", perm, ErrUnauthorized)
	}
	return nil
}

func (s *Service) actor() string {
	if s.auth == nil {
		return ""
	}
	id, _ := s.auth.Identity()
	return id.Username
}

// Albums

// ListAlbums returns the albums matching q.
func (s *Service) ListAlbums(ctx context.Context, q AlbumQuery) ([]model.Album, error) {
	all, err := s.store.ListAlbums(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing albums: %w", err)
	}
	return s.lister.Albums(all, q), nil
}

// GetAlbum returns the album with id or ErrNotFound.
func (s *Service) GetAlbum(ctx context.Context, id string) (*model.Album, error) {
	a, err := s.store.FindAlbum(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding album: %w", err)
	}
	if a == nil {
		return nil, fmt.Errorf("album %s: %w", id, ErrNotFound)
	}
	return a, nil
}

// CreateAlbum validates the form and stores a new album at the front of the
// collection.
func (s *Service) CreateAlbum(ctx context.Context, form AlbumForm) (*model.Album, error) {
	if err := s.require(model.PermContentCreate); err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	album := form.Apply(s.idgen.New(), nil)
	if err := s.store.InsertAlbum(ctx, album); err != nil {
		return nil, fmt.Errorf("inserting album: %w", err)
	}
	s.logger.Info("album created", "id", album.ID, "title", album.Title, "user", s.actor())
	return &album, nil
}

// UpdateAlbum replaces the editable fields of an existing album.
func (s *Service) UpdateAlbum(ctx context.Context, id string, form AlbumForm) (*model.Album, error) {
	if err := s.require(model.PermContentEdit); err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	prev, err := s.GetAlbum(ctx, id)
	if err != nil {
		return nil, err
	}
	album := form.Apply(id, prev)
	if err := s.saveAlbum(ctx, album); err != nil {
		return nil, err
	}
	s.logger.Info("album updated", "id", id, "user", s.actor())
	return &album, nil
}

func (s *Service) saveAlbum(ctx context.Context, album model.Album) error {
	ok, err := s.store.UpdateAlbum(ctx, album)
	if err != nil {
		return fmt.Errorf("updating album: %w", err)
	}
	if !ok {
		return fmt.Errorf("album %s: %w", album.ID, ErrNotFound)
	}
	return nil
}

// DeleteAlbum removes an album. Player and team references to it are left
// untouched.
func (s *Service) DeleteAlbum(ctx context.Context, id string) error {
	if err := s.require(model.PermContentDelete); err != nil {
		return err
	}
	ok, err := s.store.DeleteAlbum(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting album: %w", err)
	}
	if !ok {
		return fmt.Errorf("album %s: %w", id, ErrNotFound)
	}
	s.logger.Info("album deleted", "id", id, "user", s.actor())
	return nil
}

// Players

// ListPlayers returns the players matching q.
func (s *Service) ListPlayers(ctx context.Context, q PlayerQuery) ([]model.Player, error) {
	all, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}
	return s.lister.Players(all, q), nil
}

// GetPlayer returns the player with id or ErrNotFound.
func (s *Service) GetPlayer(ctx context.Context, id string) (*model.Player, error) {
	p, err := s.store.FindPlayer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding player: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	return p, nil
}

// CreatePlayer validates the form and stores a new player with its skill
// total computed.
func (s *Service) CreatePlayer(ctx context.Context, form PlayerForm) (*model.Player, error) {
	if err := s.require(model.PermContentCreate); err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	player := form.Apply(s.idgen.New())
	if err := s.store.InsertPlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("inserting player: %w", err)
	}
	s.logger.Info("player created", "id", player.ID, "name", player.Name, "user", s.actor())
	return &player, nil
}

// UpdatePlayer replaces the editable fields of an existing player.
func (s *Service) UpdatePlayer(ctx context.Context, id string, form PlayerForm) (*model.Player, error) {
	if err := s.require(model.PermContentEdit); err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	player := form.Apply(id)
	ok, err := s.store.UpdatePlayer(ctx, player)
	if err != nil {
		return nil, fmt.Errorf("updating player: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	s.logger.Info("player updated", "id", id, "user", s.actor())
	return &player, nil
}

// DeletePlayer removes a player.
func (s *Service) DeletePlayer(ctx context.Context, id string) error {
	if err := s.require(model.PermContentDelete); err != nil {
		return err
	}
	ok, err := s.store.DeletePlayer(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting player: %w", err)
	}
	if !ok {
		return fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	s.logger.Info("player deleted", "id", id, "user", s.actor())
	return nil
}

// PlayerAlbums returns the albums the player appears in, in year-desc order.
// Ids that no longer match an album are skipped.
func (s *Service) PlayerAlbums(ctx context.Context, playerID string) ([]model.Album, error) {
	p, err := s.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return s.ListAlbums(ctx, AlbumQuery{IDs: allowList(p.AlbumIDs)})
}

// PlayerAge returns the player's current age in years, or -1 when the birth
// date is malformed.
func (s *Service) PlayerAge(p model.Player) int {
	return PlayerAge(p, s.clock.Now())
}

// Teams

// ListTeams returns the teams matching q.
func (s *Service) ListTeams(ctx context.Context, q TeamQuery) ([]model.Team, error) {
	all, err := s.store.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	return s.lister.Teams(all, q), nil
}

// GetTeam returns the team with id or ErrNotFound.
func (s *Service) GetTeam(ctx context.Context, id string) (*model.Team, error) {
	t, err := s.store.FindTeam(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding team: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("team %s: %w", id, ErrNotFound)
	}
	return t, nil
}

// CreateTeam validates the form and stores a new team.
func (s *Service) CreateTeam(ctx context.Context, form TeamForm) (*model.Team, error) {
	if err := s.require(model.PermContentCreate); err != nil {
		return nil, err
	}
	if err := form.Validate(s.clock.Now()); err != nil {
		return nil, err
	}
	team := form.Apply(s.idgen.New())
	if err := s.store.InsertTeam(ctx, team); err != nil {
		return nil, fmt.Errorf("inserting team: %w", err)
	}
	s.logger.Info("team created", "id", team.ID, "name", team.Name, "user", s.actor())
	return &team, nil
}

// UpdateTeam replaces the editable fields of an existing team.
func (s *Service) UpdateTeam(ctx context.Context, id string, form TeamForm) (*model.Team, error) {
	if err := s.require(model.PermContentEdit); err != nil {
		return nil, err
	}
	if err := form.Validate(s.clock.Now()); err != nil {
		return nil, err
	}
	team := form.Apply(id)
	ok, err := s.store.UpdateTeam(ctx, team)
	if err != nil {
		return nil, fmt.Errorf("updating team: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("team %s: %w", id, ErrNotFound)
	}
	s.logger.Info("team updated", "id", id, "user", s.actor())
	return &team, nil
}

// DeleteTeam removes a team.
func (s *Service) DeleteTeam(ctx context.Context, id string) error {
	if err := s.require(model.PermContentDelete); err != nil {
		return err
	}
	ok, err := s.store.DeleteTeam(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}
	if !ok {
		return fmt.Errorf("team %s: %w", id, ErrNotFound)
	}
	s.logger.Info("team deleted", "id", id, "user", s.actor())
	return nil
}

// TeamAlbums returns the albums linked to the team, in year-desc order.
func (s *Service) TeamAlbums(ctx context.Context, teamID string) ([]model.Album, error) {
	t, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return s.ListAlbums(ctx, AlbumQuery{IDs: allowList(t.AlbumIDs)})
}

// allowList turns an entity's album ids into a query allow-list. An entity
// without albums must match nothing, so nil becomes an empty list.
func allowList(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
