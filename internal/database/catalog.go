package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"albumdex/internal/model"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Albums

const albumColumns = `id, title, year, publisher, cover_image, description, country, type, drive_link, scan_checksum`

func scanAlbum(row scanner) (model.Album, error) {
	var a model.Album
	var typ string
	err := row.Scan(&a.ID, &a.Title, &a.Year, &a.Publisher, &a.CoverImage, &a.Description, &a.Country, &typ, &a.DriveLink, &a.ScanChecksum)
	a.Type = model.AlbumType(typ)
	return a, err
}

func (s *SQLiteDatabase) ListAlbums(ctx context.Context) ([]model.Album, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+albumColumns+` FROM albums ORDER BY sort_key`)
	if err != nil {
		return nil, fmt.Errorf("listing albums: %w", err)
	}
	defer rows.Close()

	albums := []model.Album{}
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning album: %w", err)
		}
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

func (s *SQLiteDatabase) FindAlbum(ctx context.Context, id string) (*model.Album, error) {
	a, err := scanAlbum(s.db.QueryRowContext(ctx, `SELECT `+albumColumns+` FROM albums WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding album: %w", err)
	}
	return &a, nil
}

func insertAlbum(ctx context.Context, q querier, a model.Album, sortKey any) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO albums (id, sort_key, title, year, publisher, cover_image, description, country, type, drive_link, scan_checksum)
		VALUES (?, `+sortKeyExpr(sortKey, "albums")+`, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sortKeyArgs(sortKey, a.ID, a.Title, a.Year, a.Publisher, a.CoverImage, a.Description, a.Country, string(a.Type), a.DriveLink, a.ScanChecksum)...)
	if err != nil {
		return fmt.Errorf("inserting album: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) InsertAlbum(ctx context.Context, album model.Album) error {
	return insertAlbum(ctx, s.db, album, nil)
}

func (s *SQLiteDatabase) UpdateAlbum(ctx context.Context, a model.Album) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE albums SET title = ?, year = ?, publisher = ?, cover_image = ?, description = ?,
			country = ?, type = ?, drive_link = ?, scan_checksum = ?
		WHERE id = ?`,
		a.Title, a.Year, a.Publisher, a.CoverImage, a.Description, a.Country, string(a.Type), a.DriveLink, a.ScanChecksum, a.ID)
	if err != nil {
		return false, fmt.Errorf("updating album: %w", err)
	}
	return rowsAffected(res)
}

func (s *SQLiteDatabase) DeleteAlbum(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM albums WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting album: %w", err)
	}
	return rowsAffected(res)
}

// Players

const playerColumns = `id, name, current_team, position, date_of_birth, nationality, photo_url,
	appearances, goals, height, weight, rating, album_ids, teams_history, skills, total_skills`

func scanPlayer(row scanner) (model.Player, error) {
	var p model.Player
	var position, skills string
	var appearances, goals, height, weight, rating sql.NullInt64
	var albumIDs, history sql.NullString
	err := row.Scan(&p.ID, &p.Name, &p.CurrentTeam, &position, &p.DateOfBirth, &p.Nationality, &p.PhotoURL,
		&appearances, &goals, &height, &weight, &rating, &albumIDs, &history, &skills, &p.TotalSkills)
	if err != nil {
		return p, err
	}
	p.Position = model.Position(position)
	p.Appearances = intPtr(appearances)
	p.Goals = intPtr(goals)
	p.Height = intPtr(height)
	p.Weight = intPtr(weight)
	p.Rating = intPtr(rating)
	if p.AlbumIDs, err = fromJSON[string](albumIDs); err != nil {
		return p, fmt.Errorf("decoding album ids of player %s: %w", p.ID, err)
	}
	if p.TeamsHistory, err = fromJSON[model.TeamHistoryEntry](history); err != nil {
		return p, fmt.Errorf("decoding teams history of player %s: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(skills), &p.Skills); err != nil {
		return p, fmt.Errorf("decoding skills of player %s: %w", p.ID, err)
	}
	return p, nil
}

// playerArgs returns the column values after id and sort_key, in
// playerColumns order.
func playerArgs(p model.Player) ([]any, error) {
	albumIDs, err := nullJSON(p.AlbumIDs)
	if err != nil {
		return nil, fmt.Errorf("encoding album ids: %w", err)
	}
	history, err := nullJSON(p.TeamsHistory)
	if err != nil {
		return nil, fmt.Errorf("encoding teams history: %w", err)
	}
	skills, err := json.Marshal(p.Skills)
	if err != nil {
		return nil, fmt.Errorf("encoding skills: %w", err)
	}
	return []any{p.Name, p.CurrentTeam, string(p.Position), p.DateOfBirth, p.Nationality, p.PhotoURL,
		nullInt(p.Appearances), nullInt(p.Goals), nullInt(p.Height), nullInt(p.Weight), nullInt(p.Rating),
		albumIDs, history, string(skills), p.TotalSkills}, nil
}

func (s *SQLiteDatabase) ListPlayers(ctx context.Context) ([]model.Player, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+playerColumns+` FROM players ORDER BY sort_key`)
	if err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}
	defer rows.Close()

	players := []model.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *SQLiteDatabase) FindPlayer(ctx context.Context, id string) (*model.Player, error) {
	p, err := scanPlayer(s.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding player: %w", err)
	}
	return &p, nil
}

func insertPlayer(ctx context.Context, q querier, p model.Player, sortKey any) error {
	args, err := playerArgs(p)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO players (id, sort_key, name, current_team, position, date_of_birth, nationality, photo_url,
			appearances, goals, height, weight, rating, album_ids, teams_history, skills, total_skills)
		VALUES (?, `+sortKeyExpr(sortKey, "players")+`, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sortKeyArgs(sortKey, append([]any{p.ID}, args...)...)...)
	if err != nil {
		return fmt.Errorf("inserting player: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) InsertPlayer(ctx context.Context, player model.Player) error {
	return insertPlayer(ctx, s.db, player, nil)
}

func (s *SQLiteDatabase) UpdatePlayer(ctx context.Context, p model.Player) (bool, error) {
	args, err := playerArgs(p)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE players SET name = ?, current_team = ?, position = ?, date_of_birth = ?, nationality = ?,
			photo_url = ?, appearances = ?, goals = ?, height = ?, weight = ?, rating = ?,
			album_ids = ?, teams_history = ?, skills = ?, total_skills = ?
		WHERE id = ?`, append(args, p.ID)...)
	if err != nil {
		return false, fmt.Errorf("updating player: %w", err)
	}
	return rowsAffected(res)
}

func (s *SQLiteDatabase) DeletePlayer(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting player: %w", err)
	}
	return rowsAffected(res)
}

// Teams

const teamColumns = `id, name, country, foundation_year, stadium_name, stadium_capacity, logo_url, titles, album_ids`

func scanTeam(row scanner) (model.Team, error) {
	var t model.Team
	var capacity sql.NullInt64
	var titles, albumIDs sql.NullString
	err := row.Scan(&t.ID, &t.Name, &t.Country, &t.FoundationYear, &t.StadiumName, &capacity, &t.LogoURL, &titles, &albumIDs)
	if err != nil {
		return t, err
	}
	t.StadiumCapacity = intPtr(capacity)
	if t.Titles, err = fromJSON[string](titles); err != nil {
		return t, fmt.Errorf("decoding titles of team %s: %w", t.ID, err)
	}
	if t.AlbumIDs, err = fromJSON[string](albumIDs); err != nil {
		return t, fmt.Errorf("decoding album ids of team %s: %w", t.ID, err)
	}
	return t, nil
}

func teamArgs(t model.Team) ([]any, error) {
	titles, err := nullJSON(t.Titles)
	if err != nil {
		return nil, fmt.Errorf("encoding titles: %w", err)
	}
	albumIDs, err := nullJSON(t.AlbumIDs)
	if err != nil {
		return nil, fmt.Errorf("encoding album ids: %w", err)
	}
	return []any{t.Name, t.Country, t.FoundationYear, t.StadiumName, nullInt(t.StadiumCapacity), t.LogoURL, titles, albumIDs}, nil
}

func (s *SQLiteDatabase) ListTeams(ctx context.Context) ([]model.Team, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY sort_key`)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	teams := []model.Team{}
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (s *SQLiteDatabase) FindTeam(ctx context.Context, id string) (*model.Team, error) {
	t, err := scanTeam(s.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding team: %w", err)
	}
	return &t, nil
}

func insertTeam(ctx context.Context, q querier, t model.Team, sortKey any) error {
	args, err := teamArgs(t)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO teams (id, sort_key, name, country, foundation_year, stadium_name, stadium_capacity, logo_url, titles, album_ids)
		VALUES (?, `+sortKeyExpr(sortKey, "teams")+`, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sortKeyArgs(sortKey, append([]any{t.ID}, args...)...)...)
	if err != nil {
		return fmt.Errorf("inserting team: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) InsertTeam(ctx context.Context, team model.Team) error {
	return insertTeam(ctx, s.db, team, nil)
}

func (s *SQLiteDatabase) UpdateTeam(ctx context.Context, t model.Team) (bool, error) {
	args, err := teamArgs(t)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE teams SET name = ?, country = ?, foundation_year = ?, stadium_name = ?,
			stadium_capacity = ?, logo_url = ?, titles = ?, album_ids = ?
		WHERE id = ?`, append(args, t.ID)...)
	if err != nil {
		return false, fmt.Errorf("updating team: %w", err)
	}
	return rowsAffected(res)
}

func (s *SQLiteDatabase) DeleteTeam(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting team: %w", err)
	}
	return rowsAffected(res)
}

// Bulk operations

// ReplaceAll swaps the whole catalog in one transaction, keeping the order
// of c.
func (s *SQLiteDatabase) ReplaceAll(ctx context.Context, c model.Catalog) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"albums", "players", "teams"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}
		for i, a := range c.Albums {
			if err := insertAlbum(ctx, tx, a, i); err != nil {
				return err
			}
		}
		for i, p := range c.Players {
			if err := insertPlayer(ctx, tx, p, i); err != nil {
				return err
			}
		}
		for i, t := range c.Teams {
			if err := insertTeam(ctx, tx, t, i); err != nil {
				return err
			}
		}
		return nil
	})
}

// IsEmpty reports whether the catalog tables hold no records at all.
func (s *SQLiteDatabase) IsEmpty(ctx context.Context) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM albums) + (SELECT COUNT(*) FROM players) + (SELECT COUNT(*) FROM teams)`).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("counting records: %w", err)
	}
	return n == 0, nil
}

// SeedIfEmpty loads c when the catalog has no records yet.
func (s *SQLiteDatabase) SeedIfEmpty(ctx context.Context, c model.Catalog) (bool, error) {
	empty, err := s.IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	if !empty {
		return false, nil
	}
	if err := s.ReplaceAll(ctx, c); err != nil {
		return false, fmt.Errorf("seeding catalog: %w", err)
	}
	return true, nil
}

// sortKeyExpr places an explicit key when one is given, and otherwise a key
// below every existing one in table.
func sortKeyExpr(sortKey any, table string) string {
	if sortKey != nil {
		return "?"
	}
	return "(SELECT COALESCE(MIN(sort_key), 0) - 1 FROM " + table + ")"
}

// sortKeyArgs splices an explicit key in after the id argument.
func sortKeyArgs(sortKey any, args ...any) []any {
	if sortKey == nil {
		return args
	}
	out := make([]any, 0, len(args)+1)
	out = append(out, args[0], sortKey)
	return append(out, args[1:]...)
}
