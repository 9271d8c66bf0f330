package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"albumdex/internal/model"
)

const (
	userActive   = "active"
	userDisabled = "disabled"
)

// dummyHash is compared against when a username does not exist so a lookup
// miss costs about as much as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("albumdex-dummy-password"), bcrypt.MinCost)

// Authenticate checks a password against the stored bcrypt hash. Disabled
// users never authenticate.
func (s *SQLiteDatabase) Authenticate(ctx context.Context, username, password string) (*model.Identity, error) {
	var hash, role, status string
	err := s.db.QueryRowContext(ctx,
		`SELECT password_hash, role, status FROM users WHERE username = ?`, username).Scan(&hash, &role, &status)
	if errors.Is(err, sql.ErrNoRows) {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, nil
	}
	if status != userActive {
		return nil, nil
	}
	return &model.Identity{Username: username, Role: model.Role(role)}, nil
}

func (s *SQLiteDatabase) UserExists(ctx context.Context, username string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(&n); err != nil {
		return false, fmt.Errorf("counting users: %w", err)
	}
	return n > 0, nil
}

// AddUser stores cred with a bcrypt hash of its password. An empty role
// becomes "user".
func (s *SQLiteDatabase) AddUser(ctx context.Context, cred model.Credential) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(cred.Password), s.hashCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	role := cred.Role
	if role == model.RoleNone {
		role = model.RoleUser
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		cred.Username, string(hash), string(role), userActive, s.clock.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListUsernames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT username FROM users ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning username: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Persistent reports that added users survive a restart.
func (*SQLiteDatabase) Persistent() bool { return true }

func (s *SQLiteDatabase) SetUserRole(ctx context.Context, username string, role model.Role) (bool, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE username = ?`, string(role), username)
	if err != nil {
		return false, fmt.Errorf("updating role: %w", err)
	}
	return rowsAffected(res)
}

// SetUserDisabled toggles a user's status. Disabling revokes their tokens.
func (s *SQLiteDatabase) SetUserDisabled(ctx context.Context, username string, disabled bool) (bool, error) {
	status := userActive
	if disabled {
		status = userDisabled
	}
	var found bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE users SET status = ? WHERE username = ?`, status, username)
		if err != nil {
			return fmt.Errorf("updating status: %w", err)
		}
		if found, err = rowsAffected(res); err != nil || !found {
			return err
		}
		if disabled {
			if _, err := tx.ExecContext(ctx, `DELETE FROM tokens WHERE username = ?`, username); err != nil {
				return fmt.Errorf("revoking tokens: %w", err)
			}
		}
		return nil
	})
	return found, err
}

func (s *SQLiteDatabase) DeleteUser(ctx context.Context, username string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return false, fmt.Errorf("deleting user: %w", err)
	}
	return rowsAffected(res)
}

// SeedUsers adds creds when the users table is empty.
func (s *SQLiteDatabase) SeedUsers(ctx context.Context, creds []model.Credential) (bool, error) {
	names, err := s.ListUsernames(ctx)
	if err != nil {
		return false, err
	}
	if len(names) > 0 {
		return false, nil
	}
	for _, c := range creds {
		if err := s.AddUser(ctx, c); err != nil {
			return false, fmt.Errorf("seeding user %s: %w", c.Username, err)
		}
	}
	return true, nil
}

// Tokens

// IssueToken creates a random bearer token for username valid for ttl.
func (s *SQLiteDatabase) IssueToken(ctx context.Context, username string, ttl time.Duration) (string, time.Time, error) {
	now := s.clock.Now()
	token := uuid.NewString()
	expiresAt := now.Add(ttl)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tokens (id, username, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		token, username, now.UnixMilli(), expiresAt.UnixMilli())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("inserting token: %w", err)
	}
	return token, time.UnixMilli(expiresAt.UnixMilli()).UTC(), nil
}

// VerifyToken returns the owner of a live token with their role as it is
// now. Expired tokens are deleted on sight.
func (s *SQLiteDatabase) VerifyToken(ctx context.Context, token string) (*model.Identity, error) {
	var username, role, status string
	var expiresAt int64
	err := s.db.QueryRowContext(ctx, `
		SELECT t.username, t.expires_at, u.role, u.status
		FROM tokens t JOIN users u ON u.username = t.username
		WHERE t.id = ?`, token).Scan(&username, &expiresAt, &role, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding token: %w", err)
	}
	if s.clock.Now().UnixMilli() >= expiresAt {
		if err := s.RevokeToken(ctx, token); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if status != userActive {
		return nil, nil
	}
	return &model.Identity{Username: username, Role: model.Role(role)}, nil
}

func (s *SQLiteDatabase) RevokeToken(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tokens WHERE id = ?`, token); err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}

// PurgeExpiredTokens removes every expired token and returns how many.
func (s *SQLiteDatabase) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tokens WHERE expires_at <= ?`, s.clock.Now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("purging tokens: %w", err)
	}
	return res.RowsAffected()
}
