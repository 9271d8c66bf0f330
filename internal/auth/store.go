package auth

import (
	"context"
	"time"

	"albumdex/internal/model"
)

// CredentialStore holds the users that may log in.
type CredentialStore interface {
	// Authenticate returns the identity for a matching username/password
	// pair, or nil when either is wrong.
	Authenticate(ctx context.Context, username, password string) (*model.Identity, error)

	// UserExists reports whether username is taken. The match is exact and
	// case-sensitive.
	UserExists(ctx context.Context, username string) (bool, error)

	// AddUser stores a new credential.
	AddUser(ctx context.Context, cred model.Credential) error

	// ListUsernames returns every username in insertion order.
	ListUsernames(ctx context.Context) ([]string, error)
}

// TokenIssuer hands out short-lived bearer tokens. Tokens are not refreshed;
// a user logs in again once theirs expires.
type TokenIssuer interface {
	IssueToken(ctx context.Context, username string, ttl time.Duration) (token string, expiresAt time.Time, err error)

	// VerifyToken returns the current identity of the user a live token
	// belongs to, or nil when the token is unknown or expired or the user is
	// disabled. The role comes from the store, not from the token.
	VerifyToken(ctx context.Context, token string) (*model.Identity, error)

	RevokeToken(ctx context.Context, token string) error
}
