package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"albumdex/internal/catalog"
	"albumdex/internal/model"
)

// DefaultTokenTTL is used when the authenticator is given no TTL.
const DefaultTokenTTL = 24 * time.Hour

// AddUserResult is the outcome of AddUser. Rejections are reported here
// rather than as errors.
type AddUserResult struct {
	Success bool
	Message string
}

// UserAdmin is implemented by credential stores that track roles.
type UserAdmin interface {
	SetUserRole(ctx context.Context, username string, role model.Role) (bool, error)
	DeleteUser(ctx context.Context, username string) (bool, error)
}

type persistence interface {
	Persistent() bool
}

// ErrRolesUnsupported is returned by role operations on a store without roles.
var ErrRolesUnsupported = errors.New("credential store does not support roles")

// Authenticator drives the session through login and logout against a
// credential store. The session file and token issuer are optional.
type Authenticator struct {
	store   CredentialStore
	session *Session
	file    *SessionFile
	tokens  TokenIssuer
	ttl     time.Duration
	logger  catalog.Logger
}

// NewAuthenticator creates an Authenticator. file and tokens may be nil.
func NewAuthenticator(store CredentialStore, session *Session, file *SessionFile, tokens TokenIssuer, ttl time.Duration, logger catalog.Logger) *Authenticator {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if logger == nil {
		logger = catalog.NewNopLogger()
	}
	return &Authenticator{
		store:   store,
		session: session,
		file:    file,
		tokens:  tokens,
		ttl:     ttl,
		logger:  logger,
	}
}

// Session returns the session this authenticator drives.
func (a *Authenticator) Session() *Session { return a.session }

// Restore hydrates the session from the session file. With a token issuer
// the file only names the user: the role is reloaded from the issuer, and a
// file without a live token leaves the session anonymous and is removed.
func (a *Authenticator) Restore(ctx context.Context) error {
	if a.file == nil {
		return nil
	}
	if err := a.file.Load(a.session); err != nil {
		return err
	}
	id, ok := a.session.Identity()
	if !ok {
		if _, exp := a.session.Token(); !exp.IsZero() {
			a.logger.Debug("session expired", "path", a.file.Path())
			return a.discard()
		}
		return nil
	}
	if a.tokens == nil {
		return nil
	}
	token, expiresAt := a.session.Token()
	if token == "" {
		a.logger.Info("session without token rejected", "user", id.Username)
		return a.discard()
	}
	current, err := a.tokens.VerifyToken(ctx, token)
	if err != nil {
		return fmt.Errorf("verifying session token: %w", err)
	}
	if current == nil || current.Username != id.Username {
		a.logger.Info("session token rejected", "user", id.Username)
		return a.discard()
	}
	a.session.Begin(*current, token, expiresAt)
	if current.Role != id.Role {
		a.logger.Info("session role refreshed", "user", id.Username, "role", string(current.Role))
		return a.file.Save(a.session)
	}
	return nil
}

func (a *Authenticator) discard() error {
	a.session.Clear()
	return a.file.Remove()
}

// Login checks the credentials and, on a match, authenticates the session.
// A wrong username and a wrong password both yield false with a nil error.
func (a *Authenticator) Login(ctx context.Context, username, password string) (bool, error) {
	id, err := a.store.Authenticate(ctx, username, password)
	if err != nil {
		return false, fmt.Errorf("checking credentials: %w", err)
	}
	if id == nil {
		a.logger.Info("login failed", "user", username)
		return false, nil
	}

	var token string
	var expiresAt time.Time
	if a.tokens != nil {
		token, expiresAt, err = a.tokens.IssueToken(ctx, id.Username, a.ttl)
		if err != nil {
			return false, fmt.Errorf("issuing token: %w", err)
		}
	}
	a.session.Begin(*id, token, expiresAt)

	if a.file != nil {
		if err := a.file.Save(a.session); err != nil {
			a.session.Clear()
			if token != "" {
				if rerr := a.tokens.RevokeToken(ctx, token); rerr != nil {
					err = errors.Join(err, fmt.Errorf("revoking token: %w", rerr))
				}
			}
			return false, err
		}
	}
	a.logger.Info("login", "user", id.Username, "role", string(id.Role))
	return true, nil
}

// Logout clears the session unconditionally.
func (a *Authenticator) Logout(ctx context.Context) error {
	id, _ := a.session.Identity()
	token, _ := a.session.Token()
	a.session.Clear()

	var errs []error
	if a.tokens != nil && token != "" {
		if err := a.tokens.RevokeToken(ctx, token); err != nil {
			errs = append(errs, fmt.Errorf("revoking token: %w", err))
		}
	}
	if a.file != nil {
		if err := a.file.Remove(); err != nil {
			errs = append(errs, err)
		}
	}
	if id.Username != "" {
		a.logger.Info("logout", "user", id.Username)
	}
	return errors.Join(errs...)
}

// AddUser registers a new credential on behalf of the logged-in user.
// The error return is reserved for store failures.
func (a *Authenticator) AddUser(ctx context.Context, cred model.Credential) (AddUserResult, error) {
	if !a.session.IsAuthenticated() {
		return AddUserResult{Message: "You must be logged in to add users."}, nil
	}
	if !a.session.Can(model.PermUsersManage) {
		return AddUserResult{Message: "You do not have permission to add users."}, nil
	}
	if cred.Username == "" || cred.Password == "" {
		return AddUserResult{Message: "Username and password are required."}, nil
	}
	if cred.Role != model.RoleNone && !ValidRole(cred.Role) {
		return AddUserResult{Message: fmt.Sprintf("Unknown role %q.", cred.Role)}, nil
	}
	exists, err := a.store.UserExists(ctx, cred.Username)
	if err != nil {
		return AddUserResult{}, fmt.Errorf("checking for existing user: %w", err)
	}
	if exists {
		return AddUserResult{Message: fmt.Sprintf("User %q already exists.", cred.Username)}, nil
	}
	if err := a.store.AddUser(ctx, cred); err != nil {
		return AddUserResult{}, fmt.Errorf("adding user: %w", err)
	}

	actor, _ := a.session.Identity()
	a.logger.Info("user added", "user", cred.Username, "by", actor.Username)

	msg := fmt.Sprintf("User %q added successfully.", cred.Username)
	if p, ok := a.store.(persistence); ok && !p.Persistent() {
		msg = fmt.Sprintf("User %q added successfully (in memory).", cred.Username)
	}
	return AddUserResult{Success: true, Message: msg}, nil
}

// ListUsers returns every registered username.
func (a *Authenticator) ListUsers(ctx context.Context) ([]string, error) {
	names, err := a.store.ListUsernames(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return names, nil
}

// SetUserRole changes a user's role. Requires users:manage.
func (a *Authenticator) SetUserRole(ctx context.Context, username string, role model.Role) error {
	admin, ok := a.store.(UserAdmin)
	if !ok {
		return ErrRolesUnsupported
	}
	if !a.session.Can(model.PermUsersManage) {
		return fmt.Errorf("%s: %w", model.PermUsersManage, catalog.ErrUnauthorized)
	}
	if !ValidRole(role) || role == model.RoleNone {
		return fmt.Errorf("unknown role %q", role)
	}
	found, err := admin.SetUserRole(ctx, username, role)
	if err != nil {
		return fmt.Errorf("setting role: %w", err)
	}
	if !found {
		return fmt.Errorf("user %s: %w", username, catalog.ErrNotFound)
	}
	actor, _ := a.session.Identity()
	a.logger.Info("user role changed", "user", username, "role", string(role), "by", actor.Username)
	return nil
}

// DeleteUser removes a user. Requires users:delete. Users cannot delete
// themselves.
func (a *Authenticator) DeleteUser(ctx context.Context, username string) error {
	admin, ok := a.store.(UserAdmin)
	if !ok {
		return ErrRolesUnsupported
	}
	if !a.session.Can(model.PermUsersDelete) {
		return fmt.Errorf("%s: %w", model.PermUsersDelete, catalog.ErrUnauthorized)
	}
	actor, _ := a.session.Identity()
	if actor.Username == username {
		return fmt.Errorf("cannot delete the logged-in user")
	}
	found, err := admin.DeleteUser(ctx, username)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if !found {
		return fmt.Errorf("user %s: %w", username, catalog.ErrNotFound)
	}
	a.logger.Info("user deleted", "user", username, "by", actor.Username)
	return nil
}
