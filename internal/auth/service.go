// Package auth implements authentication and authorization for the portal.
//
// Sign-in is a two step flow: a password check produces a candidate
// principal, and a one-time code check promotes the candidate to an
// authenticated session. Authorization is permission based: a user's
// effective permission set is the union of the permission sets of every
// role the user holds, and every access check reduces to membership in
// that set.
package auth

import (
	"context"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"

	"github.com/mushya-portal/mushya-portal/internal/store"
)

// Options configures the auth service.
type Options struct {
	// SeedPassword is the password accepted for built-in demo accounts.
	SeedPassword string

	// Code is the static one-time code accepted when no TOTP secret is set.
	Code string

	// TOTPSecret switches code verification to time-based one-time
	// passwords when non-empty.
	TOTPSecret string

	// LoginDelay and VerifyDelay simulate upstream latency on the two
	// sign-in steps. Zero disables the delay.
	LoginDelay  time.Duration
	VerifyDelay time.Duration
}

// Service provides authentication and permission checks on top of the
// user and role stores.
type Service struct {
	users *store.Users
	roles *store.Roles
	opts  Options

	// seedHash is the argon2id proof of the seed password, computed once
	// so built-in accounts verify through the same primitive as
	// registered ones.
	seedHash string
}

// NewService creates a new auth service.
func NewService(users *store.Users, roles *store.Roles, opts Options) (*Service, error) {
	seedHash, err := argon2id.CreateHash(opts.SeedPassword, argon2id.DefaultParams)
	if err != nil {
		return nil, err
	}

	return &Service{
		users:    users,
		roles:    roles,
		opts:     opts,
		seedHash: seedHash,
	}, nil
}

// Users exposes the underlying user store.
func (s *Service) Users() *store.Users {
	return s.users
}

// Roles exposes the underlying role store.
func (s *Service) Roles() *store.Roles {
	return s.roles
}

// Authenticate checks an email and password pair and returns the matching
// user. A password matches when the account has a registered proof that
// verifies, or when the account is a built-in seed account and the
// password equals the configured seed password. Any mismatch returns
// ErrInvalidCredentials without revealing which part failed.
func (s *Service) Authenticate(ctx context.Context, email, password string) (store.User, error) {
	if err := sleep(ctx, s.opts.LoginDelay); err != nil {
		return store.User{}, err
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		// Burn a comparison so unknown accounts cost the same as known
		// ones.
		_, _ = argon2id.ComparePasswordAndHash(password, s.seedHash)

		log.Debug().Str("email", email).Msg("Login attempt for unknown account")

		return store.User{}, ErrInvalidCredentials
	}

	if s.users.VerifyPassword(email, password) {
		return user, nil
	}

	if user.Builtin {
		match, errCmp := argon2id.ComparePasswordAndHash(password, s.seedHash)
		if errCmp == nil && match {
			return user, nil
		}
	}

	log.Debug().Str("email", email).Msg("Login attempt with wrong password")

	return store.User{}, ErrInvalidCredentials
}

// PermissionClosure computes the effective permission set of a user: the
// deduplicated union of the permission sets of every role the user holds.
// Role IDs that resolve to no role contribute nothing.
func (s *Service) PermissionClosure(user store.User) ([]string, error) {
	seen := make(map[string]bool)
	closure := make([]string, 0)

	for _, roleID := range user.RoleIDs {
		role, err := s.roles.Get(roleID)
		if err != nil {
			if err == store.ErrNotFound {
				continue
			}

			return nil, err
		}

		for _, perm := range role.Permissions {
			if !seen[perm] {
				seen[perm] = true

				closure = append(closure, perm)
			}
		}
	}

	return closure, nil
}

// HasPermission checks whether a user's effective permission set contains
// the given permission. Absence is an ordinary false, never an error.
func (s *Service) HasPermission(user store.User, permission string) (bool, error) {
	closure, err := s.PermissionClosure(user)
	if err != nil {
		return false, err
	}

	for _, perm := range closure {
		if perm == permission {
			return true, nil
		}
	}

	return false, nil
}

// HasAnyPermission checks whether a user has at least one of the given
// permissions. An empty list yields false.
func (s *Service) HasAnyPermission(user store.User, permissions []string) (bool, error) {
	if len(permissions) == 0 {
		return false, nil
	}

	closure, err := s.PermissionClosure(user)
	if err != nil {
		return false, err
	}

	seen := make(map[string]bool, len(closure))
	for _, perm := range closure {
		seen[perm] = true
	}

	for _, perm := range permissions {
		if seen[perm] {
			return true, nil
		}
	}

	return false, nil
}

// HasAllPermissions checks whether a user has every one of the given
// permissions. An empty list yields true.
func (s *Service) HasAllPermissions(user store.User, permissions []string) (bool, error) {
	if len(permissions) == 0 {
		return true, nil
	}

	closure, err := s.PermissionClosure(user)
	if err != nil {
		return false, err
	}

	seen := make(map[string]bool, len(closure))
	for _, perm := range closure {
		seen[perm] = true
	}

	for _, perm := range permissions {
		if !seen[perm] {
			return false, nil
		}
	}

	return true, nil
}

// sleep blocks for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
