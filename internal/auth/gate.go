package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/mushya-portal/mushya-portal/internal/store"
)

// State is the position of a session in the two step sign-in flow.
type State string

const (
	// StateAnonymous means no sign-in is in progress.
	StateAnonymous State = "anonymous"

	// StateAwaitingCode means the password check passed and the session
	// waits for a one-time code.
	StateAwaitingCode State = "awaiting_code"

	// StateAuthenticated means the session holds a verified principal.
	StateAuthenticated State = "authenticated"
)

// sessionRecord is the persisted shape of a gate. Only the candidate ID
// is stored while awaiting the code; the full principal is stored once
// authenticated so a cold start can restore the session without a second
// sign-in.
type sessionRecord struct {
	State         State       `json:"state"`
	User          *store.User `json:"user,omitempty"`
	PendingUserID string      `json:"pending_user_id,omitempty"`
}

// Gate is a single session's view of the sign-in flow. It moves between
// anonymous, awaiting-code and authenticated states, persists itself
// through the key-value store, and answers permission checks against the
// authenticated principal's effective permission set.
//
// A Gate is not safe for concurrent use; the web layer builds one per
// request.
type Gate struct {
	svc *Service
	kv  *store.KV
	key string

	state       State
	pending     *store.User
	principal   *store.User
	permissions []string
}

// NewGate creates a gate persisted under the given key. An empty key
// falls back to the default session key. Call Hydrate to restore any
// persisted state.
func NewGate(svc *Service, kv *store.KV, key string) *Gate {
	if key == "" {
		key = store.KeySession
	}

	return &Gate{
		svc:   svc,
		kv:    kv,
		key:   key,
		state: StateAnonymous,
	}
}

// Hydrate restores the gate from its persisted record. A session that
// was authenticated comes back authenticated, with the permission set
// recomputed from the current role store so role edits made while the
// session was cold take effect. A missing or unreadable record leaves
// the gate anonymous.
func (g *Gate) Hydrate() error {
	var rec sessionRecord

	found, err := g.kv.GetJSON(g.key, &rec)
	if err != nil {
		return errors.Wrap(err, "read session record")
	}

	if !found {
		return nil
	}

	switch rec.State {
	case StateAuthenticated:
		if rec.User == nil {
			break
		}

		perms, errClosure := g.svc.PermissionClosure(*rec.User)
		if errClosure != nil {
			return errClosure
		}

		g.state = StateAuthenticated
		g.principal = rec.User
		g.permissions = perms

	case StateAwaitingCode:
		if rec.PendingUserID == "" {
			break
		}

		user, errGet := g.svc.Users().Get(rec.PendingUserID)
		if errGet != nil {
			// The candidate vanished between steps. Drop the record.
			if errGet == store.ErrNotFound {
				return g.kv.Delete(g.key)
			}

			return errGet
		}

		g.state = StateAwaitingCode
		g.pending = &user
	}

	return nil
}

// Login runs the password step. On success the gate moves to the
// awaiting-code state with the matched user as candidate. A credential
// mismatch returns false and leaves the gate unchanged; only storage
// failures surface as errors.
func (g *Gate) Login(ctx context.Context, email, password string) (bool, error) {
	user, err := g.svc.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return false, nil
		}

		return false, err
	}

	g.state = StateAwaitingCode
	g.pending = &user
	g.principal = nil
	g.permissions = nil

	if err := g.persist(); err != nil {
		return false, err
	}

	return true, nil
}

// VerifyCode runs the code step. On success the candidate becomes the
// authenticated principal, the permission set is computed, the login
// timestamp is stamped and the session is persisted. A wrong code, or a
// verify without a pending candidate, returns false and leaves the gate
// unchanged.
func (g *Gate) VerifyCode(ctx context.Context, code string) (bool, error) {
	if g.state != StateAwaitingCode || g.pending == nil {
		return false, nil
	}

	if err := g.svc.VerifyCode(ctx, code); err != nil {
		if errors.Is(err, ErrInvalidCode) {
			return false, nil
		}

		return false, err
	}

	user, err := g.svc.Users().Update(g.pending.ID, store.UserPatch{LastLogin: now()})
	if err != nil {
		// Built-in candidates always resolve; a registered one may have
		// been deleted mid-flow.
		log.Warn().Err(err).Str("user_id", g.pending.ID).Msg("Failed to stamp last login")

		user = *g.pending
	}

	perms, err := g.svc.PermissionClosure(user)
	if err != nil {
		return false, err
	}

	g.state = StateAuthenticated
	g.principal = &user
	g.pending = nil
	g.permissions = perms

	if err := g.persist(); err != nil {
		return false, err
	}

	return true, nil
}

// Logout drops any principal or candidate and removes the persisted
// record. Logging out an anonymous gate is a no-op.
func (g *Gate) Logout() error {
	g.state = StateAnonymous
	g.pending = nil
	g.principal = nil
	g.permissions = nil

	return g.kv.Delete(g.key)
}

// State returns the gate's current state.
func (g *Gate) State() State {
	return g.state
}

// Principal returns the authenticated user, or nil.
func (g *Gate) Principal() *store.User {
	if g.state != StateAuthenticated {
		return nil
	}

	return g.principal
}

// Permissions returns the authenticated principal's effective permission
// set. Anonymous and awaiting-code gates have none.
func (g *Gate) Permissions() []string {
	if g.state != StateAuthenticated {
		return nil
	}

	out := make([]string, len(g.permissions))
	copy(out, g.permissions)

	return out
}

// Can reports whether the authenticated principal holds the given
// permission. Unauthenticated gates answer false for everything.
func (g *Gate) Can(permission string) bool {
	if g.state != StateAuthenticated {
		return false
	}

	for _, perm := range g.permissions {
		if perm == permission {
			return true
		}
	}

	return false
}

// CanAny reports whether the principal holds at least one of the given
// permissions. An empty list yields false.
func (g *Gate) CanAny(permissions ...string) bool {
	for _, perm := range permissions {
		if g.Can(perm) {
			return true
		}
	}

	return false
}

// CanAll reports whether the principal holds every one of the given
// permissions. An empty list yields true when authenticated.
func (g *Gate) CanAll(permissions ...string) bool {
	if g.state != StateAuthenticated {
		return false
	}

	for _, perm := range permissions {
		if !g.Can(perm) {
			return false
		}
	}

	return true
}

func now() *time.Time {
	t := time.Now().UTC()
	return &t
}

func (g *Gate) persist() error {
	rec := sessionRecord{State: g.state}

	switch g.state {
	case StateAuthenticated:
		rec.User = g.principal
	case StateAwaitingCode:
		rec.PendingUserID = g.pending.ID
	}

	return g.kv.SetJSON(g.key, rec)
}
