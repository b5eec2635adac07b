package store

import (
	"sync"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Status is the lifecycle state of a user account.
type Status string

const (
	// StatusActive marks an account that can log in.
	StatusActive Status = "active"
	// StatusInactive marks a disabled account.
	StatusInactive Status = "inactive"
	// StatusSuspended marks a suspended account.
	StatusSuspended Status = "suspended"
)

// User represents a portal account. A user holds zero or more roles; the
// effective permission set is the union of all referenced roles' permissions.
type User struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Avatar     string     `json:"avatar,omitempty"`
	RoleIDs    []string   `json:"role_ids"`
	Department string     `json:"department"`
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	LastLogin  *time.Time `json:"last_login,omitempty"`

	// LegacyRoleID carries the old single-role shape. It is normalized into
	// RoleIDs at the read boundary and never written back.
	LegacyRoleID string `json:"role_id,omitempty"`

	// Builtin marks seed accounts. Never persisted.
	Builtin bool `json:"-"`
}

// UserPatch describes a partial user update. Nil fields are left unchanged.
type UserPatch struct {
	Email      *string
	Name       *string
	Avatar     *string
	RoleIDs    *[]string
	Department *string
	Status     *Status
	LastLogin  *time.Time
}

// UserFields holds the data required to create an account.
type UserFields struct {
	Email      string
	Name       string
	Avatar     string
	RoleIDs    []string
	Department string
}

const keyUsersRemoved = "users_removed"

// Users provides CRUD over user accounts plus the password proof map.
// Seed accounts are merged with registered accounts on every read; records
// in the legacy single-role shape are normalized exactly once at this
// boundary, so the old shape never leaks past the store.
type Users struct {
	kv *KV
	mu sync.Mutex
}

// NewUsers creates a user store over the given key-value accessor.
func NewUsers(kv *KV) *Users {
	return &Users{kv: kv}
}

// normalizeUser lifts a legacy single role_id record into the role_ids
// shape. Running it again is a no-op.
func normalizeUser(u User) User {
	if u.RoleIDs == nil && u.LegacyRoleID != "" {
		u.RoleIDs = []string{u.LegacyRoleID}
	}

	u.LegacyRoleID = ""

	return u
}

// List returns seed accounts concatenated with registered accounts. A stored
// copy of a seed account shadows the built-in record; tombstoned seed
// accounts are omitted.
func (s *Users) List() ([]User, error) {
	stored, err := s.loadStored()
	if err != nil {
		return nil, err
	}

	removed, err := s.loadRemoved()
	if err != nil {
		return nil, err
	}

	shadows := make(map[string]User, len(stored))
	for _, u := range stored {
		shadows[u.ID] = u
	}

	var out []User

	for _, b := range builtinUsers() {
		if removed[b.ID] {
			continue
		}

		if shadow, ok := shadows[b.ID]; ok {
			shadow.Builtin = true
			out = append(out, shadow)

			delete(shadows, b.ID)

			continue
		}

		out = append(out, b)
	}

	for _, u := range stored {
		if _, pending := shadows[u.ID]; !pending {
			continue // already emitted in seed position
		}

		if isBuiltinUserID(u.ID) {
			continue
		}

		out = append(out, u)
	}

	return out, nil
}

// Get returns the user with the given id.
func (s *Users) Get(id string) (User, error) {
	users, err := s.List()
	if err != nil {
		return User{}, err
	}

	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}

	return User{}, ErrNotFound
}

// GetByEmail returns the user with the given email. The match is exact and
// case-sensitive.
func (s *Users) GetByEmail(email string) (User, error) {
	users, err := s.List()
	if err != nil {
		return User{}, err
	}

	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}

	return User{}, ErrNotFound
}

// Create registers a new account. The email must not already be taken; the
// comparison is case-sensitive, matching the duplicate check at login.
func (s *Users) Create(fields UserFields) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.GetByEmail(fields.Email); err == nil {
		return User{}, ErrDuplicateEmail
	}

	stored, err := s.loadStored()
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:         "user_" + uuid.NewString(),
		Email:      fields.Email,
		Name:       fields.Name,
		Avatar:     fields.Avatar,
		RoleIDs:    append([]string{}, fields.RoleIDs...),
		Department: fields.Department,
		Status:     StatusActive,
		CreatedAt:  time.Now().UTC(),
	}

	stored = append(stored, user)

	if err := s.kv.SetJSON(KeyUsers, stored); err != nil {
		return User{}, err
	}

	return user, nil
}

// Update applies patch to the user with the given id. Seed accounts are
// mutable: the modified copy is persisted and shadows the built-in record.
func (s *Users) Update(id string, patch UserPatch) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.Get(id)
	if err != nil {
		return User{}, err
	}

	if patch.Email != nil {
		user.Email = *patch.Email
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}

	if patch.Avatar != nil {
		user.Avatar = *patch.Avatar
	}

	if patch.RoleIDs != nil {
		user.RoleIDs = append([]string{}, (*patch.RoleIDs)...)
	}

	if patch.Department != nil {
		user.Department = *patch.Department
	}

	if patch.Status != nil {
		user.Status = *patch.Status
	}

	if patch.LastLogin != nil {
		user.LastLogin = patch.LastLogin
	}

	stored, err := s.loadStored()
	if err != nil {
		return User{}, err
	}

	replaced := false

	for i := range stored {
		if stored[i].ID == id {
			stored[i] = user
			replaced = true

			break
		}
	}

	if !replaced {
		stored = append(stored, user)
	}

	if err := s.kv.SetJSON(KeyUsers, stored); err != nil {
		return User{}, err
	}

	return user, nil
}

// Delete removes the user with the given id. There is no soft delete and no
// last-admin protection.
func (s *Users) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.Get(id); err != nil {
		return err
	}

	stored, err := s.loadStored()
	if err != nil {
		return err
	}

	kept := stored[:0]

	for _, u := range stored {
		if u.ID != id {
			kept = append(kept, u)
		}
	}

	if err := s.kv.SetJSON(KeyUsers, kept); err != nil {
		return err
	}

	if isBuiltinUserID(id) {
		removed, err := s.loadRemoved()
		if err != nil {
			return err
		}

		removed[id] = true

		ids := make([]string, 0, len(removed))
		for uid := range removed {
			ids = append(ids, uid)
		}

		return s.kv.SetJSON(keyUsersRemoved, ids)
	}

	return nil
}

// SetPassword stores the argon2id hash of password as the proof for email.
// Proofs are kept in a map keyed by email; plaintext is never persisted.
func (s *Users) SetPassword(email, password string) error {
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	proofs, err := s.loadPasswords()
	if err != nil {
		return err
	}

	proofs[email] = hash

	return s.kv.SetJSON(KeyPasswords, proofs)
}

// VerifyPassword checks password against the stored proof for email.
// A missing proof verifies as false, never as an error.
func (s *Users) VerifyPassword(email, password string) bool {
	s.mu.Lock()
	proofs, err := s.loadPasswords()
	s.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Msg("failed to load password proofs")
		return false
	}

	hash, ok := proofs[email]
	if !ok {
		return false
	}

	match, err := argon2id.ComparePasswordAndHash(password, hash)
	if err != nil {
		log.Error().Err(err).Msg("failed to verify password")
		return false
	}

	return match
}

// HasPassword reports whether a proof is stored for email.
func (s *Users) HasPassword(email string) bool {
	s.mu.Lock()
	proofs, err := s.loadPasswords()
	s.mu.Unlock()

	if err != nil {
		return false
	}

	_, ok := proofs[email]

	return ok
}

func (s *Users) loadStored() ([]User, error) {
	var stored []User
	if _, err := s.kv.GetJSON(KeyUsers, &stored); err != nil {
		return nil, err
	}

	for i := range stored {
		stored[i] = normalizeUser(stored[i])
	}

	return stored, nil
}

func (s *Users) loadRemoved() (map[string]bool, error) {
	var ids []string
	if _, err := s.kv.GetJSON(keyUsersRemoved, &ids); err != nil {
		return nil, err
	}

	removed := make(map[string]bool, len(ids))
	for _, id := range ids {
		removed[id] = true
	}

	return removed, nil
}

func (s *Users) loadPasswords() (map[string]string, error) {
	proofs := make(map[string]string)
	if _, err := s.kv.GetJSON(KeyPasswords, &proofs); err != nil {
		return nil, err
	}

	return proofs, nil
}

func isBuiltinUserID(id string) bool {
	for _, b := range builtinUsers() {
		if b.ID == id {
			return true
		}
	}

	return false
}
