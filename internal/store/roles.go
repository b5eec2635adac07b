package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mushya-portal/mushya-portal/internal/catalog"
)

// Role is a named set of permission keys in the RBAC model.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`

	// Builtin marks roles shipped with the system. Never persisted.
	Builtin bool `json:"-"`
}

// RolePatch describes a partial role update. Nil fields are left unchanged;
// a non-nil Permissions replaces the previous set wholesale.
type RolePatch struct {
	Name        *string
	Description *string
	Permissions *[]string
}

const keyRolesRemoved = "roles_removed"

// Roles provides CRUD over role records. Built-in defaults are merged with
// the stored custom roles on every read; a stored role with a built-in id
// shadows the default. Every mutation rewrites the stored collection as a
// whole.
type Roles struct {
	kv *KV
	mu sync.Mutex
}

// NewRoles creates a role store over the given key-value accessor.
func NewRoles(kv *KV) *Roles {
	return &Roles{kv: kv}
}

// List returns built-in defaults concatenated with stored custom roles.
// A stored copy of a built-in replaces the default in place; tombstoned
// built-ins are omitted.
func (r *Roles) List() ([]Role, error) {
	stored, err := r.loadStored()
	if err != nil {
		return nil, err
	}

	removed, err := r.loadRemoved()
	if err != nil {
		return nil, err
	}

	shadows := make(map[string]Role, len(stored))
	for _, role := range stored {
		shadows[role.ID] = role
	}

	var out []Role

	for _, b := range builtinRoles() {
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

	for _, role := range stored {
		if _, isShadow := shadows[role.ID]; !isShadow {
			continue // already emitted in built-in position
		}

		if isBuiltinRoleID(role.ID) {
			continue
		}

		out = append(out, role)
	}

	return out, nil
}

// Get returns the role with the given id.
func (r *Roles) Get(id string) (Role, error) {
	roles, err := r.List()
	if err != nil {
		return Role{}, err
	}

	for _, role := range roles {
		if role.ID == id {
			return role, nil
		}
	}

	return Role{}, ErrNotFound
}

// Create stores a new custom role. Permission keys are validated against the
// catalog; unknown keys are rejected with ErrUnknownPermission.
func (r *Roles) Create(name, description string, permissionKeys []string) (Role, error) {
	if err := validatePermissions(permissionKeys); err != nil {
		return Role{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.loadStored()
	if err != nil {
		return Role{}, err
	}

	role := Role{
		ID:          "role_" + uuid.NewString(),
		Name:        name,
		Description: description,
		Permissions: append([]string{}, permissionKeys...),
		CreatedAt:   time.Now().UTC(),
	}

	stored = append(stored, role)

	if err := r.kv.SetJSON(KeyRoles, stored); err != nil {
		return Role{}, err
	}

	return role, nil
}

// Update applies patch to the role with the given id. Built-in roles are
// mutable: the modified copy is persisted and shadows the default. A non-nil
// patch.Permissions replaces the previous set, it is never merged.
func (r *Roles) Update(id string, patch RolePatch) (Role, error) {
	if patch.Permissions != nil {
		if err := validatePermissions(*patch.Permissions); err != nil {
			return Role{}, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	role, err := r.Get(id)
	if err != nil {
		return Role{}, err
	}

	if patch.Name != nil {
		role.Name = *patch.Name
	}

	if patch.Description != nil {
		role.Description = *patch.Description
	}

	if patch.Permissions != nil {
		role.Permissions = append([]string{}, (*patch.Permissions)...)
	}

	stored, err := r.loadStored()
	if err != nil {
		return Role{}, err
	}

	replaced := false

	for i := range stored {
		if stored[i].ID == id {
			stored[i] = role
			replaced = true

			break
		}
	}

	if !replaced {
		stored = append(stored, role)
	}

	if err := r.kv.SetJSON(KeyRoles, stored); err != nil {
		return Role{}, err
	}

	return role, nil
}

// Delete removes the role with the given id. The super admin role is
// protected and always rejected with ErrProtectedRole. Deleting a built-in
// role tombstones it; deleting a custom role removes it from the stored
// collection. Users referencing the deleted role keep the dangling id, which
// simply resolves to no permissions.
func (r *Roles) Delete(id string) error {
	if id == RoleSuperAdminID {
		return ErrProtectedRole
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.Get(id); err != nil {
		return err
	}

	stored, err := r.loadStored()
	if err != nil {
		return err
	}

	kept := stored[:0]

	for _, role := range stored {
		if role.ID != id {
			kept = append(kept, role)
		}
	}

	if err := r.kv.SetJSON(KeyRoles, kept); err != nil {
		return err
	}

	if isBuiltinRoleID(id) {
		removed, err := r.loadRemoved()
		if err != nil {
			return err
		}

		removed[id] = true

		ids := make([]string, 0, len(removed))
		for rid := range removed {
			ids = append(ids, rid)
		}

		return r.kv.SetJSON(keyRolesRemoved, ids)
	}

	return nil
}

func (r *Roles) loadStored() ([]Role, error) {
	var stored []Role
	if _, err := r.kv.GetJSON(KeyRoles, &stored); err != nil {
		return nil, err
	}

	return stored, nil
}

func (r *Roles) loadRemoved() (map[string]bool, error) {
	var ids []string
	if _, err := r.kv.GetJSON(keyRolesRemoved, &ids); err != nil {
		return nil, err
	}

	removed := make(map[string]bool, len(ids))
	for _, id := range ids {
		removed[id] = true
	}

	return removed, nil
}

func isBuiltinRoleID(id string) bool {
	for _, b := range builtinRoles() {
		if b.ID == id {
			return true
		}
	}

	return false
}

func validatePermissions(keys []string) error {
	for _, key := range keys {
		if !catalog.Has(key) {
			return ErrUnknownPermission
		}
	}

	return nil
}
