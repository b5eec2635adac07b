// Package store implements the portal's durable state over a flat key-value
// substrate.
//
// All collections are stored as JSON-encoded values under namespaced keys
// (e.g. "mushya_users", "mushya_roles"). Writes are whole-collection
// overwrites; there is no incremental patching and no cross-process
// coordination beyond last-writer-wins.
package store

import (
	"encoding/json"

	"github.com/gofiber/storage"
	"github.com/pkg/errors"
)

// Keys under which collections are persisted, relative to the namespace.
const (
	KeyUsers     = "users"
	KeyRoles     = "roles"
	KeyPasswords = "passwords"

	KeyDepartments      = "departments"
	KeyVault            = "vault"
	KeyCurrencySettings = "currency_settings"

	// KeySession is the default key for the persisted session principal.
	KeySession = "user"
)

// KV wraps a storage backend with a key namespace and a JSON codec.
// It is the single point through which collections are read and written.
type KV struct {
	storage   storage.Storage
	namespace string
}

// NewKV creates a namespaced key-value accessor over the given backend.
func NewKV(st storage.Storage, namespace string) *KV {
	if st == nil {
		panic("storage is nil")
	}

	return &KV{storage: st, namespace: namespace}
}

// Key returns the fully namespaced storage key for name.
func (kv *KV) Key(name string) string {
	return kv.namespace + "_" + name
}

// GetJSON reads the value stored under name into v.
// It returns false without touching v when the key is absent.
func (kv *KV) GetJSON(name string, v any) (bool, error) {
	raw, err := kv.storage.Get(kv.Key(name))
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", name)
	}

	if len(raw) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return false, errors.Wrapf(err, "failed to decode %s", name)
	}

	return true, nil
}

// SetJSON writes v as the value stored under name, replacing any previous
// value. Values never expire; durability is delegated to the backend.
func (kv *KV) SetJSON(name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", name)
	}

	if err := kv.storage.Set(kv.Key(name), raw, 0); err != nil {
		return errors.Wrapf(err, "failed to write %s", name)
	}

	return nil
}

// Delete removes the value stored under name. Deleting an absent key is not
// an error.
func (kv *KV) Delete(name string) error {
	if err := kv.storage.Delete(kv.Key(name)); err != nil {
		return errors.Wrapf(err, "failed to delete %s", name)
	}

	return nil
}
