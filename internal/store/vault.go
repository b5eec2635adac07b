package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// VaultEntry is a stored credential record. Listings mask the password;
// revealing it requires a fresh one-time code verification at the caller.
type VaultEntry struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Username     string     `json:"username"`
	Password     string     `json:"password"`
	URL          string     `json:"url,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	Category     string     `json:"category"`
	CreatedBy    string     `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	LastAccessed *time.Time `json:"last_accessed,omitempty"`
}

// Vault provides CRUD over credential records.
type Vault struct {
	kv *KV
	mu sync.Mutex
}

// NewVault creates a vault store over the given key-value accessor.
func NewVault(kv *KV) *Vault {
	return &Vault{kv: kv}
}

// List returns all stored entries in insertion order.
func (v *Vault) List() ([]VaultEntry, error) {
	var stored []VaultEntry
	if _, err := v.kv.GetJSON(KeyVault, &stored); err != nil {
		return nil, err
	}

	return stored, nil
}

// Get returns the entry with the given id.
func (v *Vault) Get(id string) (VaultEntry, error) {
	stored, err := v.List()
	if err != nil {
		return VaultEntry{}, err
	}

	for _, e := range stored {
		if e.ID == id {
			return e, nil
		}
	}

	return VaultEntry{}, ErrNotFound
}

// Create stores a new credential record.
func (v *Vault) Create(entry VaultEntry) (VaultEntry, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	stored, err := v.List()
	if err != nil {
		return VaultEntry{}, err
	}

	entry.ID = "cred_" + uuid.NewString()
	entry.CreatedAt = time.Now().UTC()
	entry.LastAccessed = nil

	stored = append(stored, entry)

	if err := v.kv.SetJSON(KeyVault, stored); err != nil {
		return VaultEntry{}, err
	}

	return entry, nil
}

// TouchAccessed stamps the entry's last access time and returns the updated
// record. Called after a successful reveal.
func (v *Vault) TouchAccessed(id string) (VaultEntry, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	stored, err := v.List()
	if err != nil {
		return VaultEntry{}, err
	}

	for i := range stored {
		if stored[i].ID == id {
			now := time.Now().UTC()
			stored[i].LastAccessed = &now

			if err := v.kv.SetJSON(KeyVault, stored); err != nil {
				return VaultEntry{}, err
			}

			return stored[i], nil
		}
	}

	return VaultEntry{}, ErrNotFound
}

// Delete removes the entry with the given id.
func (v *Vault) Delete(id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	stored, err := v.List()
	if err != nil {
		return err
	}

	kept := stored[:0]
	found := false

	for _, e := range stored {
		if e.ID == id {
			found = true
			continue
		}

		kept = append(kept, e)
	}

	if !found {
		return ErrNotFound
	}

	return v.kv.SetJSON(KeyVault, kept)
}
