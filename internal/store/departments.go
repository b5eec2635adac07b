package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Department is an organizational unit users belong to.
type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Departments provides CRUD over department records.
type Departments struct {
	kv *KV
	mu sync.Mutex
}

// NewDepartments creates a department store over the given key-value accessor.
func NewDepartments(kv *KV) *Departments {
	return &Departments{kv: kv}
}

// List returns all stored departments in insertion order.
func (d *Departments) List() ([]Department, error) {
	var stored []Department
	if _, err := d.kv.GetJSON(KeyDepartments, &stored); err != nil {
		return nil, err
	}

	return stored, nil
}

// Create stores a new department.
func (d *Departments) Create(name string) (Department, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	stored, err := d.List()
	if err != nil {
		return Department{}, err
	}

	dept := Department{
		ID:        "dept_" + uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	stored = append(stored, dept)

	if err := d.kv.SetJSON(KeyDepartments, stored); err != nil {
		return Department{}, err
	}

	return dept, nil
}

// Update renames the department with the given id.
func (d *Departments) Update(id, name string) (Department, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	stored, err := d.List()
	if err != nil {
		return Department{}, err
	}

	for i := range stored {
		if stored[i].ID == id {
			stored[i].Name = name

			if err := d.kv.SetJSON(KeyDepartments, stored); err != nil {
				return Department{}, err
			}

			return stored[i], nil
		}
	}

	return Department{}, ErrNotFound
}

// Delete removes the department with the given id.
func (d *Departments) Delete(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	stored, err := d.List()
	if err != nil {
		return err
	}

	kept := stored[:0]
	found := false

	for _, dept := range stored {
		if dept.ID == id {
			found = true
			continue
		}

		kept = append(kept, dept)
	}

	if !found {
		return ErrNotFound
	}

	return d.kv.SetJSON(KeyDepartments, kept)
}
