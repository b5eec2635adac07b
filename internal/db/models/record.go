// Package models contains database model definitions.
package models

// Record is a single key-value pair of the persistence substrate. Values are
// JSON-encoded collections written by the store package.
type Record struct {
	ID    uint64 `gorm:"primaryKey"`
	Key   string `gorm:"unique;size:255;not null"`
	Value []byte `gorm:"type:blob"`
}
