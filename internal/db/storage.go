// Package db implements a gorm-backed key-value storage backend.
//
// It satisfies the gofiber storage.Storage interface so the store package can
// run over an embedded sqlite file or a shared database without knowing the
// difference.
package db

import (
	"errors"
	"time"

	"github.com/glebarez/sqlite"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/mushya-portal/mushya-portal/internal/config"
	"github.com/mushya-portal/mushya-portal/internal/db/dsn"
	"github.com/mushya-portal/mushya-portal/internal/db/models"
)

const keyQueryPattern = "key = ?"

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Storage is a key-value store over a gorm database.
type Storage struct {
	db *gorm.DB
}

// New wraps an open gorm database as a key-value storage backend and
// migrates the record schema.
func New(gdb *gorm.DB) (*Storage, error) {
	if gdb == nil {
		return nil, ErrDBNil
	}

	if err := gdb.AutoMigrate(&models.Record{}); err != nil {
		return nil, err
	}

	return &Storage{db: gdb}, nil
}

// Open connects to the database selected by the configuration and returns a
// migrated storage backend. Supported drivers: sqlite (embedded file) and
// mysql.
func Open(cfg *config.Config) (*Storage, error) {
	var dialector gorm.Dialector

	switch cfg.DB.Driver {
	case "mysql":
		dialector = gormmysql.Open(dsn.Create(cfg))
	default:
		dialector = sqlite.Open(cfg.DB.Path)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return New(gdb)
}

// Get returns the value for key, or nil when absent.
func (s *Storage) Get(key string) ([]byte, error) {
	var record models.Record

	result := s.db.Where(keyQueryPattern, key).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, result.Error
	}

	return record.Value, nil
}

// Set creates or updates the value stored under key. The expiration is
// ignored; portal collections never expire.
func (s *Storage) Set(key string, val []byte, _ time.Duration) error {
	var record models.Record

	result := s.db.Where(keyQueryPattern, key).First(&record)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		record = models.Record{Key: key, Value: val}

		return s.db.Create(&record).Error
	}

	if result.Error != nil {
		return result.Error
	}

	record.Value = val

	return s.db.Save(&record).Error
}

// Delete removes the value stored under key. Deleting an absent key is not
// an error.
func (s *Storage) Delete(key string) error {
	return s.db.Where(keyQueryPattern, key).Delete(&models.Record{}).Error
}

// Reset removes all records.
func (s *Storage) Reset() error {
	return s.db.Where("1 = 1").Delete(&models.Record{}).Error
}

// Close closes the underlying database connection.
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
