package kvstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// record is the single-table schema of the sqlite driver.
type record struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     []byte
	UpdatedAt time.Time
}

func (record) TableName() string { return "kv" }

type sqliteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) a sqlite-backed store at path.
func OpenSQLite(path string) (Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("kvstore/sqlite: mkdir: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("kvstore/sqlite: open %s: %w", path, err)
	}

	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("kvstore/sqlite: migrate: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Put(key string, value []byte) error {
	rec := record{Key: key, Value: value, UpdatedAt: time.Now()}
	if err := s.db.Save(&rec).Error; err != nil {
		return fmt.Errorf("kvstore/sqlite: put %s: %w", key, err)
	}
	return nil
}

func (s *sqliteStore) Get(key string) ([]byte, error) {
	var rec record
	err := s.db.First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore/sqlite: get %s: %w", key, err)
	}
	return rec.Value, nil
}

func (s *sqliteStore) Delete(key string) error {
	if err := s.db.Delete(&record{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("kvstore/sqlite: delete %s: %w", key, err)
	}
	return nil
}

func (s *sqliteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
