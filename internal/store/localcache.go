package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CacheEntry is one row of the on-device key/value cache.
type CacheEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

func (CacheEntry) TableName() string {
	return "cache_entries"
}

// LocalCache implements KeyValueStore on the embedded sqlite database.
type LocalCache struct {
	db *gorm.DB
}

// NewLocalCache creates a KeyValueStore over the given gorm connection.
// The cache_entries table must be migrated by the caller.
func NewLocalCache(db *gorm.DB) *LocalCache {
	return &LocalCache{db: db}
}

func (c *LocalCache) Get(key string) (string, error) {
	var entry CacheEntry
	if err := c.db.Where("key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	return entry.Value, nil
}

func (c *LocalCache) Set(key, value string) error {
	entry := CacheEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := c.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

func (c *LocalCache) Delete(key string) error {
	if err := c.db.Where("key = ?", key).Delete(&CacheEntry{}).Error; err != nil {
		return fmt.Errorf("failed to delete cache key %s: %w", key, err)
	}
	return nil
}
