package store

import (
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/gorm"
)

// kvEntry is the row shape of the local mirror table.
type kvEntry struct {
	Key   string `gorm:"primaryKey;column:key;type:varchar(255)"`
	Value string `gorm:"column:value;type:text"`
}

func (kvEntry) TableName() string {
	return "kv_entries"
}

// GORMKV is a GORM-backed implementation of KV, normally opened on a
// local SQLite file so cart and order state survive restarts.
type GORMKV struct {
	db *gorm.DB
}

// NewGORMKV creates a GORMKV and migrates its table.
func NewGORMKV(db *gorm.DB) (*GORMKV, error) {
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv_entries: %w", err)
	}
	return &GORMKV{db: db}, nil
}

// Save serializes value to JSON and upserts it under key.
func (s *GORMKV) Save(key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}
	entry := kvEntry{Key: key, Value: string(payload)}
	if err := s.db.Save(&entry).Error; err != nil {
		return fmt.Errorf("failed to save key %s: %w", key, err)
	}
	return nil
}

// Load reads and decodes the entry under key. A corrupt payload is
// logged and treated the same as an absent key so a damaged local
// store never takes the service down.
func (s *GORMKV) Load(key string, out any) (bool, error) {
	var entry kvEntry
	if err := s.db.First(&entry, "key = ?", key).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to load key %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(entry.Value), out); err != nil {
		log.Printf("Corrupt payload under key %s, falling back to default: %v", key, err)
		return false, nil
	}
	return true, nil
}

// Delete removes the entry under key if present.
func (s *GORMKV) Delete(key string) error {
	if err := s.db.Delete(&kvEntry{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}
