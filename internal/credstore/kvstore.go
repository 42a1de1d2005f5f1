package credstore

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Item is one persisted key-value row in the fallback tier.
type Item struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

func (Item) TableName() string {
	return "kv_items"
}

// KV is the fallback tier: a plain SQLite-backed key-value table, the same
// storage class the mobile platform's async storage uses on-device.
type KV struct {
	db *gorm.DB
}

func NewKV(path string) (*KV, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open fallback tier database: %w", err)
	}
	return NewKVWithDB(db)
}

func NewKVWithDB(db *gorm.DB) (*KV, error) {
	if err := db.AutoMigrate(&Item{}); err != nil {
		return nil, fmt.Errorf("failed to migrate fallback tier schema: %w", err)
	}
	return &KV{db: db}, nil
}

func (s *KV) Get(key string) (string, error) {
	var item Item
	err := s.db.First(&item, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return item.Value, nil
}

// Set upserts the row so repeated writes overwrite rather than append.
func (s *KV) Set(key, value string) error {
	item := &Item{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(item).Error
}

func (s *KV) Delete(key string) error {
	return s.db.Where("key = ?", key).Delete(&Item{}).Error
}
