package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// record is one serialized collection row.
type record struct {
	Kind      string `gorm:"primaryKey;type:varchar(32)"`
	OwnerID   string `gorm:"primaryKey;type:varchar(64);column:owner_id"`
	Data      []byte
	UpdatedAt time.Time
}

func (record) TableName() string { return "records" }

// GORMBackend is a GORM implementation of Backend. It works with any GORM dialect that
// supports ON CONFLICT upserts (sqlite, postgres).
type GORMBackend struct {
	db *gorm.DB
}

// NewGORMBackend creates a GORMBackend and migrates the records table.
func NewGORMBackend(db *gorm.DB) (*GORMBackend, error) {
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate records table: %w", err)
	}
	return &GORMBackend{db: db}, nil
}

// Get retrieves the stored bytes for key.
func (b *GORMBackend) Get(ctx context.Context, key Key) ([]byte, error) {
	var row record
	err := b.db.WithContext(ctx).First(&row, "kind = ? AND owner_id = ?", string(key.Kind), key.Owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get record %s: %w", key, err)
	}
	return row.Data, nil
}

// Put upserts every entry inside one transaction.
func (b *GORMBackend) Put(ctx context.Context, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			row := record{Kind: string(e.Key.Kind), OwnerID: e.Key.Owner, Data: e.Value, UpdatedAt: now}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
				return fmt.Errorf("failed to save record %s: %w", e.Key, err)
			}
		}
		return nil
	})
}

// Close closes the underlying database handle.
func (b *GORMBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}
