// Package sqlite implements the key-value store port as a local SQLite file,
// using gorm on the pure-Go glebarez driver.
package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	sqlitedriver "github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"pregweight/internal/domain"
)

// Entry is one stored key.
type Entry struct {
	Name      string         `gorm:"column:name;primaryKey;size:64"`
	Value     datatypes.JSON `gorm:"type:json;not null"`
	UpdatedAt time.Time
}

// TableName pins the table name.
func (Entry) TableName() string {
	return "kv_entries"
}

// DB wraps a *gorm.DB and implements domain.Store.
type DB struct {
	gorm *gorm.DB
}

var _ domain.Store = (*DB)(nil)

// Open opens (creating if needed) the database file at path and migrates it.
// Use ":memory:" for a throwaway database.
func Open(path string) (*DB, error) {
	g, err := gorm.Open(sqlitedriver.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := g.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	// SQLite has a single writer; one connection also keeps ":memory:" alive.
	sqlDB.SetMaxOpenConns(1)

	if err := g.AutoMigrate(&Entry{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("opened sqlite store: %s", path)
	return &DB{gorm: g}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Get decodes the value stored under key into dst.
func (d *DB) Get(ctx context.Context, key string, dst any) (bool, error) {
	var rows []Entry
	if err := d.gorm.WithContext(ctx).Where("name = ?", key).Limit(1).Find(&rows).Error; err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(rows[0].Value, dst); err != nil {
		return false, fmt.Errorf("sqlite: decode %s: %w", key, err)
	}
	return true, nil
}

// Set upserts the JSON encoding of v under key.
func (d *DB) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("sqlite: encode %s: %w", key, err)
	}
	e := Entry{Name: key, Value: datatypes.JSON(raw), UpdatedAt: time.Now().UTC()}
	return d.gorm.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}
