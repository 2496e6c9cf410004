package database

import (
	"fmt"

	"github.com/greatbrands/ticketing/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB opens the connection and runs the schema migration once at
// startup. Nothing else in the service touches the schema.
func NewPostgresDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the tables and supporting indexes. Also used by the
// integration test setup.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Event{},
		&models.Booking{},
		&models.WaitingListEntry{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	// FIFO reads scan (event_id, id); keep them index-only.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_waiting_list_event_order
		ON waiting_list (event_id, id)
	`).Error; err != nil {
		return fmt.Errorf("create waiting list index: %w", err)
	}

	return nil
}
