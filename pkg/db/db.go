package db

import (
	"context"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hristov111/companion/pkg/db/models"
)

type DB struct {
	DB *gorm.DB
}

func New(dsn string, logLevel logger.LogLevel) (*DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	return &DB{
		DB: db,
	}, nil
}

// UpdateSchema migrates the conversation and memory tables.
func (d *DB) UpdateSchema() error {
	return d.DB.AutoMigrate(
		&models.Conversation{},
		&models.ConversationMessage{},
		&models.MemoryEntry{},
	)
}

// Ping verifies the underlying connection is alive.
func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
