// Package localstore is a self-contained implementation of the remote
// store surface, backed by sqlite for documents and accounts and by the
// local filesystem for blobs. It stands in for the managed backend during
// development and in tests.
package localstore

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store owns the sqlite database holding documents and accounts.
type Store struct {
	db *gorm.DB
}

type documentRow struct {
	Collection string `gorm:"primaryKey;size:64"`
	DocID      string `gorm:"primaryKey;size:64;column:doc_id"`
	Data       string `gorm:"type:text"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type accountRow struct {
	UID           string `gorm:"primaryKey;size:64;column:uid"`
	Email         string `gorm:"uniqueIndex;size:255"`
	PasswordHash  string `gorm:"size:100"`
	DisplayName   string `gorm:"size:255"`
	PhotoURL      string `gorm:"size:2048"`
	Provider      string `gorm:"size:32"`
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (documentRow) TableName() string {
	return "documents"
}

func (accountRow) TableName() string {
	return "accounts"
}

// NewStore opens (or creates) the sqlite database at the given path.
func NewStore(dbPath string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&documentRow{}, &accountRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
