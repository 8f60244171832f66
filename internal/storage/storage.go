// Package storage provides access-log persistence using GORM and SQLite
package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Sentinel errors following Dave Cheney's principle: define errors as values
var (
	ErrNilRecord    = errors.New("access record cannot be nil")
	ErrInvalidLimit = errors.New("limit must be positive")
)

// AccessRecord is one answered request.
type AccessRecord struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RemoteAddr string `gorm:"not null" json:"remote_addr"`
	Method     string `gorm:"not null;index:idx_method_path" json:"method"`
	Path       string `gorm:"not null;index:idx_method_path" json:"path"`
	Proto      string `json:"proto,omitempty"`

	Status     int   `gorm:"not null;index" json:"status"`
	Bytes      int   `gorm:"not null;default:0" json:"bytes"`
	DurationMs int64 `gorm:"not null;default:0" json:"duration_ms"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// TableName overrides the table name for GORM.
func (AccessRecord) TableName() string {
	return "access_log"
}

// StatusCount is the number of records answered with Status.
type StatusCount struct {
	Status int   `json:"status"`
	Count  int64 `json:"count"`
}

// Store defines the interface for access-log operations
type Store interface {
	Close() error
	RecordAccess(*AccessRecord) error
	ListRecent(limit int) ([]AccessRecord, error)
	ListByStatus(status int) ([]AccessRecord, error)
	CountByStatus() ([]StatusCount, error)
}

// DB wraps gorm.DB with our access-log operations
type DB struct {
	db *gorm.DB
}

var _ Store = (*DB)(nil)

// Config holds database configuration
type Config struct {
	DatabasePath string
	LogLevel     string // silent, error, warn, info
}

// InitDB initializes the database connection and runs migrations
func InitDB(cfg Config) (*DB, error) {
	logLevel := logger.Silent
	switch cfg.LogLevel {
	case "error":
		logLevel = logger.Error
	case "warn":
		logLevel = logger.Warn
	case "info":
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Connections write concurrently; a single SQLite connection serialises
	// them and keeps ":memory:" databases on one handle.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&AccessRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}
