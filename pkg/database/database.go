// Package database owns the handle to the single persistent store file.
// The handle is constructed once at process start and passed to the
// migration runner and repositories; there is no package-global instance.
package database

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bornfidis/harvesthub/internal/model"
	"github.com/bornfidis/harvesthub/pkg/config"
)

// Store wraps the GORM handle to the embedded store file.
type Store struct {
	db   *gorm.DB
	path string
	log  *zap.Logger
}

// Open resolves and opens the store file, creating the parent directory if
// needed. Concurrency pragmas (write-ahead logging, busy timeout, foreign
// keys) are set once here so readers can coexist with the single writer.
func Open(cfg *config.Config, log *zap.Logger) (*Store, error) {
	path := cfg.Store.Path
	if !filepath.IsAbs(path) {
		return nil, fmt.Errorf("%w: %q", config.ErrNotAbsolute, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d&_foreign_keys=on&_synchronous=NORMAL",
		path, cfg.Store.BusyTimeout.Milliseconds())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(cfg.Store.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("store connection pool: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.Store.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Store.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.Store.ConnMaxLifetime)

	if !cfg.SilentInit {
		log.Info("store opened", zap.String("path", path))
	}

	return &Store{db: db, path: path, log: log}, nil
}

// DB returns the underlying GORM handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Path returns the resolved store file location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the store file is present on disk.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// EnsureCreated creates all entity tables, including the migration ledger.
// Calling it on an already-initialized store is a no-op.
func (s *Store) EnsureCreated() error {
	if err := s.db.AutoMigrate(model.Tables()...); err != nil {
		return fmt.Errorf("create store tables: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
