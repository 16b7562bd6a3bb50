package storage

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitgarden/internal/logger"
	"github.com/julianstephens/habitgarden/internal/migration"
	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/migrations"
)

// SQLiteStore is the default backend: one database file under the config directory.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.open(); err != nil {
		return err
	}
	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM meta").Scan(&n); err != nil {
		return fmt.Errorf("failed to inspect storage: %w", err)
	}
	if n == 0 {
		return s.Save(models.NewState())
	}
	return nil
}

func (s *SQLiteStore) Load() (*models.State, error) {
	if s.db == nil {
		if _, err := os.Stat(s.path); os.IsNotExist(err) {
			return nil, ErrNotInitialized
		}
		if err := s.open(); err != nil {
			return nil, err
		}
		if err := s.validateSchemaVersion(); err != nil {
			return nil, err
		}
	}
	return readSnapshot(s.db, migration.SQLite)
}

func (s *SQLiteStore) Save(state *models.State) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}
	if err := writeSnapshot(s.db, migration.SQLite, state); err != nil {
		logger.Error("Failed to save snapshot", "path", s.path, "error", err)
		return err
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// GetDB returns the open connection, or nil before Init/Load.
func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}

func (s *SQLiteStore) open() error {
	if s.db != nil {
		return nil
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes writers on the file.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return fmt.Errorf("failed to configure database: %w", err)
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) migrationRunner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.SQLite), nil
}

func (s *SQLiteStore) runMigrations() error {
	runner, err := s.migrationRunner()
	if err != nil {
		return err
	}
	_, err = runner.Apply(func(msg string) {
		logger.Info(msg)
	})
	return err
}

func (s *SQLiteStore) validateSchemaVersion() error {
	runner, err := s.migrationRunner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}
