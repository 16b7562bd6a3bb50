package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/logger"
	"github.com/julianstephens/habitgarden/internal/migration"
	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/migrations"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// PostgresStore keeps the snapshot in the habitgarden schema of a PostgreSQL database.
type PostgresStore struct {
	connStr string
	db      *sql.DB
}

func NewPostgresStore(connStr string) *PostgresStore {
	return &PostgresStore{connStr: withSearchPath(connStr)}
}

// IsPostgresURL reports whether target names a PostgreSQL database rather than a file.
func IsPostgresURL(target string) bool {
	return strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://")
}

// withSearchPath pins search_path to the app schema unless the caller set one.
func withSearchPath(connStr string) string {
	if IsPostgresURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return connStr
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
		}
		return u.String()
	}
	if dsnParam(connStr, "search_path") {
		return connStr
	}
	return strings.TrimSpace(connStr) + " search_path=" + constants.AppName
}

// dsnParam reports whether a key=value DSN sets key, case-insensitively.
func dsnParam(connStr, key string) bool {
	for _, part := range strings.Fields(connStr) {
		k, _, ok := strings.Cut(part, "=")
		if ok && strings.EqualFold(strings.TrimSpace(k), key) {
			return true
		}
	}
	return false
}

func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for key := range u.Query() {
			if strings.EqualFold(key, "sslmode") {
				return true
			}
		}
	}
	return dsnParam(connStr, "sslmode")
}

// HasEmbeddedCredentials reports whether connStr carries a password.
func HasEmbeddedCredentials(connStr string) bool {
	if IsPostgresURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil || u.User == nil {
			return false
		}
		_, set := u.User.Password()
		return set
	}
	return dsnParam(connStr, "password")
}

// ValidateConnString accepts URI or DSN connection strings that parse and carry
// no password.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}
	if HasEmbeddedCredentials(connStr) {
		return ErrEmbeddedCredentials
	}
	if IsPostgresURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
		}
		if u.Host == "" && u.User == nil && (u.Path == "" || u.Path == "/") {
			return fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
	}
	return nil
}

func (s *PostgresStore) Init() error {
	if err := s.open(); err != nil {
		return err
	}
	if _, err := s.db.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
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

func (s *PostgresStore) Load() (*models.State, error) {
	if s.db == nil {
		if err := s.open(); err != nil {
			return nil, err
		}
		if err := s.validateSchemaVersion(); err != nil {
			return nil, err
		}
	}
	return readSnapshot(s.db, migration.Postgres)
}

func (s *PostgresStore) Save(state *models.State) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}
	if err := writeSnapshot(s.db, migration.Postgres, state); err != nil {
		logger.Error("Failed to save snapshot", "backend", "postgresql", "error", err)
		return err
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// GetConfigPath returns a non-sensitive identifier instead of the connection string.
func (s *PostgresStore) GetConfigPath() string {
	return "postgresql"
}

func (s *PostgresStore) open() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func (s *PostgresStore) migrationRunner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return nil, fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.Postgres), nil
}

func (s *PostgresStore) runMigrations() error {
	runner, err := s.migrationRunner()
	if err != nil {
		return err
	}
	_, err = runner.Apply(func(msg string) {
		logger.Info(msg)
	})
	return err
}

func (s *PostgresStore) validateSchemaVersion() error {
	runner, err := s.migrationRunner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}
