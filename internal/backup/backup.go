// Package backup copies the SQLite garden database into a rotating set of
// timestamped snapshots next to it and restores from them.
package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/logger"
)

const timestampLayout = "20060102-150405"

// habitgarden-YYYYMMDD-HHMMSS[-N].db
var backupName = regexp.MustCompile(`^` + regexp.QuoteMeta(constants.BackupFilePrefix) +
	`(\d{8}-\d{6})(?:-(\d+))?` + regexp.QuoteMeta(constants.BackupFileSuffix) + `$`)

// Info describes one backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
	seq       int
}

// Manager creates, lists and restores backups of one database file.
type Manager struct {
	dbPath    string
	backupDir string
	now       func() time.Time
}

func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		now:       time.Now,
	}
}

// Dir returns the backup directory.
func (m *Manager) Dir() string {
	return m.backupDir
}

// Create snapshots the database and prunes backups beyond the retention limit.
func (m *Manager) Create() (string, error) {
	path, err := m.create()
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return path, nil
}

func (m *Manager) create() (string, error) {
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}
	if err := m.snapshot(path); err != nil {
		return "", fmt.Errorf("failed to back up database: %w", err)
	}
	logger.Info("Backup created", "path", path)
	return path, nil
}

// nextPath picks an unused name for the current second.
func (m *Manager) nextPath() (string, error) {
	stamp := m.now().Format(timestampLayout)
	path := filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	for n := 1; n <= 100; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		path = filepath.Join(m.backupDir, fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, stamp, n, constants.BackupFileSuffix))
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

// snapshot writes a consistent copy with VACUUM INTO, falling back to a file copy.
func (m *Manager) snapshot(dest string) error {
	db, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	if err := verify(db); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := db.Exec("VACUUM INTO ?", dest); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		db.Close()
		return copyFile(m.dbPath, dest)
	}
	return nil
}

// List returns backups newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := backupName.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		ts, err := time.ParseInLocation(timestampLayout, match[1], time.Local)
		if err != nil {
			continue
		}
		seq, _ := strconv.Atoi(match[2])
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      fi.Size(),
			seq:       seq,
		})
	}

	slices.SortFunc(backups, func(a, b Info) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return b.seq - a.seq
	})
	return backups, nil
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for _, b := range backups[min(len(backups), constants.MaxBackups):] {
		if err := os.Remove(b.Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", b.Path, err)
		}
	}
	return nil
}

// Restore replaces the database with backupPath. The current database, if
// any, is backed up first; its path is returned. The storage must be closed.
func (m *Manager) Restore(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := verifyFile(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var previous string
	if _, err := os.Stat(m.dbPath); err == nil {
		// not rotated, so the backup being restored is never pruned mid-restore
		previous, err = m.create()
		if err != nil {
			return "", fmt.Errorf("failed to back up current database before restore: %w", err)
		}
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tmp); err != nil {
		return previous, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("Failed to remove temporary restore file", "path", tmp, "error", rmErr)
		}
		return previous, fmt.Errorf("failed to restore database: %w", err)
	}
	logger.Info("Backup restored", "from", backupPath, "previous", previous)
	return previous, nil
}

func verify(db *sql.DB) error {
	var n int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&n)
}

func verifyFile(path string) error {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	return verify(db)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
