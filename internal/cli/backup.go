package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitgarden/internal/backup"
	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/logger"
	"github.com/julianstephens/habitgarden/internal/storage"
)

var errBackupUnsupported = errors.New("backups are only supported for SQLite storage")

func (c *Context) backupManager() (*backup.Manager, error) {
	if _, ok := c.Store.(*storage.SQLiteStore); !ok {
		return nil, errBackupUnsupported
	}
	return backup.NewManager(c.Store.GetConfigPath()), nil
}

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	backupPath, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.println("No backups found.")
		ctx.printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		timestamp := b.Timestamp.Format("2006-01-02 15:04:05")
		ctx.printf("  %s  %s  (%.1f KB)\n", timestamp, filepath.Base(b.Path), sizeKB)
	}
	ctx.printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}

	backupPath := c.BackupFile
	if !filepath.IsAbs(backupPath) {
		// A bare filename refers to the backup directory
		possiblePath := filepath.Join(mgr.Dir(), c.BackupFile)
		if _, err := os.Stat(possiblePath); err == nil {
			backupPath = possiblePath
		}
	}
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file not found: %s", backupPath)
	}

	if !c.Yes {
		ctx.println("⚠️  WARNING: This will replace your current database with the backup.")
		ctx.println("A backup of your current database will be created before restoring.")
		ctx.printf("\nRestore from: %s\n", filepath.Base(backupPath))
		ctx.printf("Continue? [y/N]: ")

		response, err := bufio.NewReader(ctx.In).ReadString('\n')
		if err != nil && response == "" {
			return err
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			ctx.println("Restore cancelled.")
			return nil
		}
	}

	// The store must not hold the database open while it is replaced
	if err := ctx.Store.Close(); err != nil {
		logger.Warn("Failed to close database before restore", "error", err)
	}

	previous, err := mgr.Restore(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	ctx.println("✓ Database restored successfully!")
	if previous != "" {
		ctx.printf("Previous database saved as: %s\n", filepath.Base(previous))
	}
	ctx.println("Restart any running habitgarden sessions to use the restored database.")
	return nil
}
