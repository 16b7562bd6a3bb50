package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitgarden/internal/keyring"
	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/internal/session"
	"github.com/julianstephens/habitgarden/internal/storage"
	"github.com/julianstephens/habitgarden/internal/validation"
)

var errDoctorFailed = errors.New("one or more health checks failed")

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	fail := func(name string, err error) {
		ctx.printf("❌ %s: FAIL\n", name)
		ctx.printf("   Error: %v\n", err)
		hasError = true
	}
	ok := func(name string) { ctx.printf("✓ %s: OK\n", name) }
	warn := func(name string, err error) {
		ctx.printf("⚠ %s: WARNING\n", name)
		ctx.printf("   %v\n", err)
	}
	skip := func(name, reason string) { ctx.printf("⊘ %s: SKIPPED (%s)\n", name, reason) }

	// Check 1: storage loads and its schema is one this build understands
	state, err := ctx.Store.Load()
	if err != nil {
		fail("Storage reachable", err)
	} else {
		ok("Storage reachable")
	}

	// Check 2: SQLite page integrity
	if sqliteStore, isSQLite := ctx.Store.(*storage.SQLiteStore); isSQLite && state != nil {
		if err := checkSQLiteIntegrity(sqliteStore); err != nil {
			fail("SQLite integrity", err)
		} else {
			ok("SQLite integrity")
		}
	} else if isSQLite {
		skip("SQLite integrity", "storage not reachable")
	}

	// Check 3: referential integrity of the loaded state
	if state != nil {
		if err := checkStateIntegrity(ctx, state); err != nil {
			fail("Data integrity", err)
		} else {
			ok("Data integrity")
		}
	} else {
		skip("Data integrity", "storage not reachable")
	}

	// Check 4: backups present (warning only)
	if mgr, err := ctx.backupManager(); err != nil {
		skip("Backups present", "not SQLite storage")
	} else if backups, err := mgr.List(); err != nil {
		warn("Backups present", fmt.Errorf("failed to list backups: %w", err))
	} else if len(backups) == 0 {
		warn("Backups present", errors.New("no backups found - consider creating one with 'habitgarden backup create'"))
	} else {
		ok("Backups present")
	}

	// Check 5: keyring for PostgreSQL credentials
	if ctx.Config.IsPostgres() {
		if err := checkKeyring(); err != nil {
			warn("OS keyring", err)
		} else {
			ok("OS keyring")
		}
	}

	// Check 6: no other interactive session writing the same store
	if holder, running, err := session.Inspect(ctx.Config.ConfigDir()); err != nil {
		warn("Single session", err)
	} else if running {
		warn("Single session", fmt.Errorf("habitgarden is already running (pid %d); concurrent sessions overwrite each other", holder.PID))
	} else {
		ok("Single session")
	}

	// Check 7: clock and configured timezone
	if err := checkClockTimezone(ctx); err != nil {
		fail("Clock/timezone", err)
	} else {
		ok("Clock/timezone")
	}

	ctx.println()
	if hasError {
		ctx.println("Some checks failed.")
		return errDoctorFailed
	}
	ctx.println("All checks passed.")
	return nil
}

func checkSQLiteIntegrity(store *storage.SQLiteStore) error {
	db := store.GetDB()
	if db == nil {
		return errors.New("database connection is nil")
	}
	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check reported: %s", result)
	}
	return nil
}

func checkStateIntegrity(ctx *Context, state *models.State) error {
	var v *validation.Validator
	if ctx.Engine != nil {
		v = validation.New(ctx.Engine.Catalog())
	} else {
		v = validation.New(nil)
	}
	result := v.ValidateState(state)
	if result.HasConflicts() {
		return errors.New(result.FormatReport())
	}
	return nil
}

func checkKeyring() error {
	if !keyring.Available() {
		return keyring.ErrUnavailable
	}
	if _, err := keyring.ConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string stored; relying on .pgpass or the environment")
		}
		return err
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, err := ctx.Config.Location(); err != nil {
		return err
	}
	return nil
}
