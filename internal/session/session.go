// Package session records which habitgarden process owns a store.
//
// The engine assumes a single writer per store. A lockfile in the config
// directory lets the TUI and doctor notice a second session before the two
// overwrite each other's snapshots.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitgarden/internal/constants"
)

var (
	findProcessFunc = ps.FindProcess
	getpid          = os.Getpid
)

// ErrHeld is returned by Acquire when another live session owns the lockfile.
var ErrHeld = errors.New("another habitgarden session is running")

// Holder describes the process named in a lockfile.
type Holder struct {
	PID   int
	Store string
}

// Lock is an acquired session lockfile.
type Lock struct {
	path string
	pid  int
}

// Path returns the lockfile location inside dir.
func Path(dir string) string {
	return filepath.Join(dir, constants.SessionLockfileName)
}

// Acquire writes a lockfile for store, replacing a stale one. It fails with
// ErrHeld when a different running habitgarden process holds the lock.
func Acquire(dir, store string) (*Lock, error) {
	holder, running, err := Inspect(dir)
	if err != nil {
		return nil, err
	}
	pid := getpid()
	if running && holder.PID != pid {
		return nil, fmt.Errorf("%w (pid %d, store %s)", ErrHeld, holder.PID, holder.Store)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lockfile directory: %w", err)
	}
	path := Path(dir)
	content := fmt.Sprintf("%d|%s", pid, store)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return &Lock{path: path, pid: pid}, nil
}

// Release removes the lockfile if this process still owns it.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	holder, err := readLockfile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if holder.PID != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// Inspect reads the lockfile in dir. running is true only when the recorded
// PID belongs to a live habitgarden process. A missing or malformed lockfile
// is reported as not running.
func Inspect(dir string) (holder Holder, running bool, err error) {
	holder, err = readLockfile(Path(dir))
	if err != nil {
		if os.IsNotExist(err) || errors.Is(err, errMalformed) {
			return Holder{}, false, nil
		}
		return Holder{}, false, err
	}

	process, err := findProcessFunc(holder.PID)
	if err != nil || process == nil {
		return holder, false, nil
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		return holder, false, nil
	}
	return holder, true, nil
}

var errMalformed = errors.New("lockfile is malformed")

func readLockfile(path string) (Holder, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Holder{}, err
	}
	pidText, store, ok := strings.Cut(strings.TrimSpace(string(content)), "|")
	if !ok {
		return Holder{}, errMalformed
	}
	pid, err := strconv.Atoi(pidText)
	if err != nil || pid <= 0 {
		return Holder{}, errMalformed
	}
	return Holder{PID: pid, Store: store}, nil
}
