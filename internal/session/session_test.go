package session

import (
	"errors"
	"os"
	"testing"

	"github.com/mitchellh/go-ps"
)

type mockProcess struct {
	pid        int
	executable string
}

func (p *mockProcess) Pid() int           { return p.pid }
func (p *mockProcess) PPid() int          { return 0 }
func (p *mockProcess) Executable() string { return p.executable }

func stubProcesses(t *testing.T, self int, live map[int]string) {
	t.Helper()
	oldFind, oldPid := findProcessFunc, getpid
	t.Cleanup(func() {
		findProcessFunc = oldFind
		getpid = oldPid
	})
	getpid = func() int { return self }
	findProcessFunc = func(pid int) (ps.Process, error) {
		exe, ok := live[pid]
		if !ok {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: exe}, nil
	}
}

func TestAcquireAndRelease(t *testing.T) {
	dir := t.TempDir()
	stubProcesses(t, 100, map[int]string{100: "habitgarden"})

	lock, err := Acquire(dir, "/tmp/garden.db")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	holder, running, err := Inspect(dir)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if !running || holder.PID != 100 || holder.Store != "/tmp/garden.db" {
		t.Errorf("unexpected holder %+v running=%v", holder, running)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := os.Stat(Path(dir)); !os.IsNotExist(err) {
		t.Errorf("expected lockfile to be removed, stat err = %v", err)
	}
	// second release is a no-op
	if err := lock.Release(); err != nil {
		t.Errorf("second Release failed: %v", err)
	}
}

func TestAcquire_HeldByOtherSession(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(Path(dir), []byte("200|/tmp/garden.db"), 0600); err != nil {
		t.Fatal(err)
	}
	stubProcesses(t, 100, map[int]string{200: "habitgarden"})

	_, err := Acquire(dir, "/tmp/garden.db")
	if !errors.Is(err, ErrHeld) {
		t.Fatalf("expected ErrHeld, got %v", err)
	}
}

func TestAcquire_ReplacesStaleLock(t *testing.T) {
	tests := []struct {
		name    string
		content string
		live    map[int]string
	}{
		{"dead process", "200|/tmp/garden.db", map[int]string{}},
		{"reused pid", "200|/tmp/garden.db", map[int]string{200: "bash"}},
		{"malformed", "garbage", map[int]string{}},
		{"bad pid", "abc|/tmp/garden.db", map[int]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(Path(dir), []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			stubProcesses(t, 100, tt.live)

			lock, err := Acquire(dir, "/tmp/garden.db")
			if err != nil {
				t.Fatalf("Acquire failed: %v", err)
			}
			holder, err := readLockfile(Path(dir))
			if err != nil {
				t.Fatalf("readLockfile failed: %v", err)
			}
			if holder.PID != 100 {
				t.Errorf("expected pid 100 in lockfile, got %d", holder.PID)
			}
			if err := lock.Release(); err != nil {
				t.Errorf("Release failed: %v", err)
			}
		})
	}
}

func TestRelease_KeepsForeignLock(t *testing.T) {
	dir := t.TempDir()
	stubProcesses(t, 100, map[int]string{})

	lock, err := Acquire(dir, "a.db")
	if err != nil {
		t.Fatal(err)
	}
	// another session took over after ours went stale
	if err := os.WriteFile(Path(dir), []byte("300|a.db"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := os.Stat(Path(dir)); err != nil {
		t.Errorf("foreign lockfile should remain: %v", err)
	}
}

func TestInspect_NoLockfile(t *testing.T) {
	_, running, err := Inspect(t.TempDir())
	if err != nil || running {
		t.Errorf("expected no session, got running=%v err=%v", running, err)
	}
}
