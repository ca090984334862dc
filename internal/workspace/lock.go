package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

// Lock is the advisory workspace lock supplemented in §12: a .lock file
// carrying a uuid token and the owning process's PID, preventing two
// pipeline invocations from racing against the same workspace. It is
// advisory only — a crashed process leaves the file behind, so Acquire
// treats a lock held by a PID that no longer exists as stale and
// reclaims it.
type Lock struct {
	path  string
	token string
}

func lockPath(w *Workspace) string {
	return filepath.Join(w.Dir(), ".lock")
}

// Acquire takes the advisory lock on w, reclaiming a stale lock (held by
// a process that is no longer running) if one is present.
func Acquire(w *Workspace) (*Lock, error) {
	if err := os.MkdirAll(w.Dir(), 0o755); err != nil {
		return nil, xerrors.Wrap(err, xerrors.ConfigError, "create workspace directory")
	}
	path := lockPath(w)

	if data, err := os.ReadFile(path); err == nil {
		if pid, ok := parseLockPID(string(data)); ok && processAlive(pid) {
			return nil, xerrors.Newf(xerrors.ConfigError, "workspace %s is locked by pid %d", w.Slug, pid)
		}
	}

	token := uuid.NewString()
	contents := fmt.Sprintf("%s\n%d\n", token, os.Getpid())
	if err := WriteFileAtomic(path, []byte(contents)); err != nil {
		return nil, err
	}
	return &Lock{path: path, token: token}, nil
}

// Release removes the lock file, provided it still carries this Lock's
// token (it may have been reclaimed by another process if this one took
// too long and was judged stale).
func (l *Lock) Release() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return xerrors.Wrap(err, xerrors.ConfigError, "read lock file")
	}
	if !strings.HasPrefix(string(data), l.token) {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return xerrors.Wrap(err, xerrors.ConfigError, "remove lock file")
	}
	return nil
}

func parseLockPID(contents string) (int, bool) {
	lines := strings.Split(strings.TrimSpace(contents), "\n")
	if len(lines) < 2 {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(lines[1]))
	if err != nil {
		return 0, false
	}
	return pid, true
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// On Unix, FindProcess always succeeds; signal 0 probes existence
	// without actually delivering anything.
	return proc.Signal(syscall.Signal(0)) == nil
}
