// Package pidfile enforces single-instance daemon operation through a PID
// file: two agents driving the same account would fight over unit goals.
package pidfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// PIDFile manages the daemon's process ID file
type PIDFile struct {
	path string
}

// New creates a PIDFile manager for the given path
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Path returns the file location
func (p *PIDFile) Path() string {
	return p.path
}

// Acquire claims the PID file, failing when another live instance holds it.
// Stale files left by dead processes are removed and reclaimed.
func (p *PIDFile) Acquire() error {
	if _, err := os.Stat(p.path); err == nil {
		data, err := os.ReadFile(p.path)
		if err != nil {
			return fmt.Errorf("failed to read existing PID file: %w", err)
		}

		if pid, err := strconv.Atoi(strings.TrimSpace(string(data))); err != nil {
			// Unparseable PID file, treat as stale
			_ = os.Remove(p.path)
		} else if isProcessRunning(pid) {
			return fmt.Errorf("daemon is already running (PID %d)", pid)
		} else {
			_ = os.Remove(p.path)
		}
	}

	pidData := fmt.Sprintf("%d\n", os.Getpid())
	if err := os.WriteFile(p.path, []byte(pidData), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// ForceAcquire removes any existing PID file and claims it, running or not
func (p *PIDFile) ForceAcquire() error {
	_ = os.Remove(p.path)
	pidData := fmt.Sprintf("%d\n", os.Getpid())
	if err := os.WriteFile(p.path, []byte(pidData), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Release removes the PID file
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// isProcessRunning probes a PID with signal 0, which checks existence and
// permissions without delivering anything
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// On Unix FindProcess always succeeds; the probe is the signal
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	if err == syscall.ESRCH {
		return false
	}
	if err == syscall.EPERM {
		// Exists but owned by someone else
		return true
	}
	return false
}
