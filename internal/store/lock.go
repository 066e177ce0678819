package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"syscall"
	"time"
)

// lockInfo is the metadata stored in the lock file.
type lockInfo struct {
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	Owner     string    `json:"owner"`
	Timestamp time.Time `json:"timestamp"`
}

// FileLock guards the database against a second interactive writer. SQLite
// serializes transactions, but two concurrent intake CLIs on one database
// would interleave their prompts, so the whole session takes the lock.
type FileLock struct {
	path  string
	file  *os.File
	owner string
}

// NewFileLock creates a file lock. Owner labels who holds it in error
// messages ("cli", "web").
func NewFileLock(path, owner string) *FileLock {
	return &FileLock{path: path, owner: owner}
}

// Acquire attempts to acquire the lock, stealing it when the holder is dead
// or the lock is older than 30 minutes.
func (l *FileLock) Acquire() error {
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("warning: failed to close lock file during error handling: %v", closeErr)
		}

		existing, readErr := l.readLockInfo()
		if readErr == nil && l.isStale(existing) {
			return l.stealLock()
		}

		if readErr == nil {
			age := time.Since(existing.Timestamp).Round(time.Second)
			return fmt.Errorf("database locked by %s (PID %d, %v ago)",
				existing.Owner, existing.PID, age)
		}

		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	l.file = file

	hostname, _ := os.Hostname()
	info := lockInfo{
		PID:       os.Getpid(),
		Hostname:  hostname,
		Owner:     l.owner,
		Timestamp: time.Now(),
	}

	data, _ := json.MarshalIndent(info, "", "  ")
	if err := file.Truncate(0); err != nil {
		return fmt.Errorf("truncate lock file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return fmt.Errorf("seek lock file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("write lock metadata: %w", err)
	}

	return nil
}

// Release releases the lock and removes the lock file.
func (l *FileLock) Release() error {
	if l.file == nil {
		return nil
	}

	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		log.Printf("warning: failed to release flock: %v", err)
	}
	if err := l.file.Close(); err != nil {
		log.Printf("warning: failed to close lock file: %v", err)
	}

	return os.Remove(l.path)
}

func (l *FileLock) readLockInfo() (*lockInfo, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}

	var info lockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// isStale reports whether the holding process is dead or the lock is older
// than 30 minutes.
func (l *FileLock) isStale(info *lockInfo) bool {
	process, err := os.FindProcess(info.PID)
	if err != nil {
		return true
	}

	// On Unix FindProcess always succeeds; signal 0 checks liveness.
	if err := process.Signal(syscall.Signal(0)); err != nil {
		return true
	}

	return time.Since(info.Timestamp) > 30*time.Minute
}

func (l *FileLock) stealLock() error {
	_ = os.Remove(l.path)
	return l.Acquire()
}
