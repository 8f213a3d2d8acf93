package client

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/zerr"
	"golang.org/x/sys/unix"
)

const lockPollInterval = 100 * time.Millisecond

// FileLock implements ports.ClientLock with an advisory flock on a lock file.
type FileLock struct{}

// NewFileLock creates a new FileLock.
func NewFileLock() *FileLock {
	return &FileLock{}
}

// Acquire blocks until the lock at path is held or ctx is done.
func (l *FileLock) Acquire(ctx context.Context, path string) (func() error, error) {
	if path == "" {
		return func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create lock directory"), "path", path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600) //nolint:gosec // configured lock path
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open lock file"), "path", path)
	}
	fd := int(f.Fd()) //nolint:gosec // file descriptors fit in int

	for {
		err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			break
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			_ = f.Close()
			return nil, zerr.With(zerr.Wrap(err, "failed to lock"), "path", path)
		}

		select {
		case <-ctx.Done():
			_ = f.Close()
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
		}
	}

	return func() error {
		unlockErr := unix.Flock(fd, unix.LOCK_UN)
		closeErr := f.Close()
		return errors.Join(unlockErr, closeErr)
	}, nil
}
