package client_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kerntune/internal/adapters/client"
)

func TestFileLock_EmptyPath(t *testing.T) {
	release, err := client.NewFileLock().Acquire(context.Background(), "")
	require.NoError(t, err)
	assert.NoError(t, release())
}

func TestFileLock_Exclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locks", "client.lock")
	lock := client.NewFileLock()

	release, err := lock.Acquire(context.Background(), path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	_, err = lock.Acquire(ctx, path)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	acquired := make(chan func() error)
	go func() {
		r, err := lock.Acquire(context.Background(), path)
		assert.NoError(t, err)
		acquired <- r
	}()

	require.NoError(t, release())

	select {
	case r := <-acquired:
		assert.NoError(t, r())
	case <-time.After(5 * time.Second):
		t.Fatal("lock was not handed over after release")
	}
}
