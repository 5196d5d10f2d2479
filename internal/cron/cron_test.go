package cron

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func touch(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	mod := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, mod, mod))
	return path
}

func TestSweepTemp(t *testing.T) {
	dir := t.TempDir()
	stale := touch(t, dir, uuid.NewString()+".png", 48*time.Hour)
	fresh := touch(t, dir, uuid.NewString()+".pdf", time.Minute)
	foreign := touch(t, dir, "notes.txt", 72*time.Hour)
	require.NoError(t, os.Mkdir(filepath.Join(dir, uuid.NewString()), 0o755))

	n, err := SweepTemp(dir, 24*time.Hour, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
	assert.FileExists(t, foreign)
}

func TestSweepTempMissingDir(t *testing.T) {
	n, err := SweepTemp(filepath.Join(t.TempDir(), "gone"), time.Hour, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}

type cleanerFunc func(days int) error

func (f cleanerFunc) CleanupOldLogs(days int) error { return f(days) }

func TestStartAuditCleanupRunsImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan int, 1)
	StartAuditCleanup(ctx, zap.NewNop(), cleanerFunc(func(days int) error {
		got <- days
		return nil
	}), 90)

	select {
	case days := <-got:
		assert.Equal(t, 90, days)
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup did not run")
	}
}
