package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aretw0/srec/pkg/adapters/fs"
	"github.com/aretw0/srec/pkg/core"
)

func waitEvent(t *testing.T, events <-chan core.Event, id string) core.Event {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case e, ok := <-events:
			if !ok {
				t.Fatalf("event channel closed before %s", id)
			}
			if e.ID == id {
				return e
			}
		case <-timeout:
			t.Fatalf("timed out waiting for event on %s", id)
		}
	}
}

func TestWatch(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	repo, path := setupRepo(t)
	require.NoError(t, repo.Initialize(ctx))
	require.NoError(t, os.MkdirAll(filepath.Join(path, "grok"), 0755))

	events, err := repo.Watch(ctx, "")
	require.NoError(t, err)
	assert.True(t, repo.State().(fs.RepositoryState).WatcherActive)

	stored, err := repo.Save(ctx, newRecap(t, "Watched", "coils turning", ""))
	require.NoError(t, err)

	e := waitEvent(t, events, stored.ID)
	assert.Contains(t, []core.EventType{core.EventCreate, core.EventModify}, e.Type)

	// Companion files and the log do not match the default pattern.
	require.NoError(t, os.WriteFile(filepath.Join(path, "notes.txt"), []byte("x"), 0644))

	require.NoError(t, repo.Delete(ctx, stored.ID))
	e = waitEvent(t, events, stored.ID)
	assert.Equal(t, core.EventDelete, e.Type)

	cancel()
	for range events {
	}
	assert.False(t, repo.State().(fs.RepositoryState).WatcherActive)
}

func TestWatch_Pattern(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, path := setupRepo(t)
	require.NoError(t, repo.Initialize(ctx))
	for _, dir := range []string{"grok", "conversation"} {
		require.NoError(t, os.MkdirAll(filepath.Join(path, dir), 0755))
	}

	_, err := repo.Watch(ctx, "[unclosed")
	assert.Error(t, err)

	events, err := repo.Watch(ctx, "conversation/**/*.srec")
	require.NoError(t, err)

	_, err = repo.Save(ctx, newRecap(t, "Grok Side", "ignored by pattern", "grok"))
	require.NoError(t, err)
	stored, err := repo.Save(ctx, newRecap(t, "Claude Side", "seen by pattern", "claude"))
	require.NoError(t, err)

	e := waitEvent(t, events, stored.ID)
	assert.Equal(t, "conversation/Claude_2026-10-19_001_claude-side.srec", e.ID)

	cancel()
	for ev := range events {
		assert.NotContains(t, ev.ID, "grok/")
	}
}
