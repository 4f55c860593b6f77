package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/srec/pkg/adapters/lifecycle"
	"github.com/aretw0/srec/pkg/core"
)

func TestSource(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	in := make(chan core.Event, 3)
	in <- core.Event{Type: core.EventCreate, ID: "grok/a.srec"}
	in <- core.Event{Type: core.EventDelete, ID: "grok/b.srec"}
	in <- core.Event{Type: core.EventModify, ID: "grok/c.srec"}
	close(in)

	src := lifecycle.NewSource(in, lifecycle.SkipDeletes)
	require.NoError(t, src.Start(ctx))

	var got []string
	for e := range src.Events() {
		ev, ok := e.(core.Event)
		require.True(t, ok)
		got = append(got, ev.ID)
	}
	assert.Equal(t, []string{"grok/a.srec", "grok/c.srec"}, got)
}

func TestSource_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan core.Event)

	src := lifecycle.NewSource(in, nil)
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("source did not close after cancel")
	}
}
