package core_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/srec/pkg/core"
	"github.com/aretw0/srec/pkg/spiral"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRepository implements core.Repository in memory.
// It deliberately does NOT implement core.Watchable.
type MockRepository struct {
	recaps map[string]core.Recap
	loaded map[string]core.Loaded
	seq    int
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		recaps: make(map[string]core.Recap),
		loaded: make(map[string]core.Loaded),
	}
}

func (m *MockRepository) Save(ctx context.Context, r core.Recap) (core.Stored, error) {
	m.seq++
	id := strings.Repeat("r", m.seq) + ".srec"
	m.recaps[id] = r
	m.loaded[id] = core.Loaded{
		ID: id,
		Metadata: core.Metadata{
			"title": r.Frontmatter.Title,
		},
		PIEVector:   r.Frontmatter.PIEVector,
		KeyMotifs:   r.Frontmatter.KeyMotifs,
		PoeticSeal:  r.Seal(),
		Convergence: r.Frontmatter.Convergence,
		FullBody:    r.Body(),
	}
	return core.Stored{ID: id, Path: id}, nil
}

func (m *MockRepository) Get(ctx context.Context, id string) (core.Loaded, error) {
	l, ok := m.loaded[id]
	if !ok {
		return core.Loaded{}, core.ErrNotFound
	}
	return l, nil
}

func (m *MockRepository) List(ctx context.Context) ([]core.Entry, error) {
	var entries []core.Entry
	for id, r := range m.recaps {
		entries = append(entries, core.Entry{ID: id, Title: r.Frontmatter.Title})
	}
	// Sort for deterministic tests
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.recaps[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.recaps, id)
	delete(m.loaded, id)
	return nil
}

func (m *MockRepository) Initialize(ctx context.Context) error { return nil }

func fixedClock() time.Time {
	return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
}

func TestService_GenerateLoadDelete(t *testing.T) {
	repo := NewMockRepository()
	service := core.NewService(repo, core.WithClock(fixedClock))
	ctx := context.TODO()

	recap, stored, err := service.Generate(ctx, core.Request{
		Title:     "Spiral Session",
		InputText: "Memory returns. Memory coils around the spiral. The spiral holds.",
	})
	require.NoError(t, err)
	assert.Equal(t, "r.srec", stored.ID)
	assert.Equal(t, stored.ID, recap.ID)
	assert.NotEmpty(t, recap.RunID)
	assert.Equal(t, "2026-10-19 09:30 UTC", recap.Frontmatter.Date)
	assert.Equal(t, []string{"Memory", "Spiral", "Returns", "Coils", "Around"}, recap.Frontmatter.KeyMotifs)

	loaded, err := service.Load(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spiral Session", loaded.Title(""))
	assert.True(t, strings.HasPrefix(loaded.PoeticSeal, "- Poetic Seal: Coils carry Memory"))

	entries, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, service.Delete(ctx, stored.ID))
	_, err = service.Load(ctx, stored.ID)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestService_EmptyID(t *testing.T) {
	service := core.NewService(NewMockRepository())

	_, err := service.Load(context.TODO(), "")
	assert.ErrorIs(t, err, core.ErrEmptyID)
	assert.ErrorIs(t, service.Delete(context.TODO(), ""), core.ErrEmptyID)
}

func TestService_Resume(t *testing.T) {
	repo := NewMockRepository()
	service := core.NewService(repo, core.WithClock(fixedClock))
	ctx := context.TODO()

	first, stored, err := service.Generate(ctx, core.Request{
		Title:     "Origin",
		InputText: "Residue persists across the night. Residue remains.",
	})
	require.NoError(t, err)

	t.Run("Reuses PIE And Motifs", func(t *testing.T) {
		prev, next, _, err := service.Resume(ctx, stored.ID, core.Request{InputText: "A new thread begins."})
		require.NoError(t, err)

		assert.Equal(t, "Origin", prev.Title(""))
		assert.Equal(t, "Continued: Origin", next.Frontmatter.Title)
		assert.Equal(t, first.Frontmatter.PIEVector, next.Frontmatter.PIEVector)
		assert.Equal(t, first.Frontmatter.KeyMotifs, next.Frontmatter.KeyMotifs)
	})

	t.Run("Motif Override", func(t *testing.T) {
		_, next, _, err := service.Resume(ctx, stored.ID, core.Request{Title: "Mine", Motifs: []string{"Echo"}})
		require.NoError(t, err)
		assert.Equal(t, "Mine", next.Frontmatter.Title)
		assert.Equal(t, []string{"Echo"}, next.Frontmatter.KeyMotifs)
	})

	t.Run("Missing File", func(t *testing.T) {
		_, _, _, err := service.Resume(ctx, "nope.srec", core.Request{})
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

func TestService_Watch_Unsupported(t *testing.T) {
	service := core.NewService(NewMockRepository())

	_, err := service.Watch(context.TODO(), "**/*.srec")
	require.Error(t, err)
	assert.Equal(t, "repository does not support watching", err.Error())
}

func TestService_State(t *testing.T) {
	service := core.NewService(NewMockRepository(), core.WithEventBuffer(7))
	state, ok := service.State().(core.ServiceState)
	require.True(t, ok)
	assert.Equal(t, 7, state.EventBufferSize)
	assert.Equal(t, "repository", state.RepositoryType)
	assert.Nil(t, state.Repository)
	assert.Equal(t, "service", service.ComponentType())
}

// watchableRepository replays a fixed set of events.
type watchableRepository struct {
	*MockRepository
	pattern string
	events  []core.Event
}

func (w *watchableRepository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	w.pattern = pattern
	ch := make(chan core.Event, len(w.events))
	for _, e := range w.events {
		ch <- e
	}
	close(ch)
	return ch, nil
}

func TestService_Watch(t *testing.T) {
	repo := &watchableRepository{
		MockRepository: NewMockRepository(),
		events: []core.Event{
			{Type: core.EventCreate, ID: "grok/a.srec"},
			{Type: core.EventDelete, ID: "grok/a.srec"},
		},
	}
	service := core.NewService(repo, core.WithWatchPattern("grok/*.srec"), core.WithEventBuffer(1))

	events, err := service.Watch(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "grok/*.srec", repo.pattern)

	var got []core.EventType
	for e := range events {
		got = append(got, e.Type)
	}
	assert.Equal(t, []core.EventType{core.EventCreate, core.EventDelete}, got)
}

func TestService_InvalidConvergence(t *testing.T) {
	service := core.NewService(NewMockRepository())
	bad := 1.5
	_, _, err := service.Generate(context.TODO(), core.Request{Convergence: &bad})
	assert.ErrorIs(t, err, core.ErrInvalidConvergence)
}

func TestService_Placeholder(t *testing.T) {
	service := core.NewService(NewMockRepository())
	recap, _, err := service.Generate(context.TODO(), core.Request{})
	require.NoError(t, err)
	assert.Equal(t, []string{spiral.NoMotifsDetected}, recap.Frontmatter.KeyMotifs)
	assert.Equal(t, 0.70, recap.Convergence)
}
