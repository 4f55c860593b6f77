package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/srec/pkg/spiral"
	"github.com/google/uuid"
)

// DefaultEventBuffer is the broker buffer used when none is configured.
const DefaultEventBuffer = 100

// Service handles the business logic for recaps.
type Service struct {
	repo            Repository
	logger          *slog.Logger
	now             func() time.Time
	eventBufferSize int
	watchPattern    string

	mu sync.RWMutex
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock overrides the time source used to stamp recaps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithServiceLogger sets the logger used for warnings.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEventBuffer sets the size of the watch broker buffer.
func WithEventBuffer(size int) ServiceOption {
	return func(s *Service) {
		if size > 0 {
			s.eventBufferSize = size
		}
	}
}

// WithWatchPattern sets the pattern used when Watch is called without one.
func WithWatchPattern(pattern string) ServiceOption {
	return func(s *Service) {
		s.watchPattern = pattern
	}
}

// NewService creates a new Service.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:            repo,
		logger:          slog.Default(),
		now:             time.Now,
		eventBufferSize: DefaultEventBuffer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate builds a recap from req and stores it.
func (s *Service) Generate(ctx context.Context, req Request) (Recap, Stored, error) {
	if req.InputText == "" {
		s.logger.Warn("no input text provided, using placeholder content")
	}

	recap, err := Build(req, s.now())
	if err != nil {
		return Recap{}, Stored{}, err
	}
	recap.RunID = uuid.New().String()

	stored, err := s.repo.Save(ctx, recap)
	if err != nil {
		return Recap{}, Stored{}, fmt.Errorf("failed to save recap: %w", err)
	}
	recap.ID = stored.ID

	s.logger.Debug("recap generated", "id", stored.ID, "run", recap.RunID, "convergence", recap.Convergence)
	return recap, stored, nil
}

// Load reads a recap. Missing required frontmatter keys are logged.
func (s *Service) Load(ctx context.Context, id string) (Loaded, error) {
	if id == "" {
		return Loaded{}, ErrEmptyID
	}
	loaded, err := s.repo.Get(ctx, id)
	if err != nil {
		return Loaded{}, err
	}
	if len(loaded.Missing) > 0 {
		s.logger.Warn("missing metadata keys", "id", id, "keys", loaded.Missing)
	}
	return loaded, nil
}

// Resume continues from a stored recap. The previous PIE seed is reused,
// and so are its motifs unless req overrides them. An empty title becomes
// "Continued: <previous title>".
func (s *Service) Resume(ctx context.Context, id string, req Request) (Loaded, Recap, Stored, error) {
	prev, err := s.Load(ctx, id)
	if err != nil {
		return Loaded{}, Recap{}, Stored{}, fmt.Errorf("failed to load resume file: %w", err)
	}

	seed, err := spiral.DecodePIE(prev.PIEVector)
	if err != nil {
		return prev, Recap{}, Stored{}, err
	}
	req.PIESeed = seed

	if req.Motifs == nil {
		req.Motifs = append([]string{}, prev.KeyMotifs...)
	}
	if req.Title == "" {
		req.Title = "Continued: " + prev.Title("Untitled")
	}

	recap, stored, err := s.Generate(ctx, req)
	if err != nil {
		return prev, Recap{}, Stored{}, err
	}
	return prev, recap, stored, nil
}

// List returns every archived recap.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	return s.repo.List(ctx)
}

// Delete removes a recap.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}
	return s.repo.Delete(ctx, id)
}

// Watch observes changes in the repository if supported. Events are
// buffered so a slow consumer does not stall the producer.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	if pattern == "" {
		pattern = s.watchPattern
	}
	upstream, err := w.Watch(ctx, pattern)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	size := s.eventBufferSize
	s.mu.RUnlock()

	out := make(chan Event, size)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-upstream:
				if !ok {
					return
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
