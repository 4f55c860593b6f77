package core

import "context"

// Repository defines the contract for storing and retrieving recaps.
// The filesystem archive is the default; anything that can hold a recap
// and its companion artifacts can implement it.
type Repository interface {
	// Save persists a recap and its artifacts and reports where they went.
	Save(ctx context.Context, r Recap) (Stored, error)

	// Get loads a recap by ID (archive-relative path) or file path.
	Get(ctx context.Context, id string) (Loaded, error)

	// List returns every archived recap.
	List(ctx context.Context) ([]Entry, error)

	// Delete removes a recap and its companion.
	Delete(ctx context.Context, id string) error

	// Initialize ensures the underlying storage is ready.
	Initialize(ctx context.Context) error
}

// Watchable is implemented by repositories that can report changes.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// EventType represents the type of change in the archive.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in the archive.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return string(e.Type) + " " + e.ID
}

type contextKey string

// ChangeReasonKey is the context key for passing a commit message to
// versioned repositories.
const ChangeReasonKey contextKey = "change_reason"
