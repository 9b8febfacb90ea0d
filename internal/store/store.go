// Package store provides the workspace storage interface and its in-memory backends.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rcliao/workspace-assistant/internal/model"
)

// ErrNotFound is returned when an id does not name an entry in the collection.
var ErrNotFound = errors.New("not found")

// ValidationError is returned when an add is rejected. The store is left unchanged
// and Message is safe to show to the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// AddMemoParams holds parameters for saving a memo.
type AddMemoParams struct {
	Title string
	Body  string

	// CreatedAt overrides the server timestamp. Only fixture import sets it.
	CreatedAt time.Time
}

// AddTaskParams holds parameters for adding a task.
type AddTaskParams struct {
	Title    string
	Priority string // empty means Medium
}

// AddEventParams holds parameters for adding a calendar event.
type AddEventParams struct {
	Title string
	At    time.Time
	Notes string
}

// Store holds one session's memos, tasks and events.
type Store interface {
	// AddMemo saves a memo. Returns the created memo.
	AddMemo(ctx context.Context, p AddMemoParams) (*model.Memo, error)

	// ListMemos returns memos in insertion order.
	ListMemos(ctx context.Context) ([]model.Memo, error)

	// RemoveMemo deletes a memo by id.
	RemoveMemo(ctx context.Context, id string) error

	// AddTask appends an open task.
	AddTask(ctx context.Context, p AddTaskParams) (*model.Task, error)

	// ListTasks returns tasks in insertion order.
	ListTasks(ctx context.Context) ([]model.Task, error)

	// ToggleTask sets the completion flag of a task in place.
	ToggleTask(ctx context.Context, id string, completed bool) (*model.Task, error)

	// RemoveTask deletes a task by id.
	RemoveTask(ctx context.Context, id string) error

	// AddEvent inserts an event, keeping the collection ascending by time.
	AddEvent(ctx context.Context, p AddEventParams) (*model.Event, error)

	// ListEvents returns events ascending by time; equal times keep insertion order.
	ListEvents(ctx context.Context) ([]model.Event, error)

	// RemoveEvent deletes an event by id.
	RemoveEvent(ctx context.Context, id string) error

	// Stats returns collection counts.
	Stats(ctx context.Context) (*Stats, error)

	// Close releases the store.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Open creates an empty store for the named backend.
func Open(backend string, loc *time.Location) (Store, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemStore(), nil
	case BackendSQLite:
		s, err := NewSQLiteStore(loc)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown store backend %q (valid: memory, sqlite)", backend)
}
