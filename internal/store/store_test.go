package store

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/rcliao/workspace-assistant/internal/model"
)

// forEachBackend runs fn against a fresh store of every backend.
func forEachBackend(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Helper()
	for _, backend := range []string{BackendMemory, BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			s, err := Open(backend, time.UTC)
			if err != nil {
				t.Fatalf("open %s: %v", backend, err)
			}
			t.Cleanup(func() { s.Close() })
			fn(t, s)
		})
	}
}

func TestAddMemo(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		_, err := s.AddMemo(ctx, AddMemoParams{Title: "", Body: ""})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		memos, _ := s.ListMemos(ctx)
		if len(memos) != 0 {
			t.Errorf("expected no memos after rejected add, got %d", len(memos))
		}

		m, err := s.AddMemo(ctx, AddMemoParams{Title: "  ", Body: "note"})
		if err != nil {
			t.Fatalf("add memo: %v", err)
		}
		if m.Title != model.UntitledMemo {
			t.Errorf("expected %q, got %q", model.UntitledMemo, m.Title)
		}
		if m.ID == "" {
			t.Error("expected non-empty ID")
		}
		if m.CreatedAt.IsZero() {
			t.Error("expected server-assigned creation time")
		}

		s.AddMemo(ctx, AddMemoParams{Title: " Groceries ", Body: " milk "})
		memos, _ = s.ListMemos(ctx)
		if len(memos) != 2 {
			t.Fatalf("expected 2 memos, got %d", len(memos))
		}
		if memos[1].Title != "Groceries" || memos[1].Body != "milk" {
			t.Errorf("expected trimmed latest memo, got %+v", memos[1])
		}
	})
}

func TestAddTask(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		if _, err := s.AddTask(ctx, AddTaskParams{Title: "   "}); err == nil {
			t.Error("expected error for empty title")
		}
		if _, err := s.AddTask(ctx, AddTaskParams{Title: "x", Priority: "urgent"}); err == nil {
			t.Error("expected error for unknown priority")
		}

		task, err := s.AddTask(ctx, AddTaskParams{Title: "Prepare report"})
		if err != nil {
			t.Fatalf("add task: %v", err)
		}
		if task.Priority != model.PriorityMedium {
			t.Errorf("expected default priority Medium, got %s", task.Priority)
		}
		if task.Completed {
			t.Error("expected new task to be open")
		}

		toggled, err := s.ToggleTask(ctx, task.ID, true)
		if err != nil {
			t.Fatalf("toggle: %v", err)
		}
		if !toggled.Completed {
			t.Error("expected task completed after toggle")
		}

		tasks, _ := s.ListTasks(ctx)
		if len(tasks) != 1 || !tasks[0].Completed {
			t.Errorf("expected one completed task, got %+v", tasks)
		}

		if _, err := s.ToggleTask(ctx, "missing", true); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestEventsStaySorted(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
		rng := rand.New(rand.NewSource(42))

		for i := 0; i < 25; i++ {
			at := base.Add(time.Duration(rng.Intn(96)) * time.Hour)
			if _, err := s.AddEvent(ctx, AddEventParams{Title: "e", At: at}); err != nil {
				t.Fatalf("add event: %v", err)
			}
			events, _ := s.ListEvents(ctx)
			for j := 1; j < len(events); j++ {
				if events[j].At.Before(events[j-1].At) {
					t.Fatalf("events out of order after insert %d: %v before %v", i, events[j].At, events[j-1].At)
				}
			}
		}
	})
}

func TestEventTiesKeepInsertionOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

		s.AddEvent(ctx, AddEventParams{Title: "later", At: at.Add(time.Hour)})
		s.AddEvent(ctx, AddEventParams{Title: "first", At: at})
		s.AddEvent(ctx, AddEventParams{Title: "second", At: at})

		events, _ := s.ListEvents(ctx)
		var titles []string
		for _, e := range events {
			titles = append(titles, e.Title)
		}
		if diff := cmp.Diff([]string{"first", "second", "later"}, titles); diff != "" {
			t.Errorf("event order mismatch (-want +got):\n%s", diff)
		}

		if _, err := s.AddEvent(ctx, AddEventParams{Title: " ", At: at}); err == nil {
			t.Error("expected error for empty event title")
		}
	})
}

func TestInsertThenRemoveIsIdentity(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

		s.AddMemo(ctx, AddMemoParams{Title: "a"})
		s.AddMemo(ctx, AddMemoParams{Title: "b"})
		s.AddTask(ctx, AddTaskParams{Title: "t1", Priority: "High"})
		s.AddEvent(ctx, AddEventParams{Title: "e1", At: at})
		s.AddEvent(ctx, AddEventParams{Title: "e2", At: at.Add(48 * time.Hour)})

		before, err := Snapshot(ctx, s)
		if err != nil {
			t.Fatalf("snapshot: %v", err)
		}

		m, _ := s.AddMemo(ctx, AddMemoParams{Title: "c"})
		task, _ := s.AddTask(ctx, AddTaskParams{Title: "t2"})
		e, _ := s.AddEvent(ctx, AddEventParams{Title: "mid", At: at.Add(24 * time.Hour)})

		if err := s.RemoveMemo(ctx, m.ID); err != nil {
			t.Fatalf("remove memo: %v", err)
		}
		if err := s.RemoveTask(ctx, task.ID); err != nil {
			t.Fatalf("remove task: %v", err)
		}
		if err := s.RemoveEvent(ctx, e.ID); err != nil {
			t.Fatalf("remove event: %v", err)
		}

		after, _ := Snapshot(ctx, s)
		if diff := cmp.Diff(before, after, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("workspace changed by insert+remove (-before +after):\n%s", diff)
		}

		if err := s.RemoveEvent(ctx, e.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound on second remove, got %v", err)
		}
	})
}

func TestRemoveMidListKeepsOthers(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		a, _ := s.AddTask(ctx, AddTaskParams{Title: "a"})
		b, _ := s.AddTask(ctx, AddTaskParams{Title: "b"})
		c, _ := s.AddTask(ctx, AddTaskParams{Title: "c"})

		if err := s.RemoveTask(ctx, b.ID); err != nil {
			t.Fatalf("remove: %v", err)
		}
		// ids are stable across deletes
		if _, err := s.ToggleTask(ctx, c.ID, true); err != nil {
			t.Fatalf("toggle after delete: %v", err)
		}

		tasks, _ := s.ListTasks(ctx)
		if len(tasks) != 2 || tasks[0].ID != a.ID || tasks[1].ID != c.ID {
			t.Errorf("unexpected tasks after mid-list delete: %+v", tasks)
		}
		if !tasks[1].Completed {
			t.Error("expected c completed")
		}
	})
}

func TestStats(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		s.AddMemo(ctx, AddMemoParams{Title: "m"})
		t1, _ := s.AddTask(ctx, AddTaskParams{Title: "t1"})
		s.AddTask(ctx, AddTaskParams{Title: "t2"})
		s.ToggleTask(ctx, t1.ID, true)
		s.AddEvent(ctx, AddEventParams{Title: "e", At: time.Now()})

		st, err := s.Stats(ctx)
		if err != nil {
			t.Fatalf("stats: %v", err)
		}
		want := &Stats{Memos: 1, Tasks: 2, CompletedTasks: 1, Events: 1}
		if diff := cmp.Diff(want, st); diff != "" {
			t.Errorf("stats mismatch (-want +got):\n%s", diff)
		}
		if st.OpenTasks() != 1 {
			t.Errorf("expected 1 open task, got %d", st.OpenTasks())
		}
		if got := st.Progress(); got != "1 of 2 tasks completed" {
			t.Errorf("unexpected progress %q", got)
		}
	})
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("redis", nil); err == nil {
		t.Error("expected error for unknown backend")
	}
}
