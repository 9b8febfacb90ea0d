package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rcliao/workspace-assistant/internal/model"
)

// Snapshot copies every collection of s into a read-only workspace view.
func Snapshot(ctx context.Context, s Store) (*model.Workspace, error) {
	memos, err := s.ListMemos(ctx)
	if err != nil {
		return nil, fmt.Errorf("list memos: %w", err)
	}
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	events, err := s.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return &model.Workspace{Memos: memos, Tasks: tasks, Events: events}, nil
}

// Seed is a workspace fixture, decoded from YAML by the CLI.
type Seed struct {
	Memos  []SeedMemo  `yaml:"memos"`
	Tasks  []SeedTask  `yaml:"tasks"`
	Events []SeedEvent `yaml:"events"`
}

type SeedMemo struct {
	Title   string    `yaml:"title"`
	Body    string    `yaml:"body"`
	Created time.Time `yaml:"created,omitempty"`
}

type SeedTask struct {
	Title    string `yaml:"title"`
	Priority string `yaml:"priority"`
	Done     bool   `yaml:"done"`
}

type SeedEvent struct {
	Title string `yaml:"title"`
	Date  string `yaml:"date"` // YYYY-MM-DD, "today" or "tomorrow"
	Time  string `yaml:"time"` // HH:MM
	Notes string `yaml:"notes,omitempty"`
}

// Import adds every entry of seed to s, resolving relative dates against now.
// Returns the number of entries added.
func Import(ctx context.Context, s Store, seed *Seed, now time.Time, loc *time.Location) (int, error) {
	if loc == nil {
		loc = time.Local
	}
	imported := 0
	for _, m := range seed.Memos {
		if _, err := s.AddMemo(ctx, AddMemoParams{Title: m.Title, Body: m.Body, CreatedAt: m.Created}); err != nil {
			return imported, fmt.Errorf("memo %q: %w", m.Title, err)
		}
		imported++
	}
	for _, t := range seed.Tasks {
		task, err := s.AddTask(ctx, AddTaskParams{Title: t.Title, Priority: t.Priority})
		if err != nil {
			return imported, fmt.Errorf("task %q: %w", t.Title, err)
		}
		if t.Done {
			if _, err := s.ToggleTask(ctx, task.ID, true); err != nil {
				return imported, err
			}
		}
		imported++
	}
	for _, e := range seed.Events {
		date := e.Date
		switch date {
		case "today":
			date = now.In(loc).Format("2006-01-02")
		case "tomorrow":
			date = now.In(loc).AddDate(0, 0, 1).Format("2006-01-02")
		}
		at, err := model.ParseEventTime(date, e.Time, now, loc)
		if err != nil {
			return imported, fmt.Errorf("event %q: %w", e.Title, err)
		}
		if _, err := s.AddEvent(ctx, AddEventParams{Title: e.Title, At: at, Notes: e.Notes}); err != nil {
			return imported, fmt.Errorf("event %q: %w", e.Title, err)
		}
		imported++
	}
	return imported, nil
}

// ExportSeed is the inverse of Import: it renders the contents of s as a fixture
// with absolute dates in loc.
func ExportSeed(ctx context.Context, s Store, loc *time.Location) (*Seed, error) {
	if loc == nil {
		loc = time.Local
	}
	ws, err := Snapshot(ctx, s)
	if err != nil {
		return nil, err
	}

	seed := &Seed{}
	for _, m := range ws.Memos {
		seed.Memos = append(seed.Memos, SeedMemo{Title: m.Title, Body: m.Body, Created: m.CreatedAt})
	}
	for _, t := range ws.Tasks {
		seed.Tasks = append(seed.Tasks, SeedTask{Title: t.Title, Priority: string(t.Priority), Done: t.Completed})
	}
	for _, e := range ws.Events {
		at := e.At.In(loc)
		seed.Events = append(seed.Events, SeedEvent{
			Title: e.Title,
			Date:  at.Format("2006-01-02"),
			Time:  at.Format("15:04"),
			Notes: e.Notes,
		})
	}
	return seed, nil
}
