package store

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/rcliao/workspace-assistant/internal/model"
)

// MemStore implements Store with maps keyed by id plus an ordered id list per collection.
// It is not safe for concurrent use; callers serialize access per session.
type MemStore struct {
	ids *idSource

	memos     map[string]model.Memo
	memoOrder []string

	tasks     map[string]*model.Task
	taskOrder []string

	events     map[string]model.Event
	eventOrder []string // ascending by At, stable
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		ids:    newIDSource(),
		memos:  make(map[string]model.Memo),
		tasks:  make(map[string]*model.Task),
		events: make(map[string]model.Event),
	}
}

func (s *MemStore) AddMemo(ctx context.Context, p AddMemoParams) (*model.Memo, error) {
	p, err := normalizeMemo(p)
	if err != nil {
		return nil, err
	}
	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	m := model.Memo{ID: s.ids.next(), Title: p.Title, Body: p.Body, CreatedAt: created}
	s.memos[m.ID] = m
	s.memoOrder = append(s.memoOrder, m.ID)
	return &m, nil
}

func (s *MemStore) ListMemos(ctx context.Context) ([]model.Memo, error) {
	memos := make([]model.Memo, 0, len(s.memoOrder))
	for _, id := range s.memoOrder {
		memos = append(memos, s.memos[id])
	}
	return memos, nil
}

func (s *MemStore) RemoveMemo(ctx context.Context, id string) error {
	if _, ok := s.memos[id]; !ok {
		return fmt.Errorf("memo %s: %w", id, ErrNotFound)
	}
	delete(s.memos, id)
	s.memoOrder = removeID(s.memoOrder, id)
	return nil
}

func (s *MemStore) AddTask(ctx context.Context, p AddTaskParams) (*model.Task, error) {
	title, priority, err := normalizeTask(p)
	if err != nil {
		return nil, err
	}
	t := &model.Task{ID: s.ids.next(), Title: title, Priority: priority}
	s.tasks[t.ID] = t
	s.taskOrder = append(s.taskOrder, t.ID)
	out := *t
	return &out, nil
}

func (s *MemStore) ListTasks(ctx context.Context) ([]model.Task, error) {
	tasks := make([]model.Task, 0, len(s.taskOrder))
	for _, id := range s.taskOrder {
		tasks = append(tasks, *s.tasks[id])
	}
	return tasks, nil
}

func (s *MemStore) ToggleTask(ctx context.Context, id string, completed bool) (*model.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	t.Completed = completed
	out := *t
	return &out, nil
}

func (s *MemStore) RemoveTask(ctx context.Context, id string) error {
	if _, ok := s.tasks[id]; !ok {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	delete(s.tasks, id)
	s.taskOrder = removeID(s.taskOrder, id)
	return nil
}

func (s *MemStore) AddEvent(ctx context.Context, p AddEventParams) (*model.Event, error) {
	p, err := normalizeEvent(p)
	if err != nil {
		return nil, err
	}
	e := model.Event{ID: s.ids.next(), Title: p.Title, At: p.At, Notes: p.Notes}
	s.events[e.ID] = e

	// Insert after every event at or before e.At so ties keep insertion order.
	i := sort.Search(len(s.eventOrder), func(i int) bool {
		return s.events[s.eventOrder[i]].At.After(e.At)
	})
	s.eventOrder = slices.Insert(s.eventOrder, i, e.ID)
	return &e, nil
}

func (s *MemStore) ListEvents(ctx context.Context) ([]model.Event, error) {
	events := make([]model.Event, 0, len(s.eventOrder))
	for _, id := range s.eventOrder {
		events = append(events, s.events[id])
	}
	return events, nil
}

func (s *MemStore) RemoveEvent(ctx context.Context, id string) error {
	if _, ok := s.events[id]; !ok {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	delete(s.events, id)
	s.eventOrder = removeID(s.eventOrder, id)
	return nil
}

func (s *MemStore) Close() error {
	return nil
}

func removeID(order []string, id string) []string {
	return slices.DeleteFunc(order, func(v string) bool { return v == id })
}
