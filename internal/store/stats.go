package store

import (
	"context"
	"fmt"
)

// Stats holds workspace counts.
type Stats struct {
	Memos          int `json:"memos"`
	Tasks          int `json:"tasks"`
	CompletedTasks int `json:"completed_tasks"`
	Events         int `json:"events"`
}

// OpenTasks is the number of tasks not yet completed.
func (st *Stats) OpenTasks() int {
	return st.Tasks - st.CompletedTasks
}

// Progress renders the organizer caption, e.g. "2 of 5 tasks completed".
func (st *Stats) Progress() string {
	return fmt.Sprintf("%d of %d tasks completed", st.CompletedTasks, st.Tasks)
}

// Stats returns collection counts.
func (s *MemStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{
		Memos:  len(s.memos),
		Tasks:  len(s.tasks),
		Events: len(s.events),
	}
	for _, t := range s.tasks {
		if t.Completed {
			st.CompletedTasks++
		}
	}
	return st, nil
}

// Stats returns collection counts.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM memos),
			(SELECT COUNT(*) FROM tasks),
			(SELECT COUNT(*) FROM tasks WHERE completed = 1),
			(SELECT COUNT(*) FROM events)`).
		Scan(&st.Memos, &st.Tasks, &st.CompletedTasks, &st.Events)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return st, nil
}
