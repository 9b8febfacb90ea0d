package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rcliao/workspace-assistant/internal/model"
)

// SQLiteStore implements Store on a private in-memory SQLite database.
// Nothing is written to disk; the data is gone once the store is closed.
type SQLiteStore struct {
	db  *sql.DB
	ids *idSource
	loc *time.Location
}

// NewSQLiteStore opens a fresh in-memory database. Times are returned in loc
// (time.Local when nil).
func NewSQLiteStore(loc *time.Location) (*SQLiteStore, error) {
	if loc == nil {
		loc = time.Local
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Every connection to :memory: is a separate database; pin the pool to one.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{
		db:  db,
		ids: newIDSource(),
		loc: loc,
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS memos (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT NOT NULL UNIQUE,
		title      TEXT NOT NULL,
		body       TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		seq       INTEGER PRIMARY KEY AUTOINCREMENT,
		id        TEXT NOT NULL UNIQUE,
		title     TEXT NOT NULL,
		priority  TEXT NOT NULL DEFAULT 'Medium',
		completed INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS events (
		seq   INTEGER PRIMARY KEY AUTOINCREMENT,
		id    TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		at    INTEGER NOT NULL,
		notes TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_events_at ON events(at, seq);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) AddMemo(ctx context.Context, p AddMemoParams) (*model.Memo, error) {
	p, err := normalizeMemo(p)
	if err != nil {
		return nil, err
	}
	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	m := &model.Memo{ID: s.ids.next(), Title: p.Title, Body: p.Body, CreatedAt: created.In(s.loc)}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO memos (id, title, body, created_at) VALUES (?, ?, ?, ?)`,
		m.ID, m.Title, m.Body, created.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("insert memo: %w", err)
	}
	return m, nil
}

func (s *SQLiteStore) ListMemos(ctx context.Context) ([]model.Memo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, body, created_at FROM memos ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	memos := []model.Memo{}
	for rows.Next() {
		var m model.Memo
		var created int64
		if err := rows.Scan(&m.ID, &m.Title, &m.Body, &created); err != nil {
			return nil, err
		}
		m.CreatedAt = time.Unix(0, created).In(s.loc)
		memos = append(memos, m)
	}
	return memos, rows.Err()
}

func (s *SQLiteStore) RemoveMemo(ctx context.Context, id string) error {
	return s.remove(ctx, "memos", "memo", id)
}

func (s *SQLiteStore) AddTask(ctx context.Context, p AddTaskParams) (*model.Task, error) {
	title, priority, err := normalizeTask(p)
	if err != nil {
		return nil, err
	}

	t := &model.Task{ID: s.ids.next(), Title: title, Priority: priority}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, title, priority, completed) VALUES (?, ?, ?, 0)`,
		t.ID, t.Title, string(t.Priority))
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

func (s *SQLiteStore) ListTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, priority, completed FROM tasks ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *SQLiteStore) ToggleTask(ctx context.Context, id string, completed bool) (*model.Task, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET completed = ? WHERE id = ?`, completed, id)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	t, err := scanTask(s.db.QueryRowContext(ctx,
		`SELECT id, title, priority, completed FROM tasks WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *SQLiteStore) RemoveTask(ctx context.Context, id string) error {
	return s.remove(ctx, "tasks", "task", id)
}

func (s *SQLiteStore) AddEvent(ctx context.Context, p AddEventParams) (*model.Event, error) {
	p, err := normalizeEvent(p)
	if err != nil {
		return nil, err
	}

	e := &model.Event{ID: s.ids.next(), Title: p.Title, At: p.At.In(s.loc), Notes: p.Notes}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO events (id, title, at, notes) VALUES (?, ?, ?, ?)`,
		e.ID, e.Title, p.At.UnixNano(), e.Notes)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return e, nil
}

func (s *SQLiteStore) ListEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, at, notes FROM events ORDER BY at, seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		var e model.Event
		var at int64
		if err := rows.Scan(&e.ID, &e.Title, &at, &e.Notes); err != nil {
			return nil, err
		}
		e.At = time.Unix(0, at).In(s.loc)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *SQLiteStore) RemoveEvent(ctx context.Context, id string) error {
	return s.remove(ctx, "events", "event", id)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// remove deletes one row by id. table is always one of the fixed names above.
func (s *SQLiteStore) remove(ctx context.Context, table, kind, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row scanner) (model.Task, error) {
	var t model.Task
	var priority string
	if err := row.Scan(&t.ID, &t.Title, &priority, &t.Completed); err != nil {
		return t, err
	}
	t.Priority = model.Priority(priority)
	return t, nil
}
