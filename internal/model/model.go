// Package model defines the workspace data types shared by the store, summaries and chat.
package model

import (
	"fmt"
	"strings"
	"time"
)

// UntitledMemo is the title given to memos saved without one.
const UntitledMemo = "Untitled memo"

// Memo is a quick note. Memos are immutable once created.
type Memo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Priority ranks a task.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// ValidPriorities are the allowed priority levels.
var ValidPriorities = map[Priority]bool{
	PriorityHigh:   true,
	PriorityMedium: true,
	PriorityLow:    true,
}

// ParsePriority accepts any casing of High, Medium or Low.
// An empty string yields Medium.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PriorityMedium, nil
	}
	p := Priority(strings.ToUpper(s[:1]) + strings.ToLower(s[1:]))
	if !ValidPriorities[p] {
		return "", fmt.Errorf("invalid priority %q (valid: High, Medium, Low)", s)
	}
	return p, nil
}

// Task is an organizer entry. Completion is toggled in place.
type Task struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Priority  Priority `json:"priority"`
	Completed bool     `json:"completed"`
}

// Event is a calendar entry.
type Event struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	At    time.Time `json:"at"`
	Notes string    `json:"notes,omitempty"`
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of a conversation history.
type ChatMessage struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Workspace is a read-only snapshot of one session's collections.
// Memos and tasks are in insertion order, events ascending by time.
type Workspace struct {
	Memos  []Memo  `json:"memos"`
	Tasks  []Task  `json:"tasks"`
	Events []Event `json:"events"`
}

// LatestMemo returns the most recently created memo.
func (w *Workspace) LatestMemo() (Memo, bool) {
	if len(w.Memos) == 0 {
		return Memo{}, false
	}
	return w.Memos[len(w.Memos)-1], true
}

// OpenTasks returns the tasks that are not completed.
func (w *Workspace) OpenTasks() []Task {
	var open []Task
	for _, t := range w.Tasks {
		if !t.Completed {
			open = append(open, t)
		}
	}
	return open
}
