// Package summary renders short natural-language digests of workspace collections.
// Every function here is pure.
package summary

import (
	"fmt"
	"strings"

	"github.com/rcliao/workspace-assistant/internal/model"
)

// DefaultMaxItems is the number of entries listed before an overflow line.
const DefaultMaxItems = 3

const (
	NoEvents     = "You don't have any events scheduled yet."
	NoTasks      = "You're task-free right now."
	AllTasksDone = "All of your tasks are checked off. Nice work!"

	eventLayout = "Mon Jan 02 at 03:04 PM"
)

// Events lists up to maxItems events, one per line, in the order given.
// maxItems <= 0 means DefaultMaxItems.
func Events(events []model.Event, maxItems int) string {
	if len(events) == 0 {
		return NoEvents
	}
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	var lines []string
	for _, e := range events[:min(maxItems, len(events))] {
		lines = append(lines, fmt.Sprintf("%s — %s", e.At.Format(eventLayout), e.Title))
	}
	if len(events) > maxItems {
		lines = append(lines, fmt.Sprintf("…and %d more events.", len(events)-maxItems))
	}
	return strings.Join(lines, "\n")
}

// Tasks lists up to three tasks as "title (status)", where status is "done" or the
// lowercased priority. With onlyOpen, completed tasks are left out.
func Tasks(tasks []model.Task, onlyOpen bool) string {
	if len(tasks) == 0 {
		return NoTasks
	}

	filtered := tasks
	if onlyOpen {
		filtered = nil
		for _, t := range tasks {
			if !t.Completed {
				filtered = append(filtered, t)
			}
		}
	}
	if len(filtered) == 0 {
		return AllTasksDone
	}

	var lines []string
	for _, t := range filtered[:min(DefaultMaxItems, len(filtered))] {
		lines = append(lines, fmt.Sprintf("%s (%s)", t.Title, taskStatus(t)))
	}
	if len(filtered) > DefaultMaxItems {
		lines = append(lines, fmt.Sprintf("…and %d more tasks.", len(filtered)-DefaultMaxItems))
	}
	return strings.Join(lines, "\n")
}

func taskStatus(t model.Task) string {
	if t.Completed {
		return "done"
	}
	return strings.ToLower(string(t.Priority))
}
