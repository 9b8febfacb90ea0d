package summary

import (
	"fmt"

	"github.com/rcliao/workspace-assistant/internal/model"
)

const glanceLayout = "Jan 02, 03:04 PM"

// Glance is the dashboard's "today at a glance" panel.
type Glance struct {
	NextEvent  string `json:"next_event"`
	Tasks      string `json:"tasks"`
	LatestMemo string `json:"latest_memo"`
}

// Lines returns the panel in display order.
func (g Glance) Lines() []string {
	return []string{g.NextEvent, g.Tasks, g.LatestMemo}
}

// NewGlance builds the panel from a workspace snapshot. The "next" event is the
// earliest one in the calendar, past or not.
func NewGlance(ws *model.Workspace) Glance {
	var g Glance

	if len(ws.Events) > 0 {
		e := ws.Events[0]
		g.NextEvent = fmt.Sprintf("Next event: %s on %s", e.Title, e.At.Format(glanceLayout))
	} else {
		g.NextEvent = "No events scheduled yet. Head to Calendar to add one."
	}

	if len(ws.Tasks) > 0 {
		g.Tasks = fmt.Sprintf("Tasks remaining: %d", len(ws.OpenTasks()))
	} else {
		g.Tasks = "Start organizing your tasks from the Organize tab."
	}

	if m, ok := ws.LatestMemo(); ok {
		g.LatestMemo = "Latest memo: " + m.Title
	} else {
		g.LatestMemo = "Capture quick thoughts in the Memos workspace."
	}

	return g
}
