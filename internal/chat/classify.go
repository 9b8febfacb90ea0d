// Package chat implements the rule-based assistant: an ordered keyword classifier and
// the composer that turns a classified message plus a workspace snapshot into a reply.
package chat

import (
	"strings"

	"github.com/rcliao/workspace-assistant/internal/model"
)

// Intent is the category of a chat message.
type Intent string

const (
	IntentHelp        Intent = "help"
	IntentMemo        Intent = "memo"
	IntentTasks       Intent = "tasks"
	IntentCalendar    Intent = "calendar"
	IntentWeekendPlan Intent = "weekend-plan"
	IntentMemosList   Intent = "memos-list"
	IntentStatus      Intent = "status"
	IntentFallback    Intent = "fallback"
)

// Window narrows a calendar question to a range of days.
type Window string

const (
	WindowUpcoming Window = "upcoming"
	WindowWeekend  Window = "weekend"
	WindowTomorrow Window = "tomorrow"
	WindowToday    Window = "today"
)

// Classification is the result of Classify. Window is set only for IntentCalendar.
type Classification struct {
	Intent Intent `json:"intent"`
	Window Window `json:"window,omitempty"`
}

// rule pairs a predicate over the lowercased text with the handler that answers it.
type rule struct {
	intent  Intent
	match   func(text string, ws *model.Workspace) bool
	respond handler
}

// rules are evaluated top to bottom and the first match wins. The categories
// overlap ("plan", "weekend", "memo"/"memos"), so the order is part of the behavior.
var rules = []rule{
	{IntentHelp, containsAny("help", "what can"), respondHelp},
	{IntentMemo, containsAny("memo"), respondMemo},
	{IntentTasks, containsAny("task", "todo", "to-do", "organize", "priority"), respondTasks},
	{IntentCalendar, containsAny("calendar", "schedule", "event", "meeting", "plan"), respondCalendar},
	// Shadowed by the calendar rule, which already claims "plan".
	{IntentWeekendPlan, containsAll("weekend", "plan"), respondWeekendPlan},
	{IntentMemosList, func(text string, ws *model.Workspace) bool {
		return strings.Contains(text, "memos") || (strings.Contains(text, "notes") && len(ws.Memos) > 0)
	}, respondMemosList},
	{IntentStatus, containsAny("status", "summary", "overview"), respondStatus},
}

var fallbackRule = rule{intent: IntentFallback, respond: respondFallback}

// Classify picks the intent of text. ws is consulted only by rules that depend on
// whether data exists.
func Classify(text string, ws *model.Workspace) Classification {
	text = strings.ToLower(text)
	r := match(text, ws)

	c := Classification{Intent: r.intent}
	if r.intent == IntentCalendar {
		c.Window = calendarWindow(text)
	}
	return c
}

func match(lowered string, ws *model.Workspace) rule {
	for _, r := range rules {
		if r.match(lowered, ws) {
			return r
		}
	}
	return fallbackRule
}

func calendarWindow(text string) Window {
	switch {
	case strings.Contains(text, "weekend"):
		return WindowWeekend
	case strings.Contains(text, "tomorrow"):
		return WindowTomorrow
	case strings.Contains(text, "today"):
		return WindowToday
	}
	return WindowUpcoming
}

func containsAny(keywords ...string) func(string, *model.Workspace) bool {
	return func(text string, _ *model.Workspace) bool {
		for _, k := range keywords {
			if strings.Contains(text, k) {
				return true
			}
		}
		return false
	}
}

func containsAll(keywords ...string) func(string, *model.Workspace) bool {
	return func(text string, _ *model.Workspace) bool {
		for _, k := range keywords {
			if !strings.Contains(text, k) {
				return false
			}
		}
		return true
	}
}
