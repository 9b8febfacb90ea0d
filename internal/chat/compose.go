package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/rcliao/workspace-assistant/internal/model"
	"github.com/rcliao/workspace-assistant/internal/summary"
)

// handler renders the reply for one intent.
type handler func(c Classification, ws *model.Workspace, now time.Time) string

const (
	HelpText = "Ask me about your memos, calendar, or tasks — for example: " +
		"'show my calendar for tomorrow', 'summarize my tasks', or 'latest memo'."
	FallbackText = "I'm here to keep you organized. Try asking about your calendar, tasks, memos, " +
		"or say 'help' for ideas."

	NoMemosText       = "You don't have any memos yet. Capture a new one in the Memos tab."
	WeekendOpenText   = "Your weekend is wide open. Add plans in the Calendar tab when you're ready."
	NoTomorrowText    = "No events tomorrow."
	NothingTodayText  = "Nothing on the calendar for today."
	WeekendNoPlanText = "Your weekend is open. Add events in Calendar or notes in Memos to build a plan."
)

// Reply classifies text and composes the answer against ws as of now.
// It has no side effects: the same input always yields the same reply.
func Reply(text string, ws *model.Workspace, now time.Time) string {
	return Compose(Classify(text, ws), ws, now)
}

// Compose renders the reply for an already classified message.
func Compose(c Classification, ws *model.Workspace, now time.Time) string {
	for _, r := range rules {
		if r.intent == c.Intent {
			return r.respond(c, ws, now)
		}
	}
	return fallbackRule.respond(c, ws, now)
}

func respondHelp(Classification, *model.Workspace, time.Time) string {
	return HelpText
}

func respondFallback(Classification, *model.Workspace, time.Time) string {
	return FallbackText
}

func respondMemo(_ Classification, ws *model.Workspace, _ time.Time) string {
	latest, ok := ws.LatestMemo()
	if !ok {
		return NoMemosText
	}
	body := latest.Body
	if body == "" {
		body = "(no extra details)"
	}
	return fmt.Sprintf("Your latest memo '%s' says: %s", latest.Title, body)
}

func respondTasks(_ Classification, ws *model.Workspace, _ time.Time) string {
	return "Here are the tasks on your radar:\n" + summary.Tasks(ws.Tasks, true)
}

func respondCalendar(c Classification, ws *model.Workspace, now time.Time) string {
	today := model.StartOfDay(now)

	switch c.Window {
	case WindowWeekend:
		sat, sun := weekend(today)
		events := eventsBetween(ws.Events, sat, sun)
		if len(events) == 0 {
			return WeekendOpenText
		}
		return "Here's what's on your weekend agenda:\n" + summary.Events(events, summary.DefaultMaxItems)

	case WindowTomorrow:
		tomorrow := today.AddDate(0, 0, 1)
		events := eventsBetween(ws.Events, tomorrow, tomorrow)
		if len(events) == 0 {
			return NoTomorrowText
		}
		return "Tomorrow you have:\n" + summary.Events(events, summary.DefaultMaxItems)

	case WindowToday:
		events := eventsBetween(ws.Events, today, today)
		if len(events) == 0 {
			return NothingTodayText
		}
		return "Today's schedule:\n" + summary.Events(events, summary.DefaultMaxItems)
	}

	return "Upcoming events:\n" + summary.Events(ws.Events, summary.DefaultMaxItems)
}

func respondWeekendPlan(_ Classification, ws *model.Workspace, _ time.Time) string {
	if len(ws.Events) == 0 {
		return WeekendNoPlanText
	}
	lines := []string{
		"Let's plan your weekend:",
		"Calendar:",
		summary.Events(ws.Events, summary.DefaultMaxItems),
		"Tasks to wrap up:",
		summary.Tasks(ws.Tasks, true),
	}
	if latest, ok := ws.LatestMemo(); ok {
		lines = append(lines, "Recent memo inspiration:", "- "+latest.Title)
	}
	return strings.Join(lines, "\n")
}

func respondMemosList(_ Classification, ws *model.Workspace, _ time.Time) string {
	recent := ws.Memos[max(0, len(ws.Memos)-3):]
	titles := make([]string, len(recent))
	for i, m := range recent {
		titles[i] = m.Title
	}
	return fmt.Sprintf("Your recent memos: %s.", strings.Join(titles, ", "))
}

func respondStatus(_ Classification, ws *model.Workspace, _ time.Time) string {
	lines := []string{
		"Here's your workspace summary:",
		"Calendar:",
		summary.Events(ws.Events, summary.DefaultMaxItems),
		"Tasks:",
		summary.Tasks(ws.Tasks, true),
	}
	if latest, ok := ws.LatestMemo(); ok {
		body := latest.Body
		if body == "" {
			body = "(no details)"
		}
		lines = append(lines, "Latest memo:", fmt.Sprintf("%s — %s", latest.Title, body))
	} else {
		lines = append(lines, "No memos yet.")
	}
	return strings.Join(lines, "\n")
}

// weekend returns the Saturday and Sunday to report on. Counting from Monday as 0,
// Saturday is (5 - weekday) mod 7 days ahead, so on a Sunday this is the next weekend.
func weekend(today time.Time) (time.Time, time.Time) {
	weekday := (int(today.Weekday()) + 6) % 7
	sat := today.AddDate(0, 0, (5-weekday+7)%7)
	return sat, sat.AddDate(0, 0, 1)
}

// eventsBetween keeps events whose date, in the location of from, lies in [from, to].
func eventsBetween(events []model.Event, from, to time.Time) []model.Event {
	var out []model.Event
	for _, e := range events {
		day := model.StartOfDay(e.At.In(from.Location()))
		if !day.Before(from) && !day.After(to) {
			out = append(out, e)
		}
	}
	return out
}
