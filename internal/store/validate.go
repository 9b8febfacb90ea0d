package store

import (
	"strings"

	"github.com/rcliao/workspace-assistant/internal/model"
)

// normalizeMemo trims input and applies the untitled default.
func normalizeMemo(p AddMemoParams) (AddMemoParams, error) {
	p.Title = strings.TrimSpace(p.Title)
	p.Body = strings.TrimSpace(p.Body)
	if p.Title == "" && p.Body == "" {
		return p, &ValidationError{Field: "memo", Message: "Add a title or memo text before saving."}
	}
	if p.Title == "" {
		p.Title = model.UntitledMemo
	}
	return p, nil
}

func normalizeTask(p AddTaskParams) (string, model.Priority, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return "", "", &ValidationError{Field: "title", Message: "Enter a task description before adding."}
	}
	priority, err := model.ParsePriority(p.Priority)
	if err != nil {
		return "", "", &ValidationError{Field: "priority", Message: "Choose a priority of High, Medium or Low."}
	}
	return title, priority, nil
}

func normalizeEvent(p AddEventParams) (AddEventParams, error) {
	p.Title = strings.TrimSpace(p.Title)
	p.Notes = strings.TrimSpace(p.Notes)
	if p.Title == "" {
		return p, &ValidationError{Field: "title", Message: "Please provide a title for the event."}
	}
	return p, nil
}
