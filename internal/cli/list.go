package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rcliao/workspace-assistant/internal/model"
	"github.com/rcliao/workspace-assistant/internal/store"
	"github.com/rcliao/workspace-assistant/internal/summary"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List memos, tasks and events",
		Run:   runList,
	}

	cmd.Flags().StringP("kind", "k", "", "Only one collection: memos, tasks or events")
	cmd.Flags().Bool("open", false, "Only open tasks")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	kind, _ := cmd.Flags().GetString("kind")
	onlyOpen, _ := cmd.Flags().GetBool("open")

	switch kind {
	case "", "memos", "tasks", "events":
	default:
		exitErr("list", fmt.Errorf("unknown kind %q (valid: memos, tasks, events)", kind))
	}

	cfg, err := loadConfig()
	if err != nil {
		exitErr("config", err)
	}
	s, _, err := openWorkspace(cmd, cfg)
	if err != nil {
		exitErr("open workspace", err)
	}
	defer s.Close()

	ws, err := store.Snapshot(cmd.Context(), s)
	if err != nil {
		exitErr("list", err)
	}
	if onlyOpen {
		ws.Tasks = ws.OpenTasks()
	}

	if formatFlag == "json" {
		var v any = ws
		switch kind {
		case "memos":
			v = ws.Memos
		case "tasks":
			v = ws.Tasks
		case "events":
			v = ws.Events
		}
		b, _ := json.MarshalIndent(v, "", "  ")
		fmt.Println(string(b))
		return
	}
	writeList(cmd.OutOrStdout(), ws, kind, time.Now())
}

func writeList(w io.Writer, ws *model.Workspace, kind string, now time.Time) {
	if kind == "" || kind == "memos" {
		fmt.Fprintf(w, "Memos (%d)\n", len(ws.Memos))
		for _, m := range ws.Memos {
			body := m.Body
			if body == "" {
				body = "No additional notes."
			}
			fmt.Fprintf(w, "  %s  %s: %s (%s)\n", m.ID, m.Title, body, humanize.RelTime(m.CreatedAt, now, "ago", "from now"))
		}
	}
	if kind == "" || kind == "tasks" {
		fmt.Fprintf(w, "Tasks (%d)\n", len(ws.Tasks))
		for _, t := range ws.Tasks {
			mark := " "
			if t.Completed {
				mark = "x"
			}
			fmt.Fprintf(w, "  %s  [%s] %s (%s)\n", t.ID, mark, t.Title, t.Priority)
		}
	}
	if kind == "" || kind == "events" {
		fmt.Fprintf(w, "Events (%d)\n", len(ws.Events))
		if len(ws.Events) > 0 {
			fmt.Fprintln(w, summary.Events(ws.Events, len(ws.Events)))
		}
	}
}
