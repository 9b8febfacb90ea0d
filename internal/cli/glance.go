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
		Use:   "glance",
		Short: "Show today at a glance",
		Long:  "Print the dashboard panel and workspace counts for the --seed workspace.",
		Run:   runGlance,
	}

	RootCmd.AddCommand(cmd)
}

type glanceResult struct {
	Glance   summary.Glance `json:"glance"`
	Stats    *store.Stats   `json:"stats"`
	Progress string         `json:"progress"`
}

func runGlance(cmd *cobra.Command, args []string) {
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
		exitErr("snapshot", err)
	}
	stats, err := s.Stats(cmd.Context())
	if err != nil {
		exitErr("stats", err)
	}

	res := glanceResult{Glance: summary.NewGlance(ws), Stats: stats, Progress: stats.Progress()}
	if formatFlag == "json" {
		b, _ := json.MarshalIndent(res, "", "  ")
		fmt.Println(string(b))
		return
	}
	writeGlance(cmd.OutOrStdout(), res, ws, time.Now())
}

func writeGlance(w io.Writer, res glanceResult, ws *model.Workspace, now time.Time) {
	fmt.Fprintln(w, "Today at a glance")
	for _, line := range res.Glance.Lines() {
		fmt.Fprintf(w, "- %s\n", line)
	}
	if m, ok := ws.LatestMemo(); ok {
		fmt.Fprintf(w, "- Last memo saved %s\n", humanize.RelTime(m.CreatedAt, now, "ago", "from now"))
	}
	fmt.Fprintf(w, "\n%d memos, %d events, %s\n", res.Stats.Memos, res.Stats.Events, res.Progress)
}
