package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/workspace-assistant/internal/chat"
	"github.com/rcliao/workspace-assistant/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Ask the assistant one question",
		Long:  "Answer one chat message against the --seed workspace. The message can be a positional arg or piped via stdin.",
		Run:   runAsk,
	}

	RootCmd.AddCommand(cmd)
}

type askResult struct {
	Intent chat.Intent `json:"intent"`
	Window chat.Window `json:"window,omitempty"`
	Reply  string      `json:"reply"`
}

func runAsk(cmd *cobra.Command, args []string) {
	var message string
	if len(args) > 0 {
		message = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			message = string(b)
		}
	}
	if strings.TrimSpace(message) == "" {
		exitErr("ask", fmt.Errorf("message is required (positional arg or stdin)"))
	}

	cfg, err := loadConfig()
	if err != nil {
		exitErr("config", err)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		exitErr("logger", err)
	}
	s, loc, err := openWorkspace(cmd, cfg)
	if err != nil {
		exitErr("open workspace", err)
	}
	defer s.Close()

	ws, err := store.Snapshot(cmd.Context(), s)
	if err != nil {
		exitErr("snapshot", err)
	}

	r := chat.NewResponder(logger, chat.WithClock(func() time.Time { return time.Now().In(loc) }))
	reply, c := r.Respond(strings.TrimSpace(message), ws)

	if formatFlag == "json" {
		b, _ := json.Marshal(askResult{Intent: c.Intent, Window: c.Window, Reply: reply})
		fmt.Println(string(b))
		return
	}
	fmt.Println(reply)
}
