package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/workspace-assistant/internal/chat"
	"github.com/rcliao/workspace-assistant/internal/session"
	"github.com/rcliao/workspace-assistant/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant in the terminal",
		Long:  "Interactive chat against the --seed workspace. Type exit or press Ctrl-D to quit.",
		Run:   runChat,
	}

	RootCmd.AddCommand(cmd)
}

func runChat(cmd *cobra.Command, args []string) {
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

	sessions := session.NewManager(logger, session.Options{
		OpenStore: func() (store.Store, error) { return s, nil },
	})
	defer sessions.Close()
	sess, err := sessions.Create()
	if err != nil {
		exitErr("start session", err)
	}

	r := chat.NewResponder(logger, chat.WithClock(func() time.Time { return time.Now().In(loc) }))
	in := bufio.NewScanner(os.Stdin)
	out := cmd.OutOrStdout()

	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			fmt.Fprintln(out)
			break
		}
		line := strings.TrimSpace(in.Text())
		if line == "exit" || line == "quit" {
			break
		}

		msg, c, err := sess.Ask(cmd.Context(), r, line)
		if errors.Is(err, session.ErrEmptyMessage) {
			continue
		}
		if err != nil {
			exitErr("chat", err)
		}

		if formatFlag == "json" {
			b, _ := json.Marshal(askResult{Intent: c.Intent, Window: c.Window, Reply: msg.Content})
			fmt.Fprintln(out, string(b))
			continue
		}
		fmt.Fprintln(out, msg.Content)
	}
	if err := in.Err(); err != nil {
		exitErr("read stdin", err)
	}
}
