// Package cli implements the assistant CLI commands.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rcliao/workspace-assistant/internal/config"
	"github.com/rcliao/workspace-assistant/internal/logging"
	"github.com/rcliao/workspace-assistant/internal/store"
)

var (
	configPath string
	formatFlag string
	seedPath   string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Personal assistant for memos, tasks, events and chat",
	Long: "A personal assistant web app. Run `serve` for the HTTP API, or ask questions " +
		"against a YAML-seeded workspace from the terminal.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $ASSISTANT_CONFIG, then built-in defaults)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: json or text")
	RootCmd.PersistentFlags().StringVarP(&seedPath, "seed", "s", "", "YAML workspace fixture for ask, chat, glance and list")
}

func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return os.Getenv("ASSISTANT_CONFIG")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (zerolog.Logger, error) {
	return logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
}

// openWorkspace creates a store for the configured backend and fills it from --seed.
func openWorkspace(cmd *cobra.Command, cfg *config.Config) (store.Store, *time.Location, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	s, err := store.Open(cfg.Session.Backend, loc)
	if err != nil {
		return nil, nil, err
	}
	if seedPath == "" {
		return s, loc, nil
	}

	seed, err := loadSeed(seedPath)
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	if _, err := store.Import(cmd.Context(), s, seed, time.Now(), loc); err != nil {
		s.Close()
		return nil, nil, fmt.Errorf("seed %s: %w", seedPath, err)
	}
	return s, loc, nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
