package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/workspace-assistant/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the seeded workspace as YAML",
		Long:  "Load --seed and print it back as a fixture with relative dates (today, tomorrow) resolved.",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("config", err)
	}
	s, loc, err := openWorkspace(cmd, cfg)
	if err != nil {
		exitErr("open workspace", err)
	}
	defer s.Close()

	seed, err := store.ExportSeed(cmd.Context(), s, loc)
	if err != nil {
		exitErr("export", err)
	}

	b, err := yaml.Marshal(seed)
	if err != nil {
		exitErr("export", err)
	}
	fmt.Print(string(b))
}
