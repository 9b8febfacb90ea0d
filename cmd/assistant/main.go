package main

import (
	"os"

	"github.com/rcliao/workspace-assistant/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
