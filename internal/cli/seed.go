package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/workspace-assistant/internal/store"
)

// loadSeed reads a workspace fixture:
//
//	memos:
//	  - title: Weekly planning
//	    body: Draft goals
//	tasks:
//	  - title: Pay rent
//	    priority: high
//	events:
//	  - title: Standup
//	    date: tomorrow
//	    time: "09:30"
func loadSeed(path string) (*store.Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var seed store.Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return &seed, nil
}
