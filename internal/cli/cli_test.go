package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rcliao/workspace-assistant/internal/store"
	"github.com/rcliao/workspace-assistant/internal/summary"
)

const testSeed = `
memos:
  - title: Weekly planning
    body: Draft goals
    created: 2026-10-19T08:00:00Z
tasks:
  - title: Pay rent
    priority: high
  - title: Water plants
    done: true
events:
  - title: Standup
    date: 2026-10-20
    time: "09:30"
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSeed(t *testing.T) {
	seed, err := loadSeed(writeSeed(t, testSeed))
	if err != nil {
		t.Fatalf("loadSeed: %v", err)
	}
	if len(seed.Memos) != 1 || len(seed.Tasks) != 2 || len(seed.Events) != 1 {
		t.Fatalf("unexpected seed sizes: %+v", seed)
	}
	if !seed.Tasks[1].Done {
		t.Error("expected second task done")
	}
	if seed.Events[0].Time != "09:30" {
		t.Errorf("expected 09:30, got %q", seed.Events[0].Time)
	}
}

func TestLoadSeedErrors(t *testing.T) {
	if _, err := loadSeed(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := loadSeed(writeSeed(t, "memos: [oops")); err == nil {
		t.Error("expected error for bad YAML")
	}
}

func seededWorkspace(t *testing.T) (store.Store, time.Time) {
	t.Helper()
	seed, err := loadSeed(writeSeed(t, testSeed))
	if err != nil {
		t.Fatal(err)
	}
	s := store.NewMemStore()
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	if _, err := store.Import(context.Background(), s, seed, now, time.UTC); err != nil {
		t.Fatalf("Import: %v", err)
	}
	return s, now
}

func TestWriteGlance(t *testing.T) {
	s, now := seededWorkspace(t)
	ctx := context.Background()
	ws, _ := store.Snapshot(ctx, s)
	stats, _ := s.Stats(ctx)

	var buf bytes.Buffer
	writeGlance(&buf, glanceResult{Glance: summary.NewGlance(ws), Stats: stats, Progress: stats.Progress()}, ws, now)
	out := buf.String()

	for _, want := range []string{
		"- Next event: Standup on Oct 20, 09:30 AM",
		"- Tasks remaining: 1",
		"- Latest memo: Weekly planning",
		"- Last memo saved 2 hours ago",
		"1 memos, 1 events, 1 of 2 tasks completed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestWriteList(t *testing.T) {
	s, now := seededWorkspace(t)
	ws, _ := store.Snapshot(context.Background(), s)

	var buf bytes.Buffer
	writeList(&buf, ws, "tasks", now)
	out := buf.String()
	if !strings.Contains(out, "Tasks (2)") || !strings.Contains(out, "[x] Water plants (Medium)") {
		t.Errorf("unexpected task list:\n%s", out)
	}
	if strings.Contains(out, "Memos") {
		t.Errorf("expected only tasks, got:\n%s", out)
	}

	buf.Reset()
	writeList(&buf, ws, "", now)
	if !strings.Contains(buf.String(), "Tue Oct 20 at 09:30 AM — Standup") {
		t.Errorf("expected event line, got:\n%s", buf.String())
	}
}
