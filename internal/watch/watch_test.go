package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haasonsaas/huntbench/internal/schedule"
)

func TestNewValidatesConfig(t *testing.T) {
	noop := func(context.Context, string) {}

	if _, err := New(Config{Paths: []string{"."}}, nil); err == nil {
		t.Errorf("expected error for nil run function")
	}
	if _, err := New(Config{}, noop); err == nil {
		t.Errorf("expected error for empty config")
	}
	if _, err := New(Config{Paths: []string{"."}}, noop); err != nil {
		t.Errorf("New() error = %v", err)
	}

	sched, err := schedule.Parse("every 1h")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, err := New(Config{Schedule: sched}, noop); err != nil {
		t.Errorf("New() with schedule only error = %v", err)
	}
}

func TestMatches(t *testing.T) {
	dir := t.TempDir()
	hypPath := filepath.Join(dir, "hypotheses.json")
	if err := os.WriteFile(hypPath, []byte("[]"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	dataDir := filepath.Join(dir, "data")
	if err := os.Mkdir(dataDir, 0o755); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	w, err := New(Config{Paths: []string{hypPath, dataDir}}, func(context.Context, string) {})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "watched file", path: hypPath, want: true},
		{name: "sibling of watched file", path: filepath.Join(dir, "other.json"), want: false},
		{name: "file in watched dir", path: filepath.Join(dataDir, "events.csv"), want: true},
		{name: "nested below watched dir", path: filepath.Join(dataDir, "sub", "events.csv"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.matches(tt.path); got != tt.want {
				t.Errorf("matches(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestFileChangeTriggersRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hypotheses.json")
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	runs := make(chan string, 4)
	w, err := New(Config{Paths: []string{path}, Debounce: 20 * time.Millisecond}, func(_ context.Context, reason string) {
		runs <- reason
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher a moment to register before writing.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`[{"id":"hyp-001"}]`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case reason := <-runs:
		if reason != TriggerFile {
			t.Errorf("reason = %q, want %q", reason, TriggerFile)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no run triggered by file change")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run() did not exit after cancel")
	}
}

func TestDebounceCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "outcomes.json")
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var runs atomic.Int64
	w, err := New(Config{Paths: []string{path}, Debounce: 150 * time.Millisecond}, func(context.Context, string) {
		runs.Add(1)
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(50 * time.Millisecond)
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(400 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Errorf("runs = %d, want 1 (burst should coalesce)", got)
	}
}

func TestScheduleTriggersRun(t *testing.T) {
	sched, err := schedule.Parse("every 50ms")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	runs := make(chan string, 4)
	w, err := New(Config{Schedule: sched}, func(_ context.Context, reason string) {
		runs <- reason
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	select {
	case reason := <-runs:
		if reason != TriggerSchedule {
			t.Errorf("reason = %q, want %q", reason, TriggerSchedule)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no scheduled run within deadline")
	}
}
