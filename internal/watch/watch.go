// Package watch re-runs evaluation when hunt inputs change on disk, with
// optional time-based triggers. File events are debounced so editor save
// bursts produce one run.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/haasonsaas/huntbench/internal/observability"
	"github.com/haasonsaas/huntbench/internal/schedule"
)

// Trigger reasons, recorded on runs and metrics.
const (
	TriggerFile     = "file"
	TriggerSchedule = "schedule"
)

// RunFunc executes one evaluation pass. Runs never overlap.
type RunFunc func(ctx context.Context, reason string)

// Config configures a Watcher.
type Config struct {
	// Paths are the hunt inputs to watch: files or directories. A file is
	// watched through its parent directory so rename-style saves keep
	// triggering.
	Paths []string

	// Debounce coalesces file-event bursts into one run. Zero means 2s.
	Debounce time.Duration

	// Schedule adds time-based runs. Nil means file events only.
	Schedule *schedule.Schedule

	// Logger receives trigger diagnostics. Nil means slog.Default().
	Logger *slog.Logger

	// Metrics counts triggers when set.
	Metrics *observability.Metrics
}

// Watcher triggers evaluation runs from file changes and schedule ticks.
type Watcher struct {
	run      RunFunc
	debounce time.Duration
	sched    *schedule.Schedule
	logger   *slog.Logger
	metrics  *observability.Metrics

	watchDirs map[string]bool // directories registered with fsnotify
	allowDirs map[string]bool // directories where any change counts
	files     map[string]bool // exact files that count

	timerMu sync.Mutex
	timer   *time.Timer

	runMu sync.Mutex
}

// New builds a Watcher around run. At least one path or a schedule is
// required.
func New(cfg Config, run RunFunc) (*Watcher, error) {
	if run == nil {
		return nil, fmt.Errorf("run function is required")
	}
	if len(cfg.Paths) == 0 && cfg.Schedule == nil {
		return nil, fmt.Errorf("nothing to watch: no paths and no schedule")
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w := &Watcher{
		run:       run,
		debounce:  debounce,
		sched:     cfg.Schedule,
		logger:    logger.With("component", "watch"),
		metrics:   cfg.Metrics,
		watchDirs: map[string]bool{},
		allowDirs: map[string]bool{},
		files:     map[string]bool{},
	}

	for _, path := range cfg.Paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", path, err)
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			w.watchDirs[abs] = true
			w.allowDirs[abs] = true
			continue
		}
		// Missing files are fine: watching the parent picks them up when
		// they appear.
		w.watchDirs[filepath.Dir(abs)] = true
		w.files[abs] = true
	}

	return w, nil
}

// Run blocks until ctx is cancelled, invoking the run function on triggers.
// It returns ctx.Err() on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	var fileEvents <-chan fsnotify.Event
	var fileErrors <-chan error

	if len(w.watchDirs) > 0 {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer watcher.Close()

		for dir := range w.watchDirs {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
		}
		fileEvents = watcher.Events
		fileErrors = watcher.Errors
	}

	var schedC <-chan time.Time
	var schedTimer *time.Timer
	if w.sched != nil {
		if next, ok := w.sched.Next(time.Now()); ok {
			schedTimer = time.NewTimer(time.Until(next))
			defer schedTimer.Stop()
			schedC = schedTimer.C
			w.logger.Info("schedule armed", "expression", w.sched.String(), "next", next)
		}
	}

	for {
		select {
		case <-ctx.Done():
			w.stopPending()
			return ctx.Err()

		case event, ok := <-fileEvents:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.matches(event.Name) {
				continue
			}
			w.logger.Debug("input changed", "path", event.Name, "op", event.Op.String())
			w.scheduleRun(ctx)

		case err, ok := <-fileErrors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-schedC:
			w.trigger(ctx, TriggerSchedule)
			if next, ok := w.sched.Next(time.Now()); ok {
				schedTimer.Reset(time.Until(next))
			} else {
				schedC = nil
			}
		}
	}
}

// matches reports whether a change at name should trigger a run.
func (w *Watcher) matches(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	if w.files[abs] {
		return true
	}
	return w.allowDirs[filepath.Dir(abs)]
}

// scheduleRun re-arms the debounce timer.
func (w *Watcher) scheduleRun(ctx context.Context) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.trigger(ctx, TriggerFile)
	})
}

func (w *Watcher) stopPending() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// trigger serializes runs so file and schedule triggers never overlap.
func (w *Watcher) trigger(ctx context.Context, reason string) {
	w.runMu.Lock()
	defer w.runMu.Unlock()
	if ctx.Err() != nil {
		return
	}
	w.metrics.RecordWatchTrigger(reason)
	w.logger.Info("starting evaluation run", "reason", reason)
	w.run(ctx, reason)
}
