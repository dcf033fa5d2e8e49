package task

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
)

const sourceSettleDelay = 2 * time.Second

// debouncer runs f once after calls to trigger stop for delay.
type debouncer struct {
	clock clockwork.Clock
	delay time.Duration
	f     func()
	mu    sync.Mutex
	timer clockwork.Timer
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.delay, d.f)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

// SourceWatcher rebuilds when a source file is written. It watches the
// parent directories since editors often replace files instead of writing
// them in place.
type SourceWatcher struct {
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	files    map[string]bool
	debounce *debouncer
}

func NewSourceWatcher(logger *slog.Logger, paths []string, clock clockwork.Clock, onChange func()) (*SourceWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create source watcher: %w", err)
	}

	sw := &SourceWatcher{
		logger:   logger,
		watcher:  watcher,
		files:    make(map[string]bool, len(paths)),
		debounce: &debouncer{clock: clock, delay: sourceSettleDelay, f: onChange},
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		sw.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	return sw, nil
}

func (sw *SourceWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return sw.files[abs]
}

func (sw *SourceWatcher) Run(ctx context.Context) {
	defer sw.watcher.Close()
	defer sw.debounce.stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if sw.relevant(event) {
				sw.logger.Debug("source changed", slog.String("file", event.Name))
				sw.debounce.trigger()
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.logger.Warn("error watching sources", slog.Any("error", err))
		}
	}
}
