package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"arbiter-hq/gavel/pkg/policy"
	"arbiter-hq/gavel/pkg/telemetry/metrics"
)

// DriftConfig configures a DriftWatcher.
type DriftConfig struct {
	// DebounceInterval is the quiet period after a burst of file events
	// before the source is re-read. Default: 250ms.
	DebounceInterval time.Duration

	// OnDrift is called with the observed content version whenever the
	// on-disk rules diverge from the frozen version. The version is empty
	// when the source no longer loads cleanly. Optional; drift is always
	// logged regardless.
	OnDrift func(observedVersion string)

	// Metrics receives a drift event count per divergence observation.
	// A nil value disables counting.
	Metrics *metrics.Metrics
}

// DefaultDriftConfig returns the default watcher configuration.
func DefaultDriftConfig() *DriftConfig {
	return &DriftConfig{
		DebounceInterval: 250 * time.Millisecond,
	}
}

// DriftWatcher watches a file-backed rule source for changes after the
// registry has frozen. It is advisory: divergence is logged and reported,
// nothing is ever reloaded. The frozen set stays authoritative until the
// process restarts.
type DriftWatcher struct {
	source  *FileSource
	frozen  string
	watcher *fsnotify.Watcher
	config  *DriftConfig
	logger  *slog.Logger

	debounceMu    sync.Mutex
	debounceTimer *time.Timer

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewDriftWatcher creates a watcher over src comparing against
// frozenVersion, the content version the registry froze with.
func NewDriftWatcher(src *FileSource, frozenVersion string, cfg *DriftConfig) (*DriftWatcher, error) {
	if src == nil {
		return nil, fmt.Errorf("drift watcher requires a file source")
	}
	if frozenVersion == "" {
		return nil, fmt.Errorf("drift watcher requires the frozen content version")
	}
	if cfg == nil {
		cfg = DefaultDriftConfig()
	}
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = 250 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &DriftWatcher{
		source:  src,
		frozen:  frozenVersion,
		watcher: watcher,
		config:  cfg,
		logger:  slog.Default().With("component", "policy.source.drift"),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Watch blocks processing file events until the context is cancelled or
// Stop is called. Run it on its own goroutine.
func (w *DriftWatcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("drift watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	if err := w.addPaths(w.source.Path()); err != nil {
		return fmt.Errorf("watch rule source: %w", err)
	}

	w.logger.Info("drift watcher started",
		"path", w.source.Path(),
		"frozen_version", w.frozen,
		"debounce_ms", w.config.DebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("drift watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("drift watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !relevantEvent(event) {
				continue
			}
			w.logger.Debug("rule file event",
				"path", event.Name,
				"op", event.Op.String(),
			)
			w.scheduleCheck(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			// Keep watching; a transient notify error is not drift.
			w.logger.Error("drift watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and releases the underlying notify handle.
func (w *DriftWatcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	w.debounceMu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceMu.Unlock()

	return w.watcher.Close()
}

// scheduleCheck debounces bursts of file events into one source check.
func (w *DriftWatcher) scheduleCheck(ctx context.Context) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.config.DebounceInterval, func() {
		w.check(ctx)
	})
}

// check re-reads the source and compares content versions.
func (w *DriftWatcher) check(ctx context.Context) {
	policies, err := w.source.Load(ctx)
	if err != nil {
		w.logger.Warn("rule source no longer loads cleanly; frozen set stays authoritative",
			"path", w.source.Path(),
			"frozen_version", w.frozen,
			"error", err,
		)
		w.notify("")
		return
	}

	observed := policy.ContentVersion(policies)
	if observed == w.frozen {
		w.logger.Debug("rule source matches frozen set", "version", w.frozen)
		return
	}

	w.logger.Warn("rule source diverged from frozen set; changes take effect only on restart",
		"path", w.source.Path(),
		"frozen_version", w.frozen,
		"observed_version", observed,
	)
	w.notify(observed)
}

func (w *DriftWatcher) notify(observed string) {
	w.config.Metrics.RecordDriftEvent()
	if w.config.OnDrift != nil {
		w.config.OnDrift(observed)
	}
}

// addPaths registers the source file, or the source directory tree, with
// the notify handle.
func (w *DriftWatcher) addPaths(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.watcher.Add(path)
	}
	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && p != path {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if err := w.watcher.Add(p); err != nil {
				return fmt.Errorf("watch directory %q: %w", p, err)
			}
		}
		return nil
	})
}

// relevantEvent filters out events that cannot change rule content.
func relevantEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(event.Name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
