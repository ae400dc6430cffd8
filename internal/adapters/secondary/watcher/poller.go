// Package watcher polls deck sources so watch mode can rebuild on change
package watcher

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

const defaultInterval = 200 * time.Millisecond

// PollingWatcher implements ports.SourceWatcher by polling one file. Changes are
// debounced: an event is sent once the file has been quiet for the debounce
// period, so a burst of saves yields a single rebuild.
type PollingWatcher struct {
	fs       ports.FileSystem
	logger   ports.Logger
	interval time.Duration
	debounce time.Duration

	mu      sync.Mutex
	wg      sync.WaitGroup
	started bool
	stopped bool
	stopCh  chan struct{}
}

// fingerprint identifies one version of the watched file
type fingerprint struct {
	exists  bool
	size    int64
	modTime time.Time
	sum     [sha256.Size]byte
}

// NewPollingWatcher creates a new polling-based file watcher
func NewPollingWatcher(fsys ports.FileSystem, logger ports.Logger, interval, debounce time.Duration) *PollingWatcher {
	if fsys == nil {
		fsys = ports.NewRealFileSystem()
	}
	if logger == nil {
		logger = ports.NopLogger{}
	}
	if interval <= 0 {
		interval = defaultInterval
	}
	if debounce < 0 {
		debounce = 0
	}

	return &PollingWatcher{
		fs:       fsys,
		logger:   logger,
		interval: interval,
		debounce: debounce,
		stopCh:   make(chan struct{}),
	}
}

// Watch starts polling path. A watcher serves a single Watch call.
func (w *PollingWatcher) Watch(ctx context.Context, path string) (<-chan ports.SourceChangeEvent, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	// Initial scan
	current, err := w.snapshot(absPath, fingerprint{})
	if err != nil {
		return nil, fmt.Errorf("initial scan: %w", err)
	}
	if !current.exists {
		return nil, fmt.Errorf("initial scan: %s: %w", absPath, fs.ErrNotExist)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil, errors.New("watcher is stopped")
	}
	if w.started {
		return nil, errors.New("watcher is already watching")
	}
	w.started = true

	events := make(chan ports.SourceChangeEvent, 1)

	// Start polling in background
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer close(events)
		w.pollLoop(ctx, absPath, current, events)
	}()

	return events, nil
}

// Stop stops the file watcher and waits for the poll loop to exit
func (w *PollingWatcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.stopCh)
	w.mu.Unlock()

	w.wg.Wait()
	return nil
}

// pollLoop polls until ctx is done or the watcher is stopped
func (w *PollingWatcher) pollLoop(ctx context.Context, path string, current fingerprint, events chan<- ports.SourceChangeEvent) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var (
		pending    bool
		pendingFor ports.ChangeType
		lastChange time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
		}

		next, err := w.snapshot(path, current)
		if err != nil {
			w.logger.Warn("watch error", "path", path, "error", err)
			continue
		}

		if change, ok := changeBetween(current, next); ok {
			if pending {
				change = coalesce(pendingFor, change)
			}
			pending, pendingFor, lastChange = true, change, time.Now()
		}
		current = next

		if !pending || time.Since(lastChange) < w.debounce {
			continue
		}

		event := ports.SourceChangeEvent{
			Path:      path,
			Type:      pendingFor,
			Timestamp: time.Now(),
		}

		select {
		case events <- event:
			pending = false
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		}
	}
}

// snapshot fingerprints path. The checksum is only recomputed when size or
// modification time moved since previous.
func (w *PollingWatcher) snapshot(path string, previous fingerprint) (fingerprint, error) {
	info, err := w.fs.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fingerprint{}, nil
	}
	if err != nil {
		return fingerprint{}, fmt.Errorf("stat file: %w", err)
	}

	if previous.exists && previous.size == info.Size() && previous.modTime.Equal(info.ModTime()) {
		return previous, nil
	}

	data, err := w.fs.ReadFile(path)
	if err != nil {
		return fingerprint{}, fmt.Errorf("reading file: %w", err)
	}

	return fingerprint{
		exists:  true,
		size:    info.Size(),
		modTime: info.ModTime(),
		sum:     sha256.Sum256(data),
	}, nil
}

// changeBetween classifies the difference between two fingerprints
func changeBetween(before, after fingerprint) (ports.ChangeType, bool) {
	switch {
	case before.exists && !after.exists:
		return ports.Deleted, true
	case !before.exists && after.exists:
		return ports.Created, true
	case before.exists && before.sum != after.sum:
		return ports.Modified, true
	default:
		return 0, false
	}
}

// coalesce folds a change into one that is still waiting for the debounce
func coalesce(pending, next ports.ChangeType) ports.ChangeType {
	switch {
	case pending == ports.Deleted && next == ports.Created:
		// Replaced by an atomic save
		return ports.Modified
	case pending == ports.Created && next == ports.Modified:
		return ports.Created
	default:
		return next
	}
}

// Ensure PollingWatcher implements ports.SourceWatcher
var _ ports.SourceWatcher = (*PollingWatcher)(nil)
