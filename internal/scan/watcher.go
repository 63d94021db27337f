package scan

import (
	"context"
	"sync"
	"time"
)

// Watcher re-lists a directory on a fixed interval and reports paths it has
// not seen before. Known paths survive between polls so a file is reported
// at most once per watcher lifetime.
type Watcher struct {
	directory string
	format    string
	interval  time.Duration

	mu    sync.Mutex
	known map[string]bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher creates a watcher for the given directory and file format.
func NewWatcher(ctx context.Context, directory, format string, interval time.Duration) *Watcher {
	watchCtx, cancel := context.WithCancel(ctx)
	return &Watcher{
		directory: directory,
		format:    format,
		interval:  interval,
		known:     make(map[string]bool),
		ctx:       watchCtx,
		cancel:    cancel,
	}
}

// MarkKnown records paths that were already handled elsewhere (the initial
// scan) so polling does not report them again.
func (w *Watcher) MarkKnown(paths []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range paths {
		w.known[p] = true
	}
}

// Poll lists the directory once and returns only unseen paths, marking them
// known. A listing identical to the last known set yields an empty result.
func (w *Watcher) Poll() ([]string, error) {
	paths, err := ListFiles(w.directory, w.format)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	var fresh []string
	for _, p := range paths {
		if !w.known[p] {
			w.known[p] = true
			fresh = append(fresh, p)
		}
	}
	return fresh, nil
}

// Run polls until the watcher is stopped, invoking onNew for every batch of
// newly discovered paths. Listing errors are skipped; the next tick retries.
func (w *Watcher) Run(onNew func([]string)) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			fresh, err := w.Poll()
			if err != nil {
				continue
			}
			if len(fresh) > 0 {
				onNew(fresh)
			}
		}
	}
}

// Stop ends polling.
func (w *Watcher) Stop() {
	w.cancel()
}
