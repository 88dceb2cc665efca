package sched

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Adoption polling, overridden in tests. The parent writes the marker just
// after spawning us, so the loop normally resolves on the first pass.
var (
	adoptGrace    = 5 * time.Second
	adoptInterval = 50 * time.Millisecond
)

// Wait blocks until the schedule fires, then runs onFire. It exits without
// firing when the marker is removed (canceled) or rewritten with another PID
// (superseded by a newer schedule). Called from the waiter process the
// Scheduler spawned.
func (s *Scheduler) Wait(onFire func() error) error {
	marker, ok := s.adoptMarker()
	if !ok {
		// Canceled or superseded before we even started.
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create marker watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: removal events for a watched file
	// tear down the watch itself.
	if err := watcher.Add(filepath.Dir(s.markerPath)); err != nil {
		return fmt.Errorf("failed to watch state directory: %w", err)
	}

	timer := time.NewTimer(time.Until(marker.FireAt))
	defer timer.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.markerPath) {
				continue
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				m, err := readMarker(s.markerPath)
				if err != nil {
					// Mid-rewrite; the next event settles it.
					continue
				}
				if m.PID != os.Getpid() {
					return nil
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Warning: marker watch error: %v\n", err)

		case <-timer.C:
			// Re-read before firing in case a removal raced the timer.
			m, err := readMarker(s.markerPath)
			if err != nil || m.PID != os.Getpid() {
				return nil
			}
			return onFire()
		}
	}
}

// adoptMarker waits for the parent to write a marker naming this process.
func (s *Scheduler) adoptMarker() (*Marker, bool) {
	deadline := time.Now().Add(adoptGrace)
	for {
		marker, err := readMarker(s.markerPath)
		if err == nil && marker.PID == os.Getpid() {
			return marker, true
		}
		if time.Now().After(deadline) {
			return nil, false
		}
		time.Sleep(adoptInterval)
	}
}
