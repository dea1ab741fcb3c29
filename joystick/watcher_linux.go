//go:build linux

package joystick

import (
	"context"
	"log"
	"path/filepath"
	"time"
)

const defaultGlob = "/dev/input/event*"

// Watcher polls the input directory for joystick nodes and emits hotplug
// events. Removal is detected two ways: the node vanishing from a rescan,
// and a device's read loop hitting EOF on unplug; whichever lands first
// wins, the other is deduplicated.
type Watcher struct {
	glob     string
	interval time.Duration
	events   chan Event
	lost     chan string
	openDev  openFunc

	open     map[string]bool // paths with a live device
	rejected map[string]bool // confirmed non-joystick nodes, until they vanish
	failed   map[string]bool // paths whose open errored; retried, logged once
}

type openFunc func(path string, lost func(path string)) (Device, bool, error)

func defaultOpen(path string, lost func(path string)) (Device, bool, error) {
	d, ok, err := openDevice(path, lost)
	if !ok || err != nil {
		return nil, ok, err
	}
	return d, true, nil
}

func NewWatcher(interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &Watcher{
		glob:     defaultGlob,
		interval: interval,
		events:   make(chan Event, 16),
		lost:     make(chan string, 16),
		openDev:  defaultOpen,
		open:     map[string]bool{},
		rejected: map[string]bool{},
		failed:   map[string]bool{},
	}
}

// Events delivers attach/detach notifications. The channel is buffered;
// the consumer drains it at the start of each output tick.
func (w *Watcher) Events() <-chan Event { return w.events }

// Run scans until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	tick := time.NewTicker(w.interval)
	defer tick.Stop()

	w.scan()
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-w.lost:
			w.drop(path)
		case <-tick.C:
			w.scan()
		}
	}
}

func (w *Watcher) scan() {
	paths, err := filepath.Glob(w.glob)
	if err != nil {
		return
	}
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		seen[p] = true
		if w.open[p] || w.rejected[p] {
			continue
		}
		dev, ok, err := w.openDev(p, w.reportLost)
		if err != nil {
			// An open error can be transient (permissions settling right
			// after the node appears), so the path stays eligible and is
			// retried on the next scan.
			if !w.failed[p] {
				log.Printf("[joystick] open %s: %v, will retry", p, err)
				w.failed[p] = true
			}
			continue
		}
		delete(w.failed, p)
		if !ok {
			w.rejected[p] = true
			continue
		}
		w.open[p] = true
		w.emit(Event{Type: DeviceAdded, Path: p, Dev: dev})
	}

	// Nodes that disappeared between scans.
	for p := range w.open {
		if !seen[p] {
			w.drop(p)
		}
	}
	for p := range w.rejected {
		if !seen[p] {
			delete(w.rejected, p)
		}
	}
	for p := range w.failed {
		if !seen[p] {
			delete(w.failed, p)
		}
	}
}

func (w *Watcher) drop(path string) {
	if !w.open[path] {
		return
	}
	delete(w.open, path)
	w.emit(Event{Type: DeviceRemoved, Path: path})
}

func (w *Watcher) reportLost(path string) {
	select {
	case w.lost <- path:
	default:
	}
}

func (w *Watcher) emit(ev Event) {
	select {
	case w.events <- ev:
	default:
		// consumer gone or stalled; dropping is safer than blocking the scan
	}
}
