package joystick

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T, open openFunc) *Watcher {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "event0"), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	w := NewWatcher(time.Second)
	w.glob = filepath.Join(dir, "event*")
	w.openDev = open
	return w
}

func TestWatcherRetriesErroredOpen(t *testing.T) {
	// First open fails (node just appeared, permissions not settled yet);
	// the path must stay eligible and attach on a later scan.
	attempts := 0
	w := newTestWatcher(t, func(path string, lost func(string)) (Device, bool, error) {
		attempts++
		if attempts == 1 {
			return nil, false, errors.New("permission denied")
		}
		return NewMockDevice("stick", path, 2, 1, 0), true, nil
	})

	w.scan()
	select {
	case ev := <-w.Events():
		t.Fatalf("errored open emitted %+v", ev)
	default:
	}

	w.scan()
	select {
	case ev := <-w.Events():
		if ev.Type != DeviceAdded {
			t.Fatalf("got event type %v, want DeviceAdded", ev.Type)
		}
	default:
		t.Fatal("no attach event after the open succeeded")
	}
	if attempts != 2 {
		t.Fatalf("open attempted %d times, want 2", attempts)
	}
}

func TestWatcherRejectsNonJoystickOnce(t *testing.T) {
	attempts := 0
	w := newTestWatcher(t, func(path string, lost func(string)) (Device, bool, error) {
		attempts++
		return nil, false, nil
	})

	w.scan()
	w.scan()
	if attempts != 1 {
		t.Fatalf("non-joystick node probed %d times, want 1", attempts)
	}
	select {
	case ev := <-w.Events():
		t.Fatalf("non-joystick node emitted %+v", ev)
	default:
	}
}
