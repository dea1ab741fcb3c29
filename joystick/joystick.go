// Package joystick tracks attached input devices and exposes their live
// axis/button/hat state to the PPM pipeline.
package joystick

// Device is one attached input device. Reads are instantaneous snapshots of
// driver-buffered state; they never block on hardware.
type Device interface {
	// Name is the human-readable device name.
	Name() string
	// Path identifies the underlying node (e.g. /dev/input/event3) and is
	// stable for the lifetime of the attachment.
	Path() string

	Axes() int
	Buttons() int
	Hats() int

	// Axis returns the normalized sample in [-1, 1] for axis i.
	Axis(i int) (float64, bool)
	// Button reports whether button i is currently pressed.
	Button(i int) (bool, bool)
	// Hat returns the discrete x/y position (-1, 0, +1) of hat i.
	Hat(i int) (x, y int, ok bool)

	Close() error
}

// EventType distinguishes hotplug notifications.
type EventType uint8

const (
	DeviceAdded EventType = iota
	DeviceRemoved
)

// Event is a hotplug notification from the watcher. Dev is set for
// DeviceAdded; removals carry only the path.
type Event struct {
	Type EventType
	Path string
	Dev  Device
}
