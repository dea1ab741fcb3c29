//go:build linux

package joystick

import (
	"sort"
	"sync"
	"unsafe"

	evdev "github.com/gvalkov/golang-evdev"
	"golang.org/x/sys/unix"
)

// Hat sub-axes live in the ABS_HAT0X..ABS_HAT3Y code window and are kept out
// of the logical axis numbering; hats get their own index space.
const (
	absHatFirst = 0x10 // ABS_HAT0X
	absHatLast  = 0x17 // ABS_HAT3Y

	btnJoyFirst = 0x120 // BTN_JOYSTICK
	btnJoyLast  = 0x15f // last of the gamepad/wheel block
)

// absRange is the kernel-reported value window for one axis.
type absRange struct {
	min, max int32
}

// input_absinfo, as returned by EVIOCGABS.
type absInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

func eviocgabs(code uint16) uintptr {
	// _IOR('E', 0x40+code, struct input_absinfo)
	const sz = unsafe.Sizeof(absInfo{})
	return uintptr(2)<<30 | sz<<16 | uintptr('E')<<8 | uintptr(0x40+code)
}

// evdevDevice adapts a Linux event node to the Device interface. One reader
// goroutine folds the kernel event stream into the cached state; Device
// reads are lock-guarded loads of that cache and never touch the node.
type evdevDevice struct {
	dev  *evdev.InputDevice
	path string

	axisIdx map[uint16]int // ABS code -> logical axis
	btnIdx  map[uint16]int // KEY code -> logical button
	ranges  []absRange
	hats    int

	mu      sync.Mutex
	axes    []float64
	buttons []bool
	hatVals [][2]int

	closeOnce sync.Once
	done      chan struct{}
	lost      func(path string) // invoked once if the node disappears
}

// openDevice opens path and returns nil, false if the node is not a
// joystick-class device (no absolute axes or no joystick buttons).
func openDevice(path string, lost func(path string)) (*evdevDevice, bool, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, false, err
	}

	var absCodes, keyCodes []int
	for capType, codes := range dev.Capabilities {
		switch capType.Type {
		case evdev.EV_ABS:
			for _, c := range codes {
				absCodes = append(absCodes, c.Code)
			}
		case evdev.EV_KEY:
			for _, c := range codes {
				keyCodes = append(keyCodes, c.Code)
			}
		}
	}
	if !looksLikeJoystick(absCodes, keyCodes) {
		_ = dev.File.Close()
		return nil, false, nil
	}
	sort.Ints(absCodes)
	sort.Ints(keyCodes)

	d := &evdevDevice{
		dev:     dev,
		path:    path,
		axisIdx: map[uint16]int{},
		btnIdx:  map[uint16]int{},
		done:    make(chan struct{}),
		lost:    lost,
	}

	hatSeen := map[int]bool{}
	for _, c := range absCodes {
		if c >= absHatFirst && c <= absHatLast {
			hatSeen[(c-absHatFirst)/2] = true
			continue
		}
		d.axisIdx[uint16(c)] = len(d.axes)
		d.axes = append(d.axes, 0)
		d.ranges = append(d.ranges, absRange{})
	}
	d.hats = len(hatSeen)
	d.hatVals = make([][2]int, d.hats)
	for _, c := range keyCodes {
		d.btnIdx[uint16(c)] = len(d.buttons)
		d.buttons = append(d.buttons, false)
	}

	// Seed axis ranges and current positions from the kernel.
	for code, i := range d.axisIdx {
		var ai absInfo
		if errno := d.ioctlAbs(code, &ai); errno == nil {
			d.ranges[i] = absRange{min: ai.Minimum, max: ai.Maximum}
			d.axes[i] = normalize(ai.Value, d.ranges[i])
		}
	}

	go d.readLoop()
	return d, true, nil
}

func looksLikeJoystick(absCodes, keyCodes []int) bool {
	hasAxis := false
	for _, c := range absCodes {
		if c < absHatFirst || c > absHatLast {
			hasAxis = true
			break
		}
	}
	if !hasAxis {
		return false
	}
	for _, c := range keyCodes {
		if c >= btnJoyFirst && c <= btnJoyLast {
			return true
		}
	}
	return false
}

func (d *evdevDevice) ioctlAbs(code uint16, ai *absInfo) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.dev.File.Fd(),
		eviocgabs(code), uintptr(unsafe.Pointer(ai)))
	if errno != 0 {
		return errno
	}
	return nil
}

func normalize(v int32, r absRange) float64 {
	if r.max <= r.min {
		return 0
	}
	n := 2*float64(v-r.min)/float64(r.max-r.min) - 1
	if n < -1 {
		n = -1
	} else if n > 1 {
		n = 1
	}
	return n
}

func (d *evdevDevice) readLoop() {
	for {
		ev, err := d.dev.ReadOne()
		if err != nil {
			// Node gone (unplug) or closed locally.
			select {
			case <-d.done:
			default:
				if d.lost != nil {
					d.lost(d.path)
				}
			}
			return
		}
		d.apply(ev)
	}
}

func (d *evdevDevice) apply(ev *evdev.InputEvent) {
	switch ev.Type {
	case evdev.EV_ABS:
		if ev.Code >= absHatFirst && ev.Code <= absHatLast {
			h := int(ev.Code-absHatFirst) / 2
			sub := int(ev.Code-absHatFirst) % 2
			d.mu.Lock()
			if h < len(d.hatVals) {
				d.hatVals[h][sub] = int(ev.Value)
			}
			d.mu.Unlock()
			return
		}
		if i, ok := d.axisIdx[ev.Code]; ok {
			d.mu.Lock()
			d.axes[i] = normalize(ev.Value, d.ranges[i])
			d.mu.Unlock()
		}
	case evdev.EV_KEY:
		if i, ok := d.btnIdx[ev.Code]; ok {
			d.mu.Lock()
			d.buttons[i] = ev.Value != 0
			d.mu.Unlock()
		}
	}
}

func (d *evdevDevice) Name() string { return d.dev.Name }
func (d *evdevDevice) Path() string { return d.path }
func (d *evdevDevice) Axes() int    { return len(d.axes) }
func (d *evdevDevice) Buttons() int { return len(d.buttons) }
func (d *evdevDevice) Hats() int    { return d.hats }

func (d *evdevDevice) Axis(i int) (float64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i < 0 || i >= len(d.axes) {
		return 0, false
	}
	return d.axes[i], true
}

func (d *evdevDevice) Button(i int) (bool, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i < 0 || i >= len(d.buttons) {
		return false, false
	}
	return d.buttons[i], true
}

func (d *evdevDevice) Hat(i int) (int, int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i < 0 || i >= len(d.hatVals) {
		return 0, 0, false
	}
	return d.hatVals[i][0], d.hatVals[i][1], true
}

func (d *evdevDevice) Close() error {
	var err error
	d.closeOnce.Do(func() {
		close(d.done)
		err = d.dev.File.Close()
	})
	return err
}
