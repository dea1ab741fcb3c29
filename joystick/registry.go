package joystick

import "sync"

// Registry maps logical device indices ("joy0", "joy1", ...) to attached
// devices. It is the single shared mutable resource between the hotplug
// path and the output tick; every access goes through the lock so a tick
// never observes a half-updated slot list.
//
// Slot policy: Attach assigns the lowest free index. A device that detaches
// and reattaches therefore reclaims its old index when enumeration order is
// stable, so a channel mapping keeps pointing at the same stick.
type Registry struct {
	mu    sync.RWMutex
	slots []Device // nil entry = empty slot
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Attach stores the device in the lowest free slot and returns its index.
func (r *Registry) Attach(d Device) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.slots {
		if s == nil {
			r.slots[i] = d
			return i
		}
	}
	r.slots = append(r.slots, d)
	return len(r.slots) - 1
}

// Detach empties the slot owning the device at path and returns the device
// so the caller can release it. The second result is false if no slot owns
// that path.
func (r *Registry) Detach(path string) (Device, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.slots {
		if s != nil && s.Path() == path {
			r.slots[i] = nil
			return s, i, true
		}
	}
	return nil, 0, false
}

// Device returns the device in the given logical slot.
func (r *Registry) Device(idx int) (Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if idx < 0 || idx >= len(r.slots) || r.slots[idx] == nil {
		return nil, false
	}
	return r.slots[idx], true
}

// Present reports whether at least one slot is occupied.
func (r *Registry) Present() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.slots {
		if s != nil {
			return true
		}
	}
	return false
}

// Count returns the number of occupied slots.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, s := range r.slots {
		if s != nil {
			n++
		}
	}
	return n
}

// AxisCount returns the axis count of the device in slot idx.
func (r *Registry) AxisCount(idx int) (int, bool) {
	d, ok := r.Device(idx)
	if !ok {
		return 0, false
	}
	return d.Axes(), true
}

// Slot pairs a device with its logical index.
type Slot struct {
	Index int
	Dev   Device
}

// Snapshot returns the occupied slots in index order, for display. Each
// entry carries its logical index: after churn the occupied indices are
// not contiguous, and the index is what channel mappings address.
func (r *Registry) Snapshot() []Slot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Slot, 0, len(r.slots))
	for i, s := range r.slots {
		if s != nil {
			out = append(out, Slot{Index: i, Dev: s})
		}
	}
	return out
}

// Close detaches and closes every device.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.slots {
		if s != nil {
			_ = s.Close()
			r.slots[i] = nil
		}
	}
}
