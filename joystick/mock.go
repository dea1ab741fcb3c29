package joystick

import "sync"

// MockDevice is an in-memory Device for tests and dry runs.
type MockDevice struct {
	mu      sync.Mutex
	name    string
	path    string
	axes    []float64
	buttons []bool
	hats    [][2]int
	closed  bool
}

func NewMockDevice(name, path string, axes, buttons, hats int) *MockDevice {
	return &MockDevice{
		name:    name,
		path:    path,
		axes:    make([]float64, axes),
		buttons: make([]bool, buttons),
		hats:    make([][2]int, hats),
	}
}

func (m *MockDevice) Name() string { return m.name }
func (m *MockDevice) Path() string { return m.path }

func (m *MockDevice) Axes() int    { return len(m.axes) }
func (m *MockDevice) Buttons() int { return len(m.buttons) }
func (m *MockDevice) Hats() int    { return len(m.hats) }

func (m *MockDevice) Axis(i int) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.axes) {
		return 0, false
	}
	return m.axes[i], true
}

func (m *MockDevice) Button(i int) (bool, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.buttons) {
		return false, false
	}
	return m.buttons[i], true
}

func (m *MockDevice) Hat(i int) (int, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.hats) {
		return 0, 0, false
	}
	return m.hats[i][0], m.hats[i][1], true
}

func (m *MockDevice) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// SetAxis drives axis i for tests.
func (m *MockDevice) SetAxis(i int, v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i >= 0 && i < len(m.axes) {
		m.axes[i] = v
	}
}

// SetButton drives button i for tests.
func (m *MockDevice) SetButton(i int, pressed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i >= 0 && i < len(m.buttons) {
		m.buttons[i] = pressed
	}
}

// SetHat drives hat i for tests.
func (m *MockDevice) SetHat(i, x, y int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i >= 0 && i < len(m.hats) {
		m.hats[i] = [2]int{x, y}
	}
}

// Closed reports whether Close was called.
func (m *MockDevice) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
