package pulseio

import "sync"

// FakeOutput records submissions for tests and dry runs.
type FakeOutput struct {
	mu      sync.Mutex
	subs    []Waveform
	stops   int
	reject  error
	stopped bool
}

func NewFakeOutput() *FakeOutput { return &FakeOutput{stopped: true} }

func (f *FakeOutput) Submit(w Waveform) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reject != nil {
		return f.reject
	}
	cp := make(Waveform, len(w))
	copy(cp, w)
	f.subs = append(f.subs, cp)
	f.stopped = false
	return nil
}

func (f *FakeOutput) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.stopped = true
}

func (f *FakeOutput) Close() error { return nil }

// Reject makes subsequent Submits fail with err (nil to clear).
func (f *FakeOutput) Reject(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reject = err
}

// Submissions returns the waveforms accepted so far.
func (f *FakeOutput) Submissions() []Waveform {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Waveform, len(f.subs))
	copy(out, f.subs)
	return out
}

// Stops returns how many times Stop was called.
func (f *FakeOutput) Stops() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

// Stopped reports whether the output is currently idle.
func (f *FakeOutput) Stopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

// FakeLED is a Setter that remembers its level.
type FakeLED struct {
	mu sync.Mutex
	on bool
}

func NewFakeLED() *FakeLED { return &FakeLED{} }

func (l *FakeLED) Set(on bool) error {
	l.mu.Lock()
	l.on = on
	l.mu.Unlock()
	return nil
}

func (l *FakeLED) Close() error { return l.Set(false) }

func (l *FakeLED) On() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}
