// Package pulseio plays pulse-train waveforms and drives status LEDs on
// GPIO character-device lines.
package pulseio

import "time"

// Pulse is one waveform segment: the line level and how long to hold it.
type Pulse struct {
	High  bool
	Width time.Duration
}

// Waveform is an ordered pulse sequence, played start to end and then
// repeated until replaced or stopped.
type Waveform []Pulse

// Period is the total play time of one pass.
func (w Waveform) Period() time.Duration {
	var total time.Duration
	for _, p := range w {
		total += p.Width
	}
	return total
}

// Output plays waveforms on a single line.
type Output interface {
	// Submit installs w as the waveform to play next, replacing the current
	// one at its frame boundary so playback never gaps. It returns an error
	// if the backend cannot accept the waveform this tick.
	Submit(w Waveform) error
	// Stop ends playback and leaves the line low. Submitting again resumes.
	Stop()
	Close() error
}

// Setter is a boolean status indicator.
type Setter interface {
	Set(on bool) error
	Close() error
}
