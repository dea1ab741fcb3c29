// Package frame turns raw control values into PPM frames and waveforms.
// Everything here is pure: same inputs, same frame, no side effects.
package frame

import (
	"math"
	"time"

	"trainerlink-go/internal/mapping"
	"trainerlink-go/joystick"
	"trainerlink-go/pulseio"
	"trainerlink-go/types"
	"trainerlink-go/x/mathx"
)

const (
	// MarkerUS is the fixed high marker that opens every pulse on the wire.
	MarkerUS = 300
	// MinSyncUS keeps the sync gap long enough for any receiver to find the
	// frame start. A frame whose channels leave less than this gets longer
	// than nominal rather than shrinking the sync.
	MinSyncUS = 4000
	// minLowUS floors the low portion of a channel pulse so back-to-back
	// markers never fuse.
	minLowUS = 100
)

// Bounds are the receiver-safe pulse limits in microseconds.
type Bounds struct {
	MinUS, MidUS, MaxUS int
}

// Tuning is the per-channel shaping configuration.
type Tuning struct {
	TrimUS int
	Expo   float64 // 0 = linear, 1 = pure cubic
}

// Frame is one assembled PPM frame: eight channel widths plus the sync gap.
type Frame struct {
	PulsesUS [types.ChannelCount]int
	SyncUS   int
}

// Shape maps a raw value in [-1, 1] to a pulse width.
//
// The expo blend is sign-preserving: shaped = raw*(1-expo) + raw³*expo,
// softening response near center while keeping full deflection. The scaled
// width is anchored at MidUS for shaped==0 with equal spans toward MinUS
// and MaxUS, trim is added after scaling, and the result is clamped so trim
// can never push a pulse outside the receiver-safe bounds.
func Shape(raw float64, tn Tuning, b Bounds) int {
	raw = mathx.Clamp(raw, -1, 1)
	expo := mathx.Clamp(tn.Expo, 0, 1)
	shaped := raw*(1-expo) + raw*raw*raw*expo

	var us float64
	if shaped >= 0 {
		us = float64(b.MidUS) + shaped*float64(b.MaxUS-b.MidUS)
	} else {
		us = float64(b.MidUS) + shaped*float64(b.MidUS-b.MinUS)
	}
	pulse := int(math.Round(us)) + tn.TrimUS
	return mathx.Clamp(pulse, b.MinUS, b.MaxUS)
}

// Assemble builds one frame from the current registry state. A channel
// whose source cannot be resolved this tick degrades to neutral; assembly
// itself never fails.
func Assemble(specs [types.ChannelCount]mapping.Spec, tunings [types.ChannelCount]Tuning,
	b Bounds, frameLengthMS int, reg *joystick.Registry) Frame {

	var f Frame
	total := 0
	for ch := 0; ch < types.ChannelCount; ch++ {
		raw, err := mapping.Resolve(specs[ch], reg)
		if err != nil {
			raw = 0 // missing device degrades this channel, not the frame
		}
		f.PulsesUS[ch] = Shape(raw, tunings[ch], b)
		total += f.PulsesUS[ch]
	}

	f.SyncUS = frameLengthMS*1000 - total
	if f.SyncUS < MinSyncUS {
		f.SyncUS = MinSyncUS
	}
	return f
}

// Waveform converts the frame to wire pulses: each channel is a fixed high
// marker followed by low for the remainder of its width, and the sync gap
// closes the frame the same way.
func (f Frame) Waveform() pulseio.Waveform {
	w := make(pulseio.Waveform, 0, 2*(types.ChannelCount+1))
	for _, us := range f.PulsesUS {
		low := us - MarkerUS
		if low < minLowUS {
			low = minLowUS
		}
		w = append(w,
			pulseio.Pulse{High: true, Width: MarkerUS * time.Microsecond},
			pulseio.Pulse{High: false, Width: time.Duration(low) * time.Microsecond},
		)
	}
	syncLow := f.SyncUS - MarkerUS
	if syncLow < minLowUS {
		syncLow = minLowUS
	}
	w = append(w,
		pulseio.Pulse{High: true, Width: MarkerUS * time.Microsecond},
		pulseio.Pulse{High: false, Width: time.Duration(syncLow) * time.Microsecond},
	)
	return w
}

// Report packages the frame for the bus.
func (f Frame) Report(tsMs int64) types.FrameReport {
	return types.FrameReport{PulsesUS: f.PulsesUS, SyncUS: f.SyncUS, TSms: tsMs}
}
