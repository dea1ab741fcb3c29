package frame

import (
	"testing"
	"time"

	"trainerlink-go/internal/mapping"
	"trainerlink-go/joystick"
	"trainerlink-go/types"
)

var stdBounds = Bounds{MinUS: 1000, MidUS: 1500, MaxUS: 2000}

func TestShapeLinearAtZeroExpo(t *testing.T) {
	// With expo=0 the map is exactly linear: MID + raw*(MAX-MID) above
	// center and MID + raw*(MID-MIN) below.
	cases := []struct {
		raw  float64
		want int
	}{
		{-1, 1000},
		{-0.5, 1250},
		{0, 1500},
		{0.5, 1750},
		{1, 2000},
	}
	for _, c := range cases {
		if got := Shape(c.raw, Tuning{}, stdBounds); got != c.want {
			t.Errorf("Shape(%v) = %d, want %d", c.raw, got, c.want)
		}
	}
}

func TestShapeExpoPreservesEndpointsAndSoftensCenter(t *testing.T) {
	tn := Tuning{Expo: 1} // pure cubic
	if got := Shape(1, tn, stdBounds); got != 2000 {
		t.Errorf("full deflection with expo = %d, want 2000", got)
	}
	if got := Shape(-1, tn, stdBounds); got != 1000 {
		t.Errorf("full negative deflection with expo = %d, want 1000", got)
	}
	if got := Shape(0, tn, stdBounds); got != 1500 {
		t.Errorf("center with expo = %d, want 1500", got)
	}
	// Near center, cubic response is flatter than linear.
	lin := Shape(0.5, Tuning{}, stdBounds)
	cub := Shape(0.5, tn, stdBounds)
	if cub >= lin {
		t.Errorf("expo did not soften: cubic %d >= linear %d", cub, lin)
	}
}

func TestShapeClampingLaw(t *testing.T) {
	// Trim must never push a pulse outside the bounds.
	for _, tn := range []Tuning{
		{TrimUS: 900},
		{TrimUS: -900},
		{TrimUS: 5000, Expo: 0.5},
		{TrimUS: -5000, Expo: 1},
	} {
		for _, raw := range []float64{-1.5, -1, -0.3, 0, 0.7, 1, 2} {
			got := Shape(raw, tn, stdBounds)
			if got < stdBounds.MinUS || got > stdBounds.MaxUS {
				t.Fatalf("Shape(%v, %+v) = %d outside [%d, %d]",
					raw, tn, got, stdBounds.MinUS, stdBounds.MaxUS)
			}
		}
	}
}

func TestShapeTrimApplied(t *testing.T) {
	if got := Shape(0, Tuning{TrimUS: 40}, stdBounds); got != 1540 {
		t.Errorf("trimmed center = %d, want 1540", got)
	}
	if got := Shape(0, Tuning{TrimUS: -25}, stdBounds); got != 1475 {
		t.Errorf("trimmed center = %d, want 1475", got)
	}
}

func assembleArgs(reg *joystick.Registry, src string) ([types.ChannelCount]mapping.Spec, [types.ChannelCount]Tuning) {
	var specs [types.ChannelCount]mapping.Spec
	var tunings [types.ChannelCount]Tuning
	s, err := mapping.Parse(src)
	if err != nil {
		panic(err)
	}
	specs[0] = s
	for i := 1; i < types.ChannelCount; i++ {
		specs[i], _ = mapping.Parse("none")
	}
	return specs, tunings
}

func TestAssembleScenario(t *testing.T) {
	// MIN=1000 MID=1500 MAX=2000, frame 20 ms, channel 0 = joy0:axis:0,
	// raw 1.0, expo 0, trim 0 -> 2000 µs; inverted -> 1000 µs; detached
	// mid-run -> back to neutral 1500 µs with the rest untouched.
	reg := joystick.NewRegistry()
	dev := joystick.NewMockDevice("stick", "p0", 1, 0, 0)
	dev.SetAxis(0, 1.0)
	reg.Attach(dev)

	specs, tunings := assembleArgs(reg, "joy0:axis:0")
	f := Assemble(specs, tunings, stdBounds, 20, reg)
	if f.PulsesUS[0] != 2000 {
		t.Fatalf("channel 0 = %d, want 2000", f.PulsesUS[0])
	}
	for ch := 1; ch < types.ChannelCount; ch++ {
		if f.PulsesUS[ch] != 1500 {
			t.Fatalf("unmapped channel %d = %d, want 1500", ch, f.PulsesUS[ch])
		}
	}

	invSpecs, _ := assembleArgs(reg, "!joy0:axis:0")
	fi := Assemble(invSpecs, tunings, stdBounds, 20, reg)
	if fi.PulsesUS[0] != 1000 {
		t.Fatalf("inverted channel 0 = %d, want 1000", fi.PulsesUS[0])
	}

	reg.Detach("p0")
	fd := Assemble(specs, tunings, stdBounds, 20, reg)
	if fd.PulsesUS[0] != 1500 {
		t.Fatalf("detached channel 0 = %d, want neutral 1500", fd.PulsesUS[0])
	}
	for ch := 1; ch < types.ChannelCount; ch++ {
		if fd.PulsesUS[ch] != f.PulsesUS[ch] {
			t.Fatalf("channel %d changed on unrelated detach", ch)
		}
	}
}

func TestAssembleSumLaw(t *testing.T) {
	reg := joystick.NewRegistry()
	specs, tunings := assembleArgs(reg, "none")

	f := Assemble(specs, tunings, stdBounds, 20, reg)
	total := f.SyncUS
	for _, p := range f.PulsesUS {
		total += p
	}
	if total != 20*1000 {
		t.Fatalf("frame total = %d µs, want 20000", total)
	}
}

func TestAssembleMinSyncClamp(t *testing.T) {
	// All channels at max on a short frame leaves no room for the sync;
	// the frame must stretch rather than shrink the sync below MinSyncUS.
	reg := joystick.NewRegistry()
	dev := joystick.NewMockDevice("stick", "p0", 1, 0, 0)
	dev.SetAxis(0, 1.0)
	reg.Attach(dev)

	var specs [types.ChannelCount]mapping.Spec
	var tunings [types.ChannelCount]Tuning
	for i := range specs {
		specs[i], _ = mapping.Parse("joy0:axis:0")
	}

	f := Assemble(specs, tunings, stdBounds, 18, reg) // 8*2000 = 16000 > 18000-MinSync
	if f.SyncUS != MinSyncUS {
		t.Fatalf("sync = %d, want clamp to %d", f.SyncUS, MinSyncUS)
	}
	for ch, p := range f.PulsesUS {
		if p < stdBounds.MinUS || p > stdBounds.MaxUS {
			t.Fatalf("channel %d = %d escaped bounds under sync clamp", ch, p)
		}
	}
}

func TestAssembleIdempotent(t *testing.T) {
	reg := joystick.NewRegistry()
	dev := joystick.NewMockDevice("stick", "p0", 3, 2, 1)
	dev.SetAxis(0, 0.25)
	dev.SetAxis(2, -0.8)
	reg.Attach(dev)

	var specs [types.ChannelCount]mapping.Spec
	var tunings [types.ChannelCount]Tuning
	specs[0], _ = mapping.Parse("joy0:axis:0")
	specs[1], _ = mapping.Parse("!joy0:axis:2")
	tunings[1] = Tuning{TrimUS: 12, Expo: 0.3}
	for i := 2; i < types.ChannelCount; i++ {
		specs[i], _ = mapping.Parse("none")
	}

	a := Assemble(specs, tunings, stdBounds, 20, reg)
	b := Assemble(specs, tunings, stdBounds, 20, reg)
	if a != b {
		t.Fatalf("assembly not idempotent: %+v vs %+v", a, b)
	}
}

func TestWaveformShape(t *testing.T) {
	reg := joystick.NewRegistry()
	specs, tunings := assembleArgs(reg, "none")
	f := Assemble(specs, tunings, stdBounds, 20, reg)
	w := f.Waveform()

	if len(w) != 2*(types.ChannelCount+1) {
		t.Fatalf("waveform has %d segments, want %d", len(w), 2*(types.ChannelCount+1))
	}
	for i, p := range w {
		if (i%2 == 0) != p.High {
			t.Fatalf("segment %d level wrong: %+v", i, p)
		}
		if i%2 == 0 && p.Width != MarkerUS*time.Microsecond {
			t.Fatalf("marker %d width %v, want %dµs", i, p.Width, MarkerUS)
		}
	}
	if got := w.Period(); got != 20*time.Millisecond {
		t.Fatalf("waveform period %v, want 20ms", got)
	}
}
