package mapping

import (
	"testing"

	"trainerlink-go/errcode"
	"trainerlink-go/joystick"
)

func TestParseAccepts(t *testing.T) {
	cases := []struct {
		src  string
		want Spec
	}{
		{"none", Spec{Kind: Unmapped}},
		{"", Spec{Kind: Unmapped}},
		{"joy0:axis:0", Spec{Kind: Axis, Device: 0, Index: 0}},
		{"joy1:axis:4", Spec{Kind: Axis, Device: 1, Index: 4}},
		{"!joy0:axis:2", Spec{Kind: Axis, Device: 0, Index: 2, Invert: true}},
		{"joy0:button:7", Spec{Kind: Button, Device: 0, Index: 7}},
		{"joy2:hat:0:1", Spec{Kind: Hat, Device: 2, Index: 0, Sub: 1}},
		{"!joy0:hat:1:0", Spec{Kind: Hat, Device: 0, Index: 1, Sub: 0, Invert: true}},
	}
	for _, c := range cases {
		got, err := Parse(c.src)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", c.src, err)
			continue
		}
		if got.Kind != c.want.Kind || got.Device != c.want.Device ||
			got.Index != c.want.Index || got.Sub != c.want.Sub ||
			got.Invert != c.want.Invert {
			t.Errorf("Parse(%q) = %+v, want %+v", c.src, got, c.want)
		}
	}
}

func TestParseRejects(t *testing.T) {
	bad := []string{
		"joy0",
		"joy0:axis",
		"joyX:axis:0",
		"joy-1:axis:0",
		"joy0:axis:x",
		"joy0:axis:0:1",
		"joy0:wheel:0",
		"joy0:hat:0",
		"joy0:hat:0:2",
		"pad0:axis:0",
	}
	for _, src := range bad {
		if _, err := Parse(src); errcode.Of(err) != errcode.InvalidSpec {
			t.Errorf("Parse(%q): expected invalid_spec, got %v", src, err)
		}
	}
}

func TestResolveAxisAndInvert(t *testing.T) {
	reg := joystick.NewRegistry()
	dev := joystick.NewMockDevice("stick", "p0", 4, 2, 1)
	dev.SetAxis(0, 0.5)
	reg.Attach(dev)

	spec, _ := Parse("joy0:axis:0")
	if v, err := Resolve(spec, reg); err != nil || v != 0.5 {
		t.Fatalf("Resolve = %v, %v", v, err)
	}

	inv, _ := Parse("!joy0:axis:0")
	if v, err := Resolve(inv, reg); err != nil || v != -0.5 {
		t.Fatalf("inverted Resolve = %v, %v", v, err)
	}
}

func TestResolveButtonAndHat(t *testing.T) {
	reg := joystick.NewRegistry()
	dev := joystick.NewMockDevice("stick", "p0", 1, 3, 1)
	reg.Attach(dev)

	btn, _ := Parse("joy0:button:1")
	if v, _ := Resolve(btn, reg); v != -1 {
		t.Fatalf("unpressed button = %v, want -1", v)
	}
	dev.SetButton(1, true)
	if v, _ := Resolve(btn, reg); v != 1 {
		t.Fatalf("pressed button = %v, want 1", v)
	}

	dev.SetHat(0, -1, 1)
	hx, _ := Parse("joy0:hat:0:0")
	hy, _ := Parse("joy0:hat:0:1")
	if v, _ := Resolve(hx, reg); v != -1 {
		t.Fatalf("hat x = %v, want -1", v)
	}
	if v, _ := Resolve(hy, reg); v != 1 {
		t.Fatalf("hat y = %v, want 1", v)
	}
}

func TestResolveUnavailable(t *testing.T) {
	reg := joystick.NewRegistry()

	spec, _ := Parse("joy0:axis:0")
	if _, err := Resolve(spec, reg); errcode.Of(err) != errcode.Unavailable {
		t.Fatalf("missing device: got %v", err)
	}

	// Device present but axis out of range.
	reg.Attach(joystick.NewMockDevice("stick", "p0", 1, 0, 0))
	narrow, _ := Parse("joy0:axis:5")
	if _, err := Resolve(narrow, reg); errcode.Of(err) != errcode.Unavailable {
		t.Fatalf("missing axis: got %v", err)
	}
}

func TestResolveUnmappedIsNeutral(t *testing.T) {
	reg := joystick.NewRegistry()
	spec, _ := Parse("none")
	v, err := Resolve(spec, reg)
	if err != nil || v != 0 {
		t.Fatalf("unmapped = %v, %v; want 0, nil", v, err)
	}
}
