// Package mapping resolves channel source specifications against the
// attached joystick registry.
package mapping

import (
	"fmt"
	"strconv"
	"strings"

	"trainerlink-go/errcode"
	"trainerlink-go/joystick"
)

// Kind is the source variant of a channel specification.
type Kind uint8

const (
	Unmapped Kind = iota
	Axis
	Button
	Hat
)

// Spec is a parsed, validated channel source. Specs are built once at
// config load; a bad source string is rejected there, never per tick.
type Spec struct {
	Kind   Kind
	Device int  // logical joystick index
	Index  int  // axis/button/hat index on that device
	Sub    int  // hat sub-axis: 0 horizontal, 1 vertical
	Invert bool // '!' prefix: negate the resolved value

	src string
}

// Parse accepts the source syntax used in the configuration file:
//
//	none
//	[!]joyN:axis:I
//	[!]joyN:button:I
//	[!]joyN:hat:H:{0|1}
func Parse(s string) (Spec, error) {
	src := strings.TrimSpace(s)
	if src == "" || src == "none" {
		return Spec{Kind: Unmapped, src: "none"}, nil
	}

	spec := Spec{src: src}
	body := src
	if strings.HasPrefix(body, "!") {
		spec.Invert = true
		body = body[1:]
	}

	parts := strings.Split(body, ":")
	if len(parts) < 3 {
		return Spec{}, specErr(src, "want joyN:<control>:<index>")
	}
	if !strings.HasPrefix(parts[0], "joy") {
		return Spec{}, specErr(src, "source must start with joyN")
	}
	dev, err := strconv.Atoi(parts[0][len("joy"):])
	if err != nil || dev < 0 {
		return Spec{}, specErr(src, "bad joystick index")
	}
	idx, err := strconv.Atoi(parts[2])
	if err != nil || idx < 0 {
		return Spec{}, specErr(src, "bad control index")
	}
	spec.Device = dev
	spec.Index = idx

	switch parts[1] {
	case "axis":
		if len(parts) != 3 {
			return Spec{}, specErr(src, "axis takes one index")
		}
		spec.Kind = Axis
	case "button":
		if len(parts) != 3 {
			return Spec{}, specErr(src, "button takes one index")
		}
		spec.Kind = Button
	case "hat":
		if len(parts) != 4 {
			return Spec{}, specErr(src, "hat wants joyN:hat:H:{0|1}")
		}
		sub, err := strconv.Atoi(parts[3])
		if err != nil || (sub != 0 && sub != 1) {
			return Spec{}, specErr(src, "hat sub-axis must be 0 or 1")
		}
		spec.Kind = Hat
		spec.Sub = sub
	default:
		return Spec{}, specErr(src, "unknown control type "+parts[1])
	}
	return spec, nil
}

func specErr(src, msg string) error {
	return &errcode.E{C: errcode.InvalidSpec, Op: "mapping.Parse",
		Msg: fmt.Sprintf("%q: %s", src, msg)}
}

// String returns the original source text ("none" for unmapped).
func (s Spec) String() string {
	if s.src == "" {
		return "none"
	}
	return s.src
}

// Resolve reads the current raw value in [-1, 1] for the spec.
//
// Unmapped resolves to neutral 0, by definition not an error. A spec whose
// device or control is absent this tick returns errcode.Unavailable; the
// frame assembler degrades that channel to neutral.
func Resolve(s Spec, reg *joystick.Registry) (float64, error) {
	if s.Kind == Unmapped {
		return 0, nil
	}
	dev, ok := reg.Device(s.Device)
	if !ok {
		return 0, errcode.Unavailable
	}

	var v float64
	switch s.Kind {
	case Axis:
		raw, ok := dev.Axis(s.Index)
		if !ok {
			return 0, errcode.Unavailable
		}
		v = raw
	case Button:
		pressed, ok := dev.Button(s.Index)
		if !ok {
			return 0, errcode.Unavailable
		}
		// unpressed = -1, pressed = +1
		v = -1
		if pressed {
			v = 1
		}
	case Hat:
		x, y, ok := dev.Hat(s.Index)
		if !ok {
			return 0, errcode.Unavailable
		}
		if s.Sub == 0 {
			v = float64(x)
		} else {
			v = float64(y)
		}
	}

	if s.Invert {
		v = -v
	}
	return v, nil
}
