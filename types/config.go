package types

// Configuration loaded once at startup and supplied on topic "config/ppm".
// All fields are immutable after load; invalid channel specs are rejected by
// the config service before the scheduler starts.

const ChannelCount = 8

// Config is the full runtime configuration file shape.
type Config struct {
	PPM      PPMSettings     `yaml:"ppm"`
	Channels []ChannelConfig `yaml:"channels"`
	LEDs     LEDSettings     `yaml:"leds"`
	Input    InputSettings   `yaml:"input"`
}

// PPMSettings bound the generated waveform.
type PPMSettings struct {
	Chip          string `yaml:"chip"`            // e.g. "gpiochip0"
	Pin           int    `yaml:"pin"`             // output line offset
	FrameLengthMS int    `yaml:"frame_length_ms"` // nominal frame period
	MinPulseUS    int    `yaml:"min_pulse_us"`
	MidPulseUS    int    `yaml:"mid_pulse_us"`
	MaxPulseUS    int    `yaml:"max_pulse_us"`
}

// ChannelConfig pairs a source mapping string with its tuning.
// Source syntax: "[!]joyN:axis:I", "[!]joyN:button:I",
// "[!]joyN:hat:H:{0|1}", or "none". '!' inverts the value.
type ChannelConfig struct {
	Source string  `yaml:"source"`
	TrimUS int     `yaml:"trim_us"`
	Expo   float64 `yaml:"expo"` // 0 = linear, 1 = pure cubic
}

// LEDSettings name the two status indicator lines.
type LEDSettings struct {
	Chip     string `yaml:"chip"`
	ReadyPin int    `yaml:"ready_pin"` // solid once initialized
	AlivePin int    `yaml:"alive_pin"` // blinks while the loop runs
}

// InputSettings tune the hotplug watcher.
type InputSettings struct {
	WatchIntervalMS int `yaml:"watch_interval_ms"` // /dev/input rescan period
}

// Defaults returns the stock Raspberry Pi wiring: 20 ms frames on
// gpiochip0 line 18, 988/1500/2012 µs pulse bounds, ready LED on line 22
// and alive LED on line 23.
func Defaults() Config {
	cfg := Config{
		PPM: PPMSettings{
			Chip:          "gpiochip0",
			Pin:           18,
			FrameLengthMS: 20,
			MinPulseUS:    988,
			MidPulseUS:    1500,
			MaxPulseUS:    2012,
		},
		LEDs:  LEDSettings{Chip: "gpiochip0", ReadyPin: 22, AlivePin: 23},
		Input: InputSettings{WatchIntervalMS: 250},
	}
	cfg.Channels = make([]ChannelConfig, ChannelCount)
	for i := range cfg.Channels {
		cfg.Channels[i].Source = "none"
	}
	return cfg
}
