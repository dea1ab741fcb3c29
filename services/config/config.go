// Package config loads the trainerlink configuration file and publishes it
// as retained bus topics for the other services.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"trainerlink-go/bus"
	"trainerlink-go/errcode"
	"trainerlink-go/internal/mapping"
	"trainerlink-go/types"
)

const serviceName = "config"

// Load reads path (YAML) over the factory defaults and validates the
// result. An empty path returns the validated defaults.
func Load(path string) (types.Config, error) {
	cfg := types.Defaults()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return types.Config{}, err
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return types.Config{}, &errcode.E{C: errcode.InvalidParams, Op: "config.Load", Err: err}
		}
	}
	if err := Validate(&cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the core could not run safely on.
// Channel sources are parsed here so a bad mapping string fails at load,
// not on every output tick.
func Validate(cfg *types.Config) error {
	p := &cfg.PPM
	if p.FrameLengthMS <= 0 {
		return invalid("frame_length_ms must be positive, got %d", p.FrameLengthMS)
	}
	if !(p.MinPulseUS < p.MidPulseUS && p.MidPulseUS < p.MaxPulseUS) {
		return invalid("pulse bounds must satisfy min < mid < max, got %d/%d/%d",
			p.MinPulseUS, p.MidPulseUS, p.MaxPulseUS)
	}
	if p.Pin < 0 {
		return invalid("ppm pin must be non-negative, got %d", p.Pin)
	}
	if len(cfg.Channels) > types.ChannelCount {
		return invalid("at most %d channels, got %d", types.ChannelCount, len(cfg.Channels))
	}
	// Pad missing trailing channels to unmapped.
	for len(cfg.Channels) < types.ChannelCount {
		cfg.Channels = append(cfg.Channels, types.ChannelConfig{Source: "none"})
	}
	for i, ch := range cfg.Channels {
		if _, err := mapping.Parse(ch.Source); err != nil {
			return fmt.Errorf("channel %d: %w", i, err)
		}
		if ch.Expo < 0 || ch.Expo > 1 {
			return invalid("channel %d: expo %v outside [0, 1]", i, ch.Expo)
		}
	}
	if cfg.Input.WatchIntervalMS <= 0 {
		cfg.Input.WatchIntervalMS = types.Defaults().Input.WatchIntervalMS
	}
	return nil
}

func invalid(format string, args ...any) error {
	return &errcode.E{C: errcode.InvalidParams, Op: "config.Validate",
		Msg: fmt.Sprintf(format, args...)}
}

// Service publishes the loaded configuration as retained messages.
type Service struct {
	cfg types.Config
}

func NewService(cfg types.Config) *Service {
	return &Service{cfg: cfg}
}

// Publish pushes the retained config topics. Subscribers that connect later
// still receive them, so start order does not matter.
func (s *Service) Publish(conn *bus.Connection) {
	conn.Publish(&bus.Message{Topic: bus.T("config", "ppm"), Payload: s.cfg, Retained: true})
	conn.Publish(&bus.Message{Topic: bus.T("config", "leds"), Payload: s.cfg.LEDs, Retained: true})
	conn.Publish(&bus.Message{Topic: bus.T("config", "input"), Payload: s.cfg.Input, Retained: true})
}
