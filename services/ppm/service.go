// Package ppm runs the output scheduler: the fixed-cadence loop that turns
// joystick state into PPM waveforms on the trainer port.
package ppm

import (
	"context"
	"log"
	"time"

	"trainerlink-go/bus"
	"trainerlink-go/internal/frame"
	"trainerlink-go/internal/mapping"
	"trainerlink-go/joystick"
	"trainerlink-go/pulseio"
	"trainerlink-go/types"
	"trainerlink-go/x/timex"
)

// Service is the output scheduler. It starts Idle and flips to Emitting
// while at least one joystick is attached; losing the last joystick stops
// the waveform within one tick so the transmitter takes back control.
type Service struct {
	conn    *bus.Connection
	reg     *joystick.Registry
	hotplug <-chan joystick.Event
	out     pulseio.Output

	specs   [types.ChannelCount]mapping.Spec
	tunings [types.ChannelCount]frame.Tuning
	bounds  frame.Bounds
	frameMS int

	state types.SchedState
}

func New(conn *bus.Connection, reg *joystick.Registry, hotplug <-chan joystick.Event, out pulseio.Output) *Service {
	return &Service{
		conn:    conn,
		reg:     reg,
		hotplug: hotplug,
		out:     out,
		state:   types.SchedIdle,
	}
}

// Run blocks until the context is cancelled. The waveform is stopped before
// it returns, so no pulses outlive the process.
func (s *Service) Run(ctx context.Context) {
	cfgSub := s.conn.Subscribe(topicConfig())
	defer s.conn.Unsubscribe(cfgSub)

	// The tick period derives from the configured frame length, so nothing
	// runs until the config service has published.
	select {
	case <-ctx.Done():
		return
	case msg := <-cfgSub.Channel():
		if !s.applyConfig(msg.Payload) {
			log.Printf("[ppm] bad config payload; waiting for a valid one")
		}
	}
	for s.frameMS == 0 {
		select {
		case <-ctx.Done():
			return
		case msg := <-cfgSub.Channel():
			s.applyConfig(msg.Payload)
		}
	}

	s.publishState()
	tick := time.NewTicker(timex.FramePeriod(s.frameMS))
	defer tick.Stop()
	log.Printf("[ppm] scheduler running, frame %dms", s.frameMS)

	for {
		select {
		case <-ctx.Done():
			s.out.Stop()
			s.state = types.SchedStopped
			s.publishState()
			log.Printf("[ppm] scheduler stopped")
			return
		case msg := <-cfgSub.Channel():
			if s.applyConfig(msg.Payload) {
				tick.Reset(timex.FramePeriod(s.frameMS))
			}
		case <-tick.C:
			// A tick that overran its period is simply the next tick; the
			// ticker drops backlogged fires, so the phase cannot drift.
			s.tick()
		}
	}
}

// applyConfig installs settings from a retained config message. Channel
// sources were validated at load; one failing to parse here is a
// programming error, logged and treated as unmapped.
func (s *Service) applyConfig(payload any) bool {
	cfg, ok := payload.(types.Config)
	if !ok {
		return false
	}
	s.bounds = frame.Bounds{
		MinUS: cfg.PPM.MinPulseUS,
		MidUS: cfg.PPM.MidPulseUS,
		MaxUS: cfg.PPM.MaxPulseUS,
	}
	s.frameMS = cfg.PPM.FrameLengthMS
	for i := 0; i < types.ChannelCount; i++ {
		var cc types.ChannelConfig
		if i < len(cfg.Channels) {
			cc = cfg.Channels[i]
		} else {
			cc.Source = "none"
		}
		spec, err := mapping.Parse(cc.Source)
		if err != nil {
			log.Printf("[ppm] channel %d: %v; mapping to none", i, err)
			spec, _ = mapping.Parse("none")
		}
		s.specs[i] = spec
		s.tunings[i] = frame.Tuning{TrimUS: cc.TrimUS, Expo: cc.Expo}
	}
	return true
}

func (s *Service) tick() {
	s.drainHotplug()

	if !s.reg.Present() {
		if s.state != types.SchedIdle {
			// Fail-safe: the instant the last stick is gone the waveform
			// stops and the transmitter's own gimbals take over.
			s.out.Stop()
			s.state = types.SchedIdle
			s.publishState()
			log.Printf("[ppm] no joysticks attached, output suppressed")
		}
		return
	}

	f := frame.Assemble(s.specs, s.tunings, s.bounds, s.frameMS, s.reg)
	if err := s.out.Submit(f.Waveform()); err != nil {
		// Tick-local: skip this emission, the previous waveform keeps
		// playing, and we retry on the next tick.
		log.Printf("[ppm] waveform submit rejected: %v", err)
		return
	}
	if s.state != types.SchedEmitting {
		s.state = types.SchedEmitting
		s.publishState()
		log.Printf("[ppm] emitting on %d joystick(s)", s.reg.Count())
	}
	s.conn.Publish(&bus.Message{Topic: topicFrame(), Payload: f.Report(timex.NowMs())})
}

func (s *Service) drainHotplug() {
	changed := false
	for {
		select {
		case ev := <-s.hotplug:
			s.applyHotplug(ev)
			changed = true
		default:
			// Keep the retained state current: its device count is the
			// single source the table view derives from.
			if changed {
				s.publishState()
			}
			return
		}
	}
}

func (s *Service) applyHotplug(ev joystick.Event) {
	switch ev.Type {
	case joystick.DeviceAdded:
		idx := s.reg.Attach(ev.Dev)
		log.Printf("[ppm] joy%d attached: %s (%s)", idx, ev.Dev.Name(), ev.Path)
		s.conn.Publish(&bus.Message{Topic: topicDevices(), Payload: types.DeviceNotice{
			Index: idx, Name: ev.Dev.Name(), Attached: true, TSms: timex.NowMs(),
		}})
	case joystick.DeviceRemoved:
		dev, idx, ok := s.reg.Detach(ev.Path)
		if !ok {
			return
		}
		_ = dev.Close()
		log.Printf("[ppm] joy%d detached: %s", idx, dev.Name())
		s.conn.Publish(&bus.Message{Topic: topicDevices(), Payload: types.DeviceNotice{
			Index: idx, Name: dev.Name(), Attached: false, TSms: timex.NowMs(),
		}})
	}
}

func (s *Service) publishState() {
	s.conn.Publish(&bus.Message{
		Topic:    topicState(),
		Payload:  types.PPMState{State: s.state, Devices: s.reg.Count(), TSms: timex.NowMs()},
		Retained: true,
	})
}
