package heartbeat

import (
	"context"
	"time"

	"trainerlink-go/bus"
	"trainerlink-go/pulseio"
	"trainerlink-go/x/timex"
)

var topicAlive = bus.T("heartbeat", "alive")

// Service blinks the alive indicator while the process runs, independent of
// whether the scheduler is Idle or Emitting. The LED ends dark on shutdown.
type Service struct {
	led      pulseio.Setter
	interval time.Duration
}

func New(led pulseio.Setter, interval time.Duration) *Service {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Service{led: led, interval: interval}
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	tick := time.NewTicker(s.interval)
	defer tick.Stop()

	on := false
	for {
		select {
		case <-ctx.Done():
			_ = s.led.Set(false)
			return
		case <-tick.C:
			on = !on
			_ = s.led.Set(on)
			conn.Publish(&bus.Message{Topic: topicAlive, Payload: timex.NowMs()})
		}
	}
}

// Start launches the blink loop.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	go s.serviceLoop(ctx, conn)
}
