package heartbeat

import (
	"context"
	"testing"
	"time"

	"trainerlink-go/bus"
	"trainerlink-go/pulseio"
)

func TestHeartbeatTogglesAndPublishes(t *testing.T) {
	b := bus.New(8)
	led := pulseio.NewFakeLED()
	svc := New(led, 5*time.Millisecond)

	sub := b.NewConnection("test").Subscribe(bus.T("heartbeat", "alive"))

	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx, b.NewConnection("heartbeat"))

	for i := 0; i < 2; i++ {
		select {
		case <-sub.Channel():
		case <-time.After(200 * time.Millisecond):
			t.Fatal("timeout waiting for heartbeat")
		}
	}

	cancel()
	deadline := time.Now().Add(200 * time.Millisecond)
	for led.On() && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	if led.On() {
		t.Fatal("alive LED left on after shutdown")
	}
}
