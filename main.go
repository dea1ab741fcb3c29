//go:build linux

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"trainerlink-go/bus"
	"trainerlink-go/internal/ui"
	"trainerlink-go/joystick"
	"trainerlink-go/pulseio"
	configsvc "trainerlink-go/services/config"
	"trainerlink-go/services/heartbeat"
	"trainerlink-go/services/ppm"
	"trainerlink-go/types"
)

var (
	flagConfig string
	flagTable  bool
	flagDryRun bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "trainerlink",
		Short: "Drive an RC transmitter's trainer port from USB joysticks",
		Long: `trainerlink reads attached USB joysticks and generates an 8-channel PPM
signal on a GPIO line for an RC transmitter's trainer port. Unplugging the
last joystick stops the signal immediately, handing control back to the
transmitter's own sticks.`,
		RunE: runDaemon,
	}
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "Path to YAML configuration (defaults used if empty)")
	rootCmd.Flags().BoolVar(&flagTable, "table", false, "Periodically print the computed channel table")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Run without touching GPIO (no waveform, no LEDs)")

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Monitor joystick axes, buttons and hats to find mapping indices",
		RunE:  runInspect,
	}
	rootCmd.AddCommand(inspectCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := configsvc.Load(flagConfig)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out, ready, alive, err := openHardware(cfg)
	if err != nil {
		return err
	}
	defer out.Close()
	defer ready.Close()
	defer alive.Close()

	b := bus.New(16)
	configsvc.NewService(cfg).Publish(b.NewConnection("config"))

	reg := joystick.NewRegistry()
	defer reg.Close()

	watcher := joystick.NewWatcher(time.Duration(cfg.Input.WatchIntervalMS) * time.Millisecond)
	go watcher.Run(ctx)

	heartbeat.New(alive, 500*time.Millisecond).Start(ctx, b.NewConnection("heartbeat"))

	if flagTable {
		go tableLoop(ctx, b.NewConnection("table"), cfg)
	}

	// System is up: ready LED solid until shutdown.
	if err := ready.Set(true); err != nil {
		return err
	}
	log.Printf("[trainerlink] initialized, PPM on %s:%d", cfg.PPM.Chip, cfg.PPM.Pin)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ppm.New(b.NewConnection("ppm"), reg, watcher.Events(), out).Run(ctx)
	}()

	<-ctx.Done()
	wg.Wait() // scheduler has stopped the waveform by now
	_ = ready.Set(false)
	log.Printf("[trainerlink] exiting")
	return nil
}

func openHardware(cfg types.Config) (pulseio.Output, pulseio.Setter, pulseio.Setter, error) {
	if flagDryRun {
		return pulseio.NewFakeOutput(), pulseio.NewFakeLED(), pulseio.NewFakeLED(), nil
	}
	out, err := pulseio.NewLineOutput(cfg.PPM.Chip, cfg.PPM.Pin)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("ppm line %s:%d: %w", cfg.PPM.Chip, cfg.PPM.Pin, err)
	}
	ready, err := pulseio.NewLED(cfg.LEDs.Chip, cfg.LEDs.ReadyPin)
	if err != nil {
		out.Close()
		return nil, nil, nil, fmt.Errorf("ready led: %w", err)
	}
	alive, err := pulseio.NewLED(cfg.LEDs.Chip, cfg.LEDs.AlivePin)
	if err != nil {
		out.Close()
		ready.Close()
		return nil, nil, nil, fmt.Errorf("alive led: %w", err)
	}
	return out, ready, alive, nil
}

// tableLoop re-renders the channel table twice a second from the frame
// reports the scheduler publishes.
func tableLoop(ctx context.Context, conn *bus.Connection, cfg types.Config) {
	frameSub := conn.Subscribe(bus.T("ppm", "frame"))
	stateSub := conn.Subscribe(bus.T("ppm", "state"))
	defer conn.Disconnect()

	// Before the first frame (or while idle) show the neutral fallback the
	// receiver would effectively see.
	rep := types.FrameReport{}
	for i := range rep.PulsesUS {
		rep.PulsesUS[i] = cfg.PPM.MidPulseUS
	}
	rep.SyncUS = cfg.PPM.FrameLengthMS*1000 - types.ChannelCount*cfg.PPM.MidPulseUS

	devices := 0
	tick := time.NewTicker(500 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-frameSub.Channel():
			if r, ok := msg.Payload.(types.FrameReport); ok {
				rep = r
			}
		case msg := <-stateSub.Channel():
			// The retained state is republished on every hotplug change,
			// so its device count is authoritative.
			if st, ok := msg.Payload.(types.PPMState); ok {
				devices = st.Devices
			}
		case <-tick.C:
			fmt.Print("\033[H\033[2J")
			fmt.Println(ui.RenderChannelTable(cfg, rep, devices))
		}
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := joystick.NewRegistry()
	defer reg.Close()

	watcher := joystick.NewWatcher(250 * time.Millisecond)
	go watcher.Run(ctx)

	p := tea.NewProgram(
		ui.NewInspect(reg, watcher.Events()),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
