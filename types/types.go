package types

// ---- Scheduler state (retained on "ppm/state") ----

type SchedState string

const (
	SchedIdle     SchedState = "idle"     // no input devices, output suppressed
	SchedEmitting SchedState = "emitting" // waveform active
	SchedStopped  SchedState = "stopped"  // shut down
)

type PPMState struct {
	State   SchedState `json:"state"`
	Devices int        `json:"devices"` // attached input devices
	TSms    int64      `json:"ts_ms"`
}

// ---- Per-tick frame summary (non-retained on "ppm/frame") ----

type FrameReport struct {
	PulsesUS [ChannelCount]int `json:"pulses_us"`
	SyncUS   int               `json:"sync_us"`
	TSms     int64             `json:"ts_ms"`
}

// ---- Input device notifications (non-retained on "input/devices") ----

type DeviceNotice struct {
	Index    int    `json:"index"` // logical registry slot
	Name     string `json:"name"`
	Attached bool   `json:"attached"`
	TSms     int64  `json:"ts_ms"`
}
