//go:build linux

package pulseio

import (
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"trainerlink-go/errcode"
)

// LineOutput bit-bangs waveforms on one GPIO line. A single player
// goroutine owns the hardware; Submit and Stop only flip shared state, so
// they are safe from the scheduler tick. The pending waveform is picked up
// at the next frame boundary, replacing the playing one without a gap.
type LineOutput struct {
	line *gpiocdev.Line

	mu      sync.Mutex
	next    Waveform
	cur     Waveform
	running bool
	closed  bool
	lastErr error

	wake chan struct{}
	done chan struct{}
}

// NewLineOutput claims the line as a low output and starts the player.
func NewLineOutput(chip string, offset int) (*LineOutput, error) {
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, err
	}
	o := &LineOutput{
		line: line,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go o.play()
	return o, nil
}

func (o *LineOutput) Submit(w Waveform) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return errcode.NotReady
	}
	if o.lastErr != nil {
		// Surface the fault from the previous pass; the caller skips this
		// tick and retries on the next one.
		err := &errcode.E{C: errcode.HardwareBusy, Op: "pulseio.Submit", Err: o.lastErr}
		o.lastErr = nil
		return err
	}
	if len(w) == 0 {
		return errcode.InvalidParams
	}
	o.next = w
	o.running = true
	o.kick()
	return nil
}

func (o *LineOutput) Stop() {
	o.mu.Lock()
	o.running = false
	o.next = nil
	o.mu.Unlock()
	o.kick()
}

func (o *LineOutput) Close() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	o.running = false
	o.mu.Unlock()
	o.kick()
	<-o.done
	_ = o.line.SetValue(0)
	return o.line.Close()
}

func (o *LineOutput) kick() {
	select {
	case o.wake <- struct{}{}:
	default:
	}
}

// take returns the waveform for the next pass, blocking while stopped.
// ok is false once the output is closed.
func (o *LineOutput) take() (Waveform, bool) {
	for {
		o.mu.Lock()
		if o.closed {
			o.mu.Unlock()
			return nil, false
		}
		if o.running {
			if o.next != nil {
				o.cur = o.next
				o.next = nil
			}
			if o.cur != nil {
				w := o.cur
				o.mu.Unlock()
				return w, true
			}
		}
		o.mu.Unlock()

		// Idle: hold the line low until something changes.
		_ = o.line.SetValue(0)
		<-o.wake
	}
}

// interrupted reports whether the current pass should be abandoned.
func (o *LineOutput) interrupted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed || !o.running
}

func (o *LineOutput) play() {
	defer close(o.done)
	for {
		w, ok := o.take()
		if !ok {
			return
		}
		for _, p := range w {
			if o.interrupted() {
				break
			}
			v := 0
			if p.High {
				v = 1
			}
			if err := o.line.SetValue(v); err != nil {
				o.mu.Lock()
				o.lastErr = err
				o.running = false
				o.mu.Unlock()
				break
			}
			time.Sleep(p.Width)
		}
	}
}

// LED drives one status indicator line.
type LED struct {
	line *gpiocdev.Line
}

func NewLED(chip string, offset int) (*LED, error) {
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, err
	}
	return &LED{line: line}, nil
}

func (l *LED) Set(on bool) error {
	v := 0
	if on {
		v = 1
	}
	return l.line.SetValue(v)
}

func (l *LED) Close() error {
	_ = l.line.SetValue(0)
	return l.line.Close()
}
