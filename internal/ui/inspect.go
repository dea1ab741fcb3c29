package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"trainerlink-go/joystick"
)

// InspectModel is the live joystick monitor used to discover the axis,
// button, and hat indices for channel mapping.
type InspectModel struct {
	reg    *joystick.Registry
	events <-chan joystick.Event
}

func NewInspect(reg *joystick.Registry, events <-chan joystick.Event) InspectModel {
	return InspectModel{reg: reg, events: events}
}

type inspectTickMsg time.Time

func inspectTick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return inspectTickMsg(t)
	})
}

func (m InspectModel) Init() tea.Cmd { return inspectTick() }

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case inspectTickMsg:
		m.drainHotplug()
		return m, inspectTick()
	}
	return m, nil
}

func (m InspectModel) drainHotplug() {
	for {
		select {
		case ev := <-m.events:
			switch ev.Type {
			case joystick.DeviceAdded:
				m.reg.Attach(ev.Dev)
			case joystick.DeviceRemoved:
				if dev, _, ok := m.reg.Detach(ev.Path); ok {
					_ = dev.Close()
				}
			}
		default:
			return
		}
	}
}

func (m InspectModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Joystick Inspector"))
	b.WriteString(dimStyle.Render("  (q to quit)"))
	b.WriteString("\n\n")

	devs := m.reg.Snapshot()
	if len(devs) == 0 {
		b.WriteString(warnStyle.Render("no joysticks attached — plug one in"))
		b.WriteByte('\n')
		return b.String()
	}

	for _, slot := range devs {
		dev := slot.Dev
		b.WriteString(headerStyle.Render(fmt.Sprintf("joy%d  %s", slot.Index, dev.Name())))
		b.WriteString(dimStyle.Render("  " + dev.Path()))
		b.WriteByte('\n')

		for a := 0; a < dev.Axes(); a++ {
			v, _ := dev.Axis(a)
			b.WriteString(fmt.Sprintf("  axis %-2d %+6.3f %s\n", a, v, gauge(v)))
		}
		if n := dev.Buttons(); n > 0 {
			b.WriteString("  buttons ")
			for i := 0; i < n; i++ {
				pressed, _ := dev.Button(i)
				if pressed {
					b.WriteString(warnStyle.Render(fmt.Sprintf("[%d]", i)))
				} else {
					b.WriteString(dimStyle.Render(fmt.Sprintf(" %d ", i)))
				}
			}
			b.WriteByte('\n')
		}
		for h := 0; h < dev.Hats(); h++ {
			x, y, _ := dev.Hat(h)
			b.WriteString(fmt.Sprintf("  hat %-2d  x:%+d y:%+d\n", h, x, y))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// gauge renders v in [-1, 1] as a small centered bar.
func gauge(v float64) string {
	const width = 21
	pos := int((v + 1) / 2 * float64(width-1))
	if pos < 0 {
		pos = 0
	}
	if pos >= width {
		pos = width - 1
	}
	cells := []rune(strings.Repeat("·", width))
	cells[width/2] = '|'
	cells[pos] = '█'
	return lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(string(cells))
}
