package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"trainerlink-go/types"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// RenderChannelTable formats the computed pulse widths per channel, the
// verification view used before plugging the trainer cable in.
func RenderChannelTable(cfg types.Config, rep types.FrameReport, devices int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("PPM Channel Output (µs)"))
	b.WriteByte('\n')
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-4s %-22s %10s", "Ch", "Source", "Pulse")))
	b.WriteByte('\n')

	for ch := 0; ch < types.ChannelCount; ch++ {
		src := "none"
		if ch < len(cfg.Channels) {
			src = cfg.Channels[ch].Source
		}
		line := fmt.Sprintf("%-4d %-22s %10d", ch, src, rep.PulsesUS[ch])
		if src == "none" {
			line = dimStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("sync %d µs", rep.SyncUS)))
	b.WriteByte('\n')

	if devices == 0 {
		b.WriteString(warnStyle.Render("no joystick detected — PPM output suppressed"))
	} else {
		b.WriteString(fmt.Sprintf("%d joystick(s) attached — emitting", devices))
	}
	return borderStyle.Render(b.String())
}
