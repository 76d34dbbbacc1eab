package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/ballistics/internal/present"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(16)

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	Warning = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffaa00"))

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))

	barHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	barMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	barLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// Row renders one label/value line.
func Row(label string, format string, args ...any) string {
	return MetricLabel.Render(label) + MetricValue.Render(fmt.Sprintf(format, args...))
}

// RenderSummary renders the headline numbers of a trajectory.
func RenderSummary(t *present.Trajectory) string {
	var b strings.Builder
	b.WriteString(Title.Render(strings.ToUpper(t.Material.Name)))
	if t.Integrator != "" {
		b.WriteString(Subtle.Render("  " + t.Integrator))
	}
	b.WriteString("\n\n")

	s := t.Summary
	lines := []string{
		Row("max height", "%.3f m", s.MaxHeight),
		Row("range", "%.3f m", s.Range),
		Row("flight time", "%.3f s", s.FlightTime),
		Row("landing speed", "%.3f m/s", s.LandingVelocity.Speed),
		Row("steps", "%d", s.Steps),
		"",
		Row("impact force", "%.2f N", t.Impact.Force),
		Row("impact energy", "%.2f J", t.Impact.KineticEnergy),
		Row("impact angle", "%.2f°", t.Impact.Angle),
		Row("contact", "%.2f ms on %s", t.Impact.ContactTimeMs, t.Impact.Surface),
	}
	b.WriteString(strings.Join(lines, "\n"))

	if len(t.Metrics) > 0 {
		names := make([]string, 0, len(t.Metrics))
		for name := range t.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		b.WriteString("\n\n")
		for _, name := range names {
			b.WriteString(Row(name, "%.4f", t.Metrics[name]) + "\n")
		}
	}

	if s.Truncated {
		b.WriteString("\n" + Warning.Render("stopped at the time limit before landing"))
	}
	return Panel.Render(strings.TrimRight(b.String(), "\n"))
}

// ProgressBar renders fraction in [0, 1] as a bar of the given width.
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	filled = max(0, min(filled, width))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case fraction > 0.8:
		return barHigh.Render(bar)
	case fraction > 0.4:
		return barMid.Render(bar)
	}
	return barLow.Render(bar)
}
