package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/ballistics/internal/physics"
)

const (
	canvasWidth  = 60
	canvasHeight = 18
	frameRate    = 30
)

var speeds = []float64{0.25, 0.5, 1, 2, 4, 8}

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// WatchModel replays a finished trajectory in real time.
type WatchModel struct {
	title    string
	samples  []physics.Sample
	canvas   *Canvas
	view     Viewport
	playHead float64 // fractional sample index
	speed    int     // index into speeds
	running  bool
	dt       float64
}

// NewWatchModel prepares a replay of samples recorded every dt seconds.
func NewWatchModel(title string, samples []physics.Sample, dt float64) WatchModel {
	c := NewCanvas(canvasWidth, canvasHeight)

	minX, maxX, maxY := 0.0, 0.0, 0.0
	for _, s := range samples {
		minX = math.Min(minX, s.X)
		maxX = math.Max(maxX, s.X)
		maxY = math.Max(maxY, s.Y)
	}
	if !(dt > 0) {
		dt = physics.DefaultDt
	}

	return WatchModel{
		title:   title,
		samples: samples,
		canvas:  c,
		view:    FitViewport(c, minX, maxX, 0, maxY),
		speed:   2,
		running: true,
		dt:      dt,
	}
}

func (m WatchModel) Init() tea.Cmd { return tick() }

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.playHead = 0
			m.running = true
		case "[":
			m.running = false
			m.seek(m.playHead - 1)
		case "]":
			m.running = false
			m.seek(m.playHead + 1)
		case "+", "=":
			m.speed = min(m.speed+1, len(speeds)-1)
		case "-", "_":
			m.speed = max(m.speed-1, 0)
		}
	case TickMsg:
		if m.running {
			// at 1x one frame covers 1/frameRate s of flight
			m.seek(m.playHead + speeds[m.speed]/(frameRate*m.dt))
			if m.Done() {
				m.running = false
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *WatchModel) seek(pos float64) {
	last := float64(len(m.samples) - 1)
	m.playHead = math.Max(0, math.Min(pos, last))
}

// Done reports whether the replay reached the last sample.
func (m WatchModel) Done() bool {
	return len(m.samples) == 0 || int(m.playHead) >= len(m.samples)-1
}

// Current is the sample under the play head.
func (m WatchModel) Current() physics.Sample {
	if len(m.samples) == 0 {
		return physics.Sample{}
	}
	return m.samples[int(m.playHead)]
}

func (m WatchModel) draw() {
	m.canvas.Clear()

	_, ground := m.view.Dot(0, 0)
	m.canvas.DrawLine(0, ground, m.canvas.Width*2-1, ground)

	end := int(m.playHead)
	for i := 1; i <= end && i < len(m.samples); i++ {
		a, b := m.samples[i-1], m.samples[i]
		x0, y0 := m.view.Dot(a.X, a.Y)
		x1, y1 := m.view.Dot(b.X, b.Y)
		m.canvas.DrawLine(x0, y0, x1, y1)
	}

	cur := m.Current()
	cx, cy := m.view.Dot(cur.X, cur.Y)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			m.canvas.Set(cx+dx, cy+dy)
		}
	}
}

func (m WatchModel) View() string {
	m.draw()

	status := StatusRunning.Render("PLAYING")
	switch {
	case m.Done():
		status = StatusPaused.Render("LANDED")
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}

	cur := m.Current()
	var s strings.Builder
	s.WriteString(Title.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(fmt.Sprintf("%s  %gx\n\n", status, speeds[m.speed]))
	s.WriteString(Row("time", "%.2f s", cur.Time) + "\n")
	s.WriteString(Row("x", "%.2f m", cur.X) + "\n")
	s.WriteString(Row("y", "%.2f m", cur.Y) + "\n")
	s.WriteString(Row("speed", "%.2f m/s", cur.Speed) + "\n\n")

	progress := 1.0
	if n := len(m.samples); n > 1 {
		progress = m.playHead / float64(n-1)
	}
	s.WriteString(ProgressBar(progress, 24) + "\n\n")

	if end := int(m.playHead) + 1; end > 1 {
		s.WriteString(graphStyle.Render(HeightProfile(m.samples[:end], 24, 4, "height (m)")) + "\n")
	}
	s.WriteString(KeyHint.Render("\nSP:Pause R:Restart Q:Quit\n[ ]:Step +/-:Speed"))

	canvasView := lipgloss.NewStyle().Padding(1, 2).Render(m.canvas.String())
	statsView := Panel.Width(36).Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
