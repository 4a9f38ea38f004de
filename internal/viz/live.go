package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/EvanCarter/ElectroSimulations/internal/generator"
)

const (
	canvasWidth     = 56
	canvasHeight    = 24
	historyCapacity = 600
	frameRate       = 60
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).Padding(1, 2).Width(52)
	graphStyle  = lipgloss.NewStyle().Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// LiveModel animates a rotary rig: the spinning magnet ring on a braille
// canvas next to the induced voltage of every coil. The run loops once the
// span is exhausted.
type LiveModel struct {
	stepper *generator.Stepper
	rig     *generator.RotaryRig
	coils   []generator.Coil
	palette []lipgloss.Style

	t        float64
	volts    []float64
	voltHist [][]float64
	running  bool
	speed    float64
	frame    int
	showHelp bool
}

// NewLive wraps a prepared stepper in an interactive model.
func NewLive(stepper *generator.Stepper) LiveModel {
	coils := stepper.Coils()
	hist := make([][]float64, len(coils))
	for i := range hist {
		hist[i] = make([]float64, 0, historyCapacity)
	}
	return LiveModel{
		stepper:  stepper,
		rig:      stepper.Rig(),
		coils:    coils,
		palette:  CoilPalette(len(coils)),
		volts:    make([]float64, len(coils)),
		voltHist: hist,
		running:  true,
		speed:    1.0,
	}
}

func (m LiveModel) Init() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and advances the rig.
func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.rewind()
		case "up", "k":
			m.speed = math.Min(m.speed*1.25, 16)
		case "down", "j":
			m.speed = math.Max(m.speed*0.8, 1.0/16)
		case "t":
			NextTheme()
			m.palette = CoilPalette(len(m.coils))
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		m.frame++
		return m, tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// advance runs enough samples for one frame of wall time, so the animation
// tracks the rig's real angular speed at speed 1.
func (m *LiveModel) advance() {
	steps := int(m.speed/(frameRate*m.stepper.Dt()) + 0.5)
	if steps < 1 {
		steps = 1
	}

	for i := 0; i < steps; i++ {
		t, _, volts, ok := m.stepper.Step()
		if !ok {
			m.stepper.Reset()
			t, _, volts, ok = m.stepper.Step()
			if !ok {
				return
			}
		}
		m.t = t
		copy(m.volts, volts)
	}

	for c := range m.voltHist {
		m.voltHist[c] = append(m.voltHist[c], m.volts[c])
		if len(m.voltHist[c]) > historyCapacity {
			m.voltHist[c] = m.voltHist[c][1:]
		}
	}
}

// rewind restores the run to t = 0 and clears the charts.
func (m *LiveModel) rewind() {
	m.stepper.Reset()
	m.t = 0
	m.frame = 0
	for c := range m.voltHist {
		m.voltHist[c] = m.voltHist[c][:0]
		m.volts[c] = 0
	}
}

// View renders the rotor canvas beside the stats panel.
func (m LiveModel) View() string {
	canvas := RenderRotor(m.rig, m.coils, m.t, canvasWidth, canvasHeight)
	canvasView := canvasStyle.Render(canvas.String())

	label := MetricLabel.Width(10)
	value := MetricValue.Bold(false)

	var s strings.Builder
	hue := CurrentTheme.TraceHue
	title := GradientText("ROTARY GENERATOR",
		colorful.Hsv(math.Mod(hue+20, 360), 0.7, 1),
		colorful.Hsv(math.Mod(hue+140, 360), 0.7, 1))
	s.WriteString(title + "\n")

	if m.running {
		s.WriteString(StatusRunning.Render(AnimatedSpinner(m.frame)+" RUNNING") + "\n\n")
	} else {
		s.WriteString(StatusPaused.Render("⏸ PAUSED") + "\n\n")
	}

	if len(m.voltHist) > 0 && len(m.voltHist[0]) > 1 {
		chart := asciigraph.PlotMany(m.voltHist,
			asciigraph.Height(6),
			asciigraph.Width(40),
			asciigraph.Caption("Voltage"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	rpm := m.rig.Omega * 60 / (2 * math.Pi)
	s.WriteString(label.Render("Time") + value.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(label.Render("Rotor") + value.Render(fmt.Sprintf("%.1f rpm, %d magnets", rpm, m.rig.MagnetCount)) + "\n")
	s.WriteString(label.Render("Speed") + value.Render(fmt.Sprintf("x%.2f", m.speed)) + "\n\n")

	for i, c := range m.coils {
		s.WriteString(label.Render(c.Name) + m.palette[i].Render(fmt.Sprintf("%+8.4f V", m.volts[i])) + "\n")
	}

	span := m.t / m.stepper.Duration()
	s.WriteString("\n" + ProgressBar(span, 24) + "\n")

	s.WriteString(helpStyle.Render("SP:Pause R:Rewind Q:Quit\n↑↓:Speed T:Theme ?:Help"))

	statsView := statsStyle.BorderForeground(CurrentTheme.Border).Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Rewind to t=0            ║
║  Q        - Quit                     ║
║  Up/K     - Speed up (+25%)          ║
║  Down/J   - Slow down (-20%)         ║
║  T        - Cycle color theme        ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
