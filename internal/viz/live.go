package viz

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/nbody/internal/universe"
)

const historyCapacity = 600

// Options configures the live view. Zero fields take defaults.
type Options struct {
	Dt            float64
	Duration      float64
	Width, Height int // canvas size in cells
	FPS           int
	StepsPerFrame int
	TrailLength   int
	Glyphs        GlyphResolver
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 80
	}
	if o.Height <= 0 {
		o.Height = 40
	}
	if o.FPS <= 0 {
		o.FPS = 30
	}
	if o.StepsPerFrame <= 0 {
		o.StepsPerFrame = 1
	}
	if o.TrailLength <= 0 {
		o.TrailLength = 200
	}
	if o.Glyphs == nil {
		o.Glyphs = DefaultGlyphs()
	}
	return o
}

type TickMsg time.Time

// Model drives a universe forward one frame at a time and renders it. The
// universe is advanced in place, so after the program exits it holds the
// final state.
type Model struct {
	u          *universe.Universe
	opts       Options
	steps      int
	t          float64
	canvas     *Canvas
	proj       Projection
	trails     [][]r2.Vec
	e0         float64
	drift      []float64
	running    bool
	done       bool
	showTrails bool
	showHelp   bool
}

func NewModel(u *universe.Universe, opts Options) Model {
	opts = opts.withDefaults()
	c := NewCanvas(opts.Width, opts.Height)
	m := Model{
		u:          u,
		opts:       opts,
		canvas:     c,
		proj:       NewProjection(c.SubWidth(), c.SubHeight(), u.Radius()),
		trails:     make([][]r2.Vec, u.Len()),
		e0:         u.Energy(),
		drift:      make([]float64, 0, historyCapacity),
		running:    true,
		showTrails: true,
	}
	m.done = !(m.t < opts.Duration)
	return m
}

// Elapsed reports simulated time in seconds.
func (m Model) Elapsed() float64 { return m.t }

// Steps reports how many steps have been applied.
func (m Model) Steps() int { return m.steps }

// Done reports whether the requested duration has been reached.
func (m Model) Done() bool { return m.done }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	if m.done {
		return tea.Quit
	}
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "space":
			m.running = !m.running
		case "+", "=":
			m.opts.StepsPerFrame *= 2
		case "-", "_":
			if m.opts.StepsPerFrame > 1 {
				m.opts.StepsPerFrame /= 2
			}
		case "t":
			m.showTrails = !m.showTrails
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && !m.done {
			m.advance()
		}
		if m.done {
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

// advance applies up to StepsPerFrame steps without passing the duration.
func (m *Model) advance() {
	for k := 0; k < m.opts.StepsPerFrame && m.t < m.opts.Duration; k++ {
		m.u.Step(m.opts.Dt)
		m.steps++
		m.t = float64(m.steps) * m.opts.Dt
		m.record()
	}
	m.done = !(m.t < m.opts.Duration)
	m.sampleEnergy()
}

func (m *Model) record() {
	if len(m.trails) != m.u.Len() {
		m.trails = make([][]r2.Vec, m.u.Len())
	}
	for i := range m.trails {
		m.trails[i] = append(m.trails[i], m.u.At(i).Position())
		if over := len(m.trails[i]) - m.opts.TrailLength; over > 0 {
			m.trails[i] = m.trails[i][over:]
		}
	}
}

func (m *Model) sampleEnergy() {
	d := 0.0
	if m.e0 != 0 {
		d = (m.u.Energy() - m.e0) / math.Abs(m.e0)
	}
	m.drift = append(m.drift, d)
	if len(m.drift) > historyCapacity {
		m.drift = m.drift[1:]
	}
}

func (m Model) status() string {
	switch {
	case m.done:
		return statusDone.Render("DONE")
	case !m.running:
		return statusPaused.Render("PAUSED")
	}
	return statusRunning.Render("RUNNING")
}

// View renders the universe beside a stats panel.
func (m Model) View() string {
	var trails [][]r2.Vec
	if m.showTrails {
		trails = m.trails
	}
	DrawFrame(m.canvas, m.proj, m.u.Bodies(), trails, m.opts.Glyphs)
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render("N-BODY") + "\n")
	s.WriteString(m.status() + "\n\n")
	s.WriteString(labelStyle.Render("Elapsed Time") + valueStyle.Render(fmt.Sprintf("%.2f s", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Duration") + valueStyle.Render(fmt.Sprintf("%.2f s", m.opts.Duration)) + "\n")
	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d (x%d/frame)", m.steps, m.opts.StepsPerFrame)) + "\n")
	s.WriteString(labelStyle.Render("dt") + valueStyle.Render(fmt.Sprintf("%g s", m.opts.Dt)) + "\n")
	s.WriteString(labelStyle.Render("Scale") + valueStyle.Render(fmt.Sprintf("%.3g px/m", m.proj.Scale)) + "\n")
	if len(m.drift) > 1 {
		chart := asciigraph.Plot(m.drift, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy drift"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString("\nBODIES\n")
	for i := 0; i < m.u.Len(); i++ {
		b := m.u.At(i)
		tag := b.Tag()
		if tag == "" {
			tag = fmt.Sprintf("#%d", i)
		}
		line := fmt.Sprintf("%c %-10s %.3g m", glyphFor(m.opts.Glyphs, b.Tag()), tag, r2.Norm(b.Position()))
		s.WriteString("  " + valueStyle.Render(line) + "\n")
	}
	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause T:Trails Q:Quit\n+/-:Speed ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  +        - Double steps per frame   ║
║  -        - Halve steps per frame    ║
║  T        - Toggle trails            ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run shows u in the terminal until the duration is reached, the user quits
// or ctx is cancelled. u is left in whatever state the view reached.
func Run(ctx context.Context, u *universe.Universe, opts Options) (Model, error) {
	p := tea.NewProgram(NewModel(u, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	m, _ := final.(Model)
	return m, err
}
