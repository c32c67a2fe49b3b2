package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/sim"
)

const (
	defaultCols     = 60
	defaultRows     = 22
	minCols         = 20
	minRows         = 8
	panelWidth      = 45
	canvasPadX      = 2
	canvasPadY      = 1
	historyCapacity = 300
	bobRadiusPx     = 25
)

type TickMsg time.Time

// Model is the Bubble Tea model wrapping one simulator.
type Model struct {
	sim    *sim.Simulator
	params sim.Params
	title  string
	canvas *Canvas

	pointer dynamo.Vec2
	pressed bool
	pending sim.Command
	paused  bool

	last     sim.RenderState
	thetas   []float64
	energies []float64
	theme    int
}

func NewModel(s *sim.Simulator, title string) Model {
	return Model{
		sim:      s,
		params:   s.Params(),
		title:    title,
		canvas:   NewCanvas(defaultCols, defaultRows),
		pointer:  dynamo.Vec2{X: -1e4, Y: -1e4},
		last:     s.Render(),
		thetas:   make([]float64, 0, historyCapacity),
		energies: make([]float64, 0, historyCapacity),
	}
}

// Run starts the terminal host and blocks until the user quits.
func Run(s *sim.Simulator, title string) error {
	p := tea.NewProgram(NewModel(s, title), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.params.FrameRate), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.pending = sim.CommandReset
		case " ", "space":
			m.togglePause()
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		}

	case tea.WindowSizeMsg:
		cols := max(minCols, msg.Width-panelWidth-2*canvasPadX-1)
		rows := max(minRows, msg.Height-2*canvasPadY)
		m.canvas = NewCanvas(cols, rows)

	case tea.MouseMsg:
		m.pointer = m.toWorld(msg.X, msg.Y)
		switch msg.Action {
		case tea.MouseActionPress:
			if msg.Button == tea.MouseButtonLeft {
				m.pressed = true
				if m.last.ResetHit(m.pointer) {
					m.pending = sim.CommandReset
				}
			}
		case tea.MouseActionRelease:
			m.pressed = false
		}

	case TickMsg:
		m.step()
		return m, m.tick()
	}

	return m, nil
}

// togglePause flips the pause state. On resume the simulator forgets the
// pointer travel made while paused.
func (m *Model) togglePause() {
	m.paused = !m.paused
	if !m.paused {
		m.sim.Resync()
	}
}

// step advances one frame. A pending reset is honoured while paused.
func (m *Model) step() {
	if m.paused && m.pending != sim.CommandReset {
		return
	}

	rs := m.sim.Step(sim.Input{Pointer: m.pointer, Pressed: m.pressed, Command: m.pending})
	m.pending = sim.CommandNone
	m.last = rs

	m.thetas = appendCapped(m.thetas, rs.Theta)
	m.energies = appendCapped(m.energies, rs.Energy)
}

func appendCapped(h []float64, v float64) []float64 {
	if len(h) >= historyCapacity {
		h = h[1:]
	}
	return append(h, v)
}

// toWorld maps a terminal cell to world pixels, using the cell centre.
func (m Model) toWorld(x, y int) dynamo.Vec2 {
	cx := float64(x-canvasPadX) + 0.5
	cy := float64(y-canvasPadY) + 0.5
	return dynamo.Vec2{
		X: cx / float64(m.canvas.Width) * m.params.Width,
		Y: cy / float64(m.canvas.Height) * m.params.Height,
	}
}

// toDots maps world pixels to canvas dots.
func (m Model) toDots(p dynamo.Vec2) (int, int) {
	x := p.X / m.params.Width * float64(m.canvas.SubWidth())
	y := p.Y / m.params.Height * float64(m.canvas.SubHeight())
	return int(math.Floor(x)), int(math.Floor(y))
}

func (m Model) rect(r dynamo.Rect) (int, int, int, int) {
	x0, y0 := m.toDots(dynamo.Vec2{X: r.X, Y: r.Y})
	x1, y1 := m.toDots(dynamo.Vec2{X: r.X + r.W, Y: r.Y + r.H})
	return x0, y0, x1, y1
}

func (m Model) draw() {
	rs := m.last
	c := m.canvas
	c.Clear()

	sx, sy := m.toDots(rs.RailStart)
	ex, ey := m.toDots(rs.RailEnd)
	c.DrawLine(sx, sy, ex, ey)
	c.DrawLine(sx, sy-2, sx, sy+2)
	c.DrawLine(ex, ey-2, ex, ey+2)

	c.DrawRect(m.rect(rs.Slider))

	px, py := m.toDots(rs.Pivot)
	bx, by := m.toDots(rs.Bob)
	c.DrawLine(px, py, bx, by)
	c.FillCircle(px, py, 1)

	r := max(1, int(bobRadiusPx/m.params.Width*float64(c.SubWidth())))
	if rs.Mode == sim.ModeDraggingBob {
		c.FillCircle(bx, by, r)
	} else {
		c.DrawCircle(bx, by, r)
	}

	if rs.Reset != nil {
		c.DrawRect(m.rect(rs.Reset.Rect))
	}
	if ds := rs.DampingSlider; ds != nil {
		c.DrawRect(m.rect(ds.Track))
		kx, ky := m.toDots(ds.Knob)
		c.FillRect(kx-1, ky-2, kx+1, ky+2)
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	theme := Themes[m.theme]
	rs := m.last

	m.draw()
	canvasView := theme.canvas().Render(m.canvas.String())

	label, value := theme.label(), theme.value()
	row := func(name, v string) string {
		return label.Render(name) + value.Render(v) + "\n"
	}

	var s strings.Builder
	s.WriteString(theme.header().Render(strings.ToUpper(m.title)) + "\n")

	status := "RUNNING"
	if m.paused {
		status = "PAUSED"
	}
	s.WriteString(theme.status(m.paused).Render(status) + "\n\n")

	s.WriteString(row("Mode", rs.Mode.String()))
	s.WriteString(row("Time", fmt.Sprintf("%.2fs", rs.Time)))
	s.WriteString(row("Theta", fmt.Sprintf("%.1f°", rs.Theta*180/math.Pi)))
	s.WriteString(row("Omega", fmt.Sprintf("%.3f rad/s", rs.Omega)))
	s.WriteString(row("Energy", fmt.Sprintf("%.4f J", rs.Energy)))
	s.WriteString(row("Damping", fmt.Sprintf("%.4f", rs.Damping)))
	s.WriteString(row("Pointer", fmt.Sprintf("%.0f px/s", rs.PointerVel.Len())))
	if rs.Mode == sim.ModeDraggingPivot {
		s.WriteString(row("Pivot a", fmt.Sprintf("%.2f m/s²", rs.PivotAccel)))
	}
	if ds := rs.DampingSlider; ds != nil {
		s.WriteString(label.Render("") + ProgressBar((ds.Value-ds.Min)/(ds.Max-ds.Min), 20) + "\n")
	}

	if len(m.energies) > 1 {
		s.WriteString("\n" + label.Render("E(t)") + SparklineChart(m.energies, 30) + "\n")
	}
	if len(m.thetas) > 1 {
		chart := asciigraph.Plot(m.thetas, asciigraph.Height(5), asciigraph.Width(24), asciigraph.Caption("theta (rad)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(theme.help().Render("SPC:Pause R:Reset T:Theme Q:Quit\nDrag the bob or the pivot slider"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}
