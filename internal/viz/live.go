package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fcell/internal/ode"
)

const (
	graphWidth      = 70
	graphHeight     = 8
	historyCapacity = 600
	stepsPerFrame   = 10
)

// Cell is what the live view needs from a model: stepping, live
// parameter tuning and the derived electrical quantities.
type Cell interface {
	ode.System
	GetParams() map[string]float64
	SetParam(name string, value float64) error
	CellVoltage(y ode.State) float64
	Power(y ode.State) float64
}

type TickMsg time.Time

// Model drives the live relaxation view: the cell is stepped a few
// times per frame and the double-layer potentials are plotted as they
// approach steady state.
type Model struct {
	cell       Cell
	integrator ode.Integrator
	state      ode.State
	t, dt      float64

	running      bool
	histories    [][]float64
	voltHistory  []float64
	initialState ode.State

	params    map[string]float64
	paramKeys []string
	selected  int
}

// NewModel sizes the view to the cell's state dimension. A short or
// long initState is copied component-wise, never trusted for length.
func NewModel(c Cell, integ ode.Integrator, initState []float64, dt float64) Model {
	dim := c.StateDim()
	x0 := make(ode.State, dim)
	copy(x0, initState)

	params := c.GetParams()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	histories := make([][]float64, dim)
	for i := range histories {
		histories[i] = make([]float64, 0, historyCapacity)
	}

	return Model{
		cell:         c,
		integrator:   integ,
		state:        x0.Clone(),
		dt:           dt,
		running:      true,
		histories:    histories,
		voltHistory:  make([]float64, 0, historyCapacity),
		initialState: x0.Clone(),
		params:       params,
		paramKeys:    keys,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		}
		return m, nil

	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}

	return m, nil
}

func (m *Model) step() {
	for i := 0; i < stepsPerFrame; i++ {
		next := m.integrator.Step(m.cell, m.state, m.t, m.dt)
		if !next.IsValid() {
			m.running = false
			return
		}
		m.state = next
		m.t += m.dt
	}

	for i := range m.histories {
		m.histories[i] = appendCapped(m.histories[i], m.state[i])
	}
	m.voltHistory = appendCapped(m.voltHistory, m.cell.CellVoltage(m.state))
}

func appendCapped(hist []float64, v float64) []float64 {
	hist = append(hist, v)
	if len(hist) > historyCapacity {
		hist = hist[1:]
	}
	return hist
}

func (m *Model) reset() {
	m.state = m.initialState.Clone()
	m.t = 0
	for i := range m.histories {
		m.histories[i] = m.histories[i][:0]
	}
	m.voltHistory = m.voltHistory[:0]
	m.running = true
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.params[key] * factor
	if val == 0 {
		val = 1e-6
	}
	if err := m.cell.SetParam(key, val); err == nil {
		m.params[key] = val
	}
}

func (m Model) caption(i int) string {
	if m.cell.StateDim() == 2 {
		if i == 0 {
			return "anode Δφ (V)"
		}
		return "cathode Δφ (V)"
	}
	return "Δφ (V)"
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("fcell live: double-layer relaxation"))
	b.WriteString("\n")

	graphs := m.renderGraphs()
	stats := m.renderStats()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, graphs, stats))

	b.WriteString(helpStyle.Render("space pause · r reset · tab param · ↑/↓ adjust · q quit"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderGraphs() string {
	if len(m.histories[0]) < 2 {
		return graphStyle.Render("collecting samples...")
	}

	plots := make([]string, 0, len(m.histories))
	for i, hist := range m.histories {
		plots = append(plots, asciigraph.Plot(hist,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption(m.caption(i)),
		))
	}

	return graphStyle.Render(strings.Join(plots, "\n\n"))
}

func (m Model) renderStats() string {
	var b strings.Builder

	status := "running"
	if !m.running {
		status = "paused"
	}

	type statRow struct {
		label string
		value string
	}
	rows := []statRow{
		{"status", status},
		{"t", fmt.Sprintf("%.2f s", m.t)},
	}
	for i := range m.state {
		rows = append(rows, statRow{m.caption(i), fmt.Sprintf("%.5f V", m.state[i])})
	}
	rows = append(rows,
		statRow{"cell voltage", fmt.Sprintf("%.5f V", m.cell.CellVoltage(m.state))},
		statRow{"power", fmt.Sprintf("%.3f W", m.cell.Power(m.state))},
	)

	for _, row := range rows {
		b.WriteString(labelStyle.Render(row.label))
		b.WriteString(valueStyle.Render(row.value))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("parameters"))
	b.WriteString("\n")

	for i, key := range m.paramKeys {
		line := fmt.Sprintf("%-8s %.4g", key, m.params[key])
		if i == m.selected {
			b.WriteString(activeParamStyle.Render("> " + line))
		} else {
			b.WriteString(valueStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	return statsStyle.Render(b.String())
}
