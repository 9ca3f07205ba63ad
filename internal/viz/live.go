// Package viz renders a running galaxy in the terminal: an ASCII
// projection of the disk, live statistics, and a temperature history
// chart.
package viz

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/r-ferrin/galaxia/internal/cluster"
	"github.com/r-ferrin/galaxia/internal/diversity"
	"github.com/r-ferrin/galaxia/internal/dynamics"
	"github.com/r-ferrin/galaxia/internal/particle"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 600
	worldScale      = 1200.0
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model drives the live view: it owns the engine and steps it on every
// tick.
type Model struct {
	store   *particle.Store
	engine  *dynamics.Engine
	control *diversity.Controller
	canvas  *Canvas

	dt          float64
	linkRadius  float64
	running     bool
	clusters    int
	tempHistory []float64
	lumHistory  []float64
}

type Options struct {
	Neurons int
	Photons int
	Dt      float64
	Seed    int64

	Dynamics  dynamics.Params
	Diversity diversity.Params

	DiversityEnabled bool
}

func NewModel(opts Options) Model {
	store := particle.NewStore(opts.Neurons, opts.Photons, rand.New(rand.NewSource(opts.Seed)))

	var control *diversity.Controller
	if opts.DiversityEnabled {
		control = diversity.New(opts.Diversity)
	}

	return Model{
		store:       store,
		engine:      dynamics.New(store, opts.Dynamics),
		control:     control,
		canvas:      NewCanvas(canvasWidth, canvasHeight, worldScale),
		dt:          opts.Dt,
		linkRadius:  opts.Dynamics.ConnectionRadius,
		running:     true,
		tempHistory: make([]float64, 0, historyCapacity),
		lumHistory:  make([]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
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
			m.tempHistory = m.tempHistory[:0]
			m.lumHistory = m.lumHistory[:0]
		}
		return m, nil

	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.engine.Step(m.dt)
	clusters := cluster.Find(m.store, m.linkRadius)
	m.clusters = len(clusters)

	if m.control != nil {
		m.control.Update(m.store, cluster.Memberships(clusters), m.dt)
	}

	stats := m.engine.Stats()
	m.tempHistory = append(m.tempHistory, stats.MeanTemperature)
	if len(m.tempHistory) > historyCapacity {
		m.tempHistory = m.tempHistory[1:]
	}
	m.lumHistory = append(m.lumHistory, stats.MeanLuminosity)
	if len(m.lumHistory) > historyCapacity {
		m.lumHistory = m.lumHistory[1:]
	}
}

func (m Model) View() string {
	m.canvas.Plot(m.store.Neurons)
	canvasView := canvasStyle.Render(m.canvas.String())

	stats := m.engine.Stats()
	var b strings.Builder
	b.WriteString(headerStyle.Render("galaxia"))
	b.WriteByte('\n')
	row(&b, "frame", fmt.Sprintf("%d", m.engine.Frame()))
	row(&b, "time", fmt.Sprintf("%.2fs", m.engine.Time()))
	row(&b, "neurons", fmt.Sprintf("%d", len(m.store.Neurons)))
	row(&b, "photons", fmt.Sprintf("%d/%d", stats.ActivePhotons, len(m.store.Photons)))
	row(&b, "clusters", fmt.Sprintf("%d", m.clusters))
	row(&b, "mean temp", fmt.Sprintf("%.0fK", stats.MeanTemperature))
	row(&b, "mean lum", fmt.Sprintf("%.2f", stats.MeanLuminosity))
	row(&b, "connections", fmt.Sprintf("%.1f", stats.MeanConnections))
	if m.control != nil {
		row(&b, "annealing", fmt.Sprintf("%.1f", m.control.Temperature()))
	}

	if len(m.tempHistory) > 1 {
		chart := asciigraph.Plot(m.tempHistory,
			asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("mean temperature"))
		b.WriteString(graphStyle.Render(chart))
	}
	if len(m.lumHistory) > 1 {
		chart := asciigraph.Plot(m.lumHistory,
			asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("mean luminosity"))
		b.WriteString(graphStyle.Render(chart))
	}

	b.WriteString(helpStyle.Render("space pause · r reset chart · q quit"))
	statsView := statsStyle.Render(b.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

func row(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(label))
	b.WriteString(valueStyle.Render(value))
	b.WriteByte('\n')
}

// Run starts the live view and blocks until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
