// Package tui is an interactive terminal explorer: sweep the mass ratio
// across the trained interval and watch the waveform respond.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"gwsurr/internal/surrogate"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

type model struct {
	sur  *surrogate.MultiMode
	q    float64
	step float64

	plot     string
	warnings []string
	err      error

	width  int
	height int
}

// NewExplorer builds the bubbletea program around a loaded surrogate.
func NewExplorer(sur *surrogate.MultiMode) *tea.Program {
	interval := sur.FitInterval()
	m := &model{
		sur:    sur,
		q:      0.5 * (interval[0] + interval[1]),
		step:   (interval[1] - interval[0]) / 20,
		width:  80,
		height: 24,
	}
	m.evaluate()
	return tea.NewProgram(m)
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.evaluate()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.q -= m.step
			m.evaluate()
		case "right", "l":
			m.q += m.step
			m.evaluate()
		case "up", "k":
			m.step *= 2
		case "down", "j":
			m.step /= 2
		}
	}
	return m, nil
}

func (m *model) evaluate() {
	wf, err := m.sur.Evaluate(m.q, surrogate.MultiOpts{})
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.warnings = wf.Warnings

	width := m.width - 12
	if width < 20 {
		width = 20
	}
	height := m.height - 8
	if height < 5 {
		height = 5
	}
	m.plot = asciigraph.Plot(downsample(wf.HPlus, width),
		asciigraph.Height(height), asciigraph.Width(width))
}

func (m *model) View() string {
	var b strings.Builder

	interval := m.sur.FitInterval()
	b.WriteString(cyan.Render("surrogate explorer"))
	b.WriteString(dim.Render(fmt.Sprintf("  trained on q in [%g, %g]\n\n", interval[0], interval[1])))
	b.WriteString(fmt.Sprintf("  q = %.4f   step = %.4f\n\n", m.q, m.step))

	if m.err != nil {
		b.WriteString(yellow.Render("  " + m.err.Error() + "\n"))
		return b.String()
	}

	b.WriteString(m.plot)
	b.WriteString("\n")
	for _, w := range m.warnings {
		b.WriteString(yellow.Render("  ! " + w + "\n"))
	}
	b.WriteString(dim.Render("\n  left/right: sweep q   up/down: step size   q: quit\n"))
	return b.String()
}

func downsample(data []float64, width int) []float64 {
	if len(data) <= width {
		return data
	}
	out := make([]float64, width)
	for i := range out {
		out[i] = data[i*len(data)/width]
	}
	return out
}
