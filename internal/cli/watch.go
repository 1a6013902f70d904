package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/foundryflow/layoutengine/pkg/layout"
)

// attemptModel renders the solve() attempt stream live, one line per
// iteration, colored by outcome, with the terminal solution's bounds shown
// once it lands.
type attemptModel struct {
	items    <-chan layout.StreamItem
	attempts []layout.Attempt
	solution *layout.LayoutSolution
	err      error
	done     bool
}

type itemMsg layout.StreamItem
type solveDoneMsg struct{ err error }

func newAttemptModel(items <-chan layout.StreamItem) *attemptModel {
	return &attemptModel{items: items}
}

func (m *attemptModel) Init() tea.Cmd {
	return m.listen()
}

func (m *attemptModel) listen() tea.Cmd {
	return func() tea.Msg {
		item, ok := <-m.items
		if !ok {
			return solveDoneMsg{}
		}
		return itemMsg(item)
	}
}

func (m *attemptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case itemMsg:
		switch msg.Type {
		case layout.ItemAttempt:
			m.attempts = append(m.attempts, msg.Data.(layout.Attempt))
		case layout.ItemSolution:
			sol := msg.Data.(layout.LayoutSolution)
			m.solution = &sol
		}
		return m, m.listen()
	case solveDoneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}

var (
	satStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	unsatStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	unknownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

func (m *attemptModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("layoutctl solve --watch"))
	b.WriteString("\n\n")

	for _, a := range m.attempts {
		b.WriteString(fmt.Sprintf("  iter %3d  %3dx%-3d  %s\n", a.Iteration, a.Width, a.Height, styleStatus(a.Status).Render(string(a.Status))))
	}

	if m.solution != nil {
		b.WriteString("\n")
		b.WriteString(satStyle.Render(fmt.Sprintf("solved: %dx%d in %.0fms\n", m.solution.Bounds.Width, m.solution.Bounds.Height, m.solution.ElapsedMs)))
	}
	if m.done && m.solution == nil {
		b.WriteString("\n(press q to exit)\n")
	}
	return b.String()
}

func styleStatus(s layout.Status) lipgloss.Style {
	switch s {
	case layout.StatusSat:
		return satStyle
	case layout.StatusUnsat:
		return unsatStyle
	default:
		return unknownStyle
	}
}

// runWatch drives solve() through a live Bubble Tea viewer instead of
// printing the raw stream.
func runWatch(ctx context.Context, graph *layout.ProductionGraph, config layout.SolverConfig) error {
	items, errs := layout.Solve(ctx, graph, config)

	model := newAttemptModel(items)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	if _, err := program.Run(); err != nil {
		return err
	}
	return <-errs
}
