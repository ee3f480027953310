package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/payment-holds/internal/application"
	"github.com/bnema/payment-holds/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type vendorDoneMsg struct {
	done    int
	total   int
	outcome domain.HoldOutcome
}

type processDoneMsg struct {
	err error
}

type processSpinnerModel struct {
	spinner spinner.Model
	object  string
	run     tea.Cmd
	failed  lipgloss.Style

	done     int
	total    int
	failures int
	last     domain.HoldOutcome
	err      error
	finished bool
}

func newProcessSpinnerModel(object string, run tea.Cmd) processSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return processSpinnerModel{
		spinner: s,
		object:  object,
		run:     run,
		failed:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
}

func (m processSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m processSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case vendorDoneMsg:
		m.done = msg.done
		m.total = msg.total
		m.last = msg.outcome
		if !msg.outcome.Succeeded() {
			m.failures++
		}
		return m, nil
	case processDoneMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m processSpinnerModel) View() string {
	if m.finished {
		return ""
	}
	if m.total == 0 {
		return fmt.Sprintf("%s Applying payment holds from %s...", m.spinner.View(), m.object)
	}

	line := fmt.Sprintf("%s Vendor %d/%d", m.spinner.View(), m.done, m.total)
	if m.failures > 0 {
		line += " " + m.failed.Render(fmt.Sprintf("(%d failed)", m.failures))
	}
	return line + " last: " + m.last.VendorID
}

// runProcessSpinner drives run while a spinner counts vendor outcomes as they
// arrive through the progress callback handed to run.
func runProcessSpinner(ctx context.Context, output io.Writer, object string, run func(context.Context, application.ProgressFunc) error) error {
	var p *tea.Program
	progress := func(done, total int, outcome domain.HoldOutcome) {
		p.Send(vendorDoneMsg{done: done, total: total, outcome: outcome})
	}
	runCmd := func() tea.Msg {
		return processDoneMsg{err: run(ctx, progress)}
	}

	p = tea.NewProgram(
		newProcessSpinnerModel(object, runCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(processSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
