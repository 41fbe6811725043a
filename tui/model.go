// Package tui provides the Bubble Tea terminal UI for doclinks,
// displaying live verification progress and a styled summary of results.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lukemcguire/doclinks/checker"
	"github.com/lukemcguire/doclinks/result"
)

// ErrInterrupted is returned when the user quits before the run completes.
var ErrInterrupted = errors.New("interrupted")

// Model is the Bubble Tea model for the link check TUI.
type Model struct {
	ctx        context.Context
	cancel     context.CancelFunc
	checker    *checker.Checker
	root       string
	spinner    spinner.Model
	progressCh <-chan checker.CheckEvent

	checked  int
	broken   int
	total    int
	scanned  bool
	current  string
	quitting bool
	done     bool
	report   *result.Report
	err      error
	width    int
}

// NewModel creates a TUI model that checks root with chk and listens on
// progressCh, which must be the channel chk was created with.
func NewModel(ctx context.Context, cancel context.CancelFunc, chk *checker.Checker, root string, progressCh <-chan checker.CheckEvent) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = spinnerStyle
	return Model{
		ctx:        ctx,
		cancel:     cancel,
		checker:    chk,
		root:       root,
		spinner:    spin,
		progressCh: progressCh,
	}
}

// Init starts the spinner, the run, and the progress listener concurrently.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startCheck(), waitForProgress(m.progressCh))
}

// startCheck returns a tea.Cmd that runs the checker and sends CheckDoneMsg.
func (m Model) startCheck() tea.Cmd {
	return func() tea.Msg {
		report, err := m.checker.Run(m.ctx, m.root)
		return CheckDoneMsg{Report: report, Err: err}
	}
}

// Update handles messages from the Bubble Tea runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case LogLineMsg:
		return m, tea.Println(msg.Line)

	case CheckProgressMsg:
		if msg.Scanned {
			m.scanned = true
			m.total = msg.Total
		} else {
			m.checked = msg.Checked
			m.broken = msg.Broken
			m.current = msg.Current
		}
		return m, waitForProgress(m.progressCh)

	case CheckDoneMsg:
		m.done = true
		m.report = msg.Report
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current TUI state.
func (m Model) View() string {
	if m.done && m.report != nil {
		return RenderSummary(m.report)
	}
	if m.done && m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.quitting {
		return ""
	}

	total := "?"
	if m.scanned {
		total = fmt.Sprint(m.total)
	}
	current := m.current
	if m.width > 4 {
		current = lipgloss.NewStyle().MaxWidth(m.width - 2).Render(current)
	}
	return fmt.Sprintf("%s Checking links... checked %d/%s, broken %d\n%s\n",
		m.spinner.View(), m.checked, total, m.broken,
		dimStyle.Render("  "+current))
}

// Report returns the run report for output formatting.
func (m Model) Report() *result.Report {
	return m.report
}

// Err returns the error the run finished with. It is ErrInterrupted when
// the user quit before the run completed.
func (m Model) Err() error {
	if m.quitting && !m.done {
		return ErrInterrupted
	}
	return m.err
}
