package ui

import (
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/rileyhilliard/hop/internal/errors"
)

// ErrInterrupted reports that the operator cancelled an in-flight
// provider query with ctrl+c.
var ErrInterrupted = errors.New(errors.ErrQuery, "Interrupted", "")

// spinDoneMsg carries the work result back into the tea program.
type spinDoneMsg struct {
	err error
}

// spinModel shows a spinner with a label while the work runs elsewhere.
// cancelled distinguishes a ctrl+c quit from a completed-work quit; only
// the latter carries a result in err.
type spinModel struct {
	spinner   spinner.Model
	label     string
	done      <-chan error
	err       error
	cancelled bool
}

func newSpinModel(label string, done <-chan error) spinModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorInfo)
	return spinModel{spinner: s, label: label, done: done}
}

func (m spinModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return spinDoneMsg{err: <-m.done}
	})
}

func (m spinModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinDoneMsg:
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m spinModel) View() string {
	return m.spinner.View() + " " + m.label
}

// Spin runs fn while showing an animated spinner with the given label.
// On a non-terminal stdout it just runs fn; provider queries behave the
// same either way. A ctrl+c during the query returns ErrInterrupted, and
// never before fn has finished: fn's captures stay single-writer until
// Spin returns.
func Spin(label string, fn func() error) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fn()
	}

	done := make(chan error, 1)
	finished := make(chan struct{})
	go func() {
		done <- fn()
		close(finished)
	}()

	final, err := tea.NewProgram(newSpinModel(label, done)).Run()
	if err != nil {
		<-finished
		return err
	}

	m, ok := final.(spinModel)
	if !ok || m.cancelled {
		<-finished
		return ErrInterrupted
	}
	return m.err
}
