package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/rileyhilliard/hop/internal/errors"
	"github.com/rileyhilliard/hop/internal/picker"
)

// rowItem implements list.Item for the Bubbles list component.
type rowItem struct {
	row    picker.Row
	header string
}

func (i rowItem) Title() string {
	return i.row.Display()
}

func (i rowItem) Description() string {
	return i.header
}

func (i rowItem) FilterValue() string {
	return i.row.FilterText()
}

// RowPickerModel is a Bubble Tea model for selecting one row from a
// filterable list. Input order is preserved; filtering narrows, it does
// not reorder.
type RowPickerModel struct {
	list     list.Model
	selected *picker.Row
	quitting bool
}

// rowPickerKeyMap defines key bindings for the row picker.
type rowPickerKeyMap struct {
	Enter key.Binding
	Quit  key.Binding
}

var rowPickerKeys = rowPickerKeyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "cancel"),
	),
}

// NewRowPickerModel creates a picker model over the given rows.
func NewRowPickerModel(rows []picker.Row, opts picker.Options) RowPickerModel {
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = rowItem{row: r, header: opts.Header}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = opts.Header != ""
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorPrimary).
		BorderForeground(ColorSecondary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorMuted)

	l := list.New(items, delegate, 0, 0)
	l.Title = opts.Prompt
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 0, 1, 0)
	l.Styles.HelpStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	return RowPickerModel{list: l}
}

// Init implements tea.Model.
func (m RowPickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m RowPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Let the list's filter input consume keys while active.
		if m.list.FilterState() != list.Filtering {
			switch {
			case key.Matches(msg, rowPickerKeys.Enter):
				if item, ok := m.list.SelectedItem().(rowItem); ok {
					row := item.row
					m.selected = &row
				}
				m.quitting = true
				return m, tea.Quit

			case key.Matches(msg, rowPickerKeys.Quit):
				m.quitting = true
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m RowPickerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View()
}

// Selected returns the chosen row, or nil if cancelled.
func (m RowPickerModel) Selected() *picker.Row {
	return m.selected
}

// RowPicker is the terminal picker.Selector. It renders rows in a
// filterable Bubble Tea list on the controlling terminal.
type RowPicker struct {
	// Output and Input default to the process terminal; tests can
	// substitute pipes.
	Output io.Writer
	Input  io.Reader
}

// Pick implements picker.Selector. Empty rows yield no selection without
// rendering anything; cancellation (esc/ctrl+c) yields no selection.
func (p *RowPicker) Pick(rows []picker.Row, opts picker.Options) (picker.Row, bool, error) {
	if len(rows) == 0 {
		return picker.Row{}, false, nil
	}

	if p.Input == nil && !term.IsTerminal(int(os.Stdin.Fd())) {
		return picker.Row{}, false, errors.New(errors.ErrUsage,
			"Interactive selection needs a terminal",
			"Run hop from a terminal, or script the selection in tests")
	}

	model := NewRowPickerModel(rows, opts)

	var teaOpts []tea.ProgramOption
	if p.Output != nil {
		teaOpts = append(teaOpts, tea.WithOutput(p.Output))
	}
	if p.Input != nil {
		teaOpts = append(teaOpts, tea.WithInput(p.Input))
	}

	finalModel, err := tea.NewProgram(model, teaOpts...).Run()
	if err != nil {
		return picker.Row{}, false, errors.WrapWithCode(err, errors.ErrUsage,
			"Selection menu failed",
			"Try running again")
	}

	if m, ok := finalModel.(RowPickerModel); ok && m.Selected() != nil {
		return *m.Selected(), true, nil
	}
	return picker.Row{}, false, nil
}
