package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browseModel struct {
	rows  []row
	table table.Model
}

func newBrowseModel(rows []row) *browseModel {
	w := widths(rows)
	// the reason column is shown below the table
	cols := make([]table.Column, 0, len(columns)-1)
	for i, c := range columns[:len(columns)-1] {
		cols = append(cols, table.Column{Title: c, Width: w[i]})
	}

	trows := make([]table.Row, len(rows))
	for i, r := range rows {
		cells := r.cells()
		trows[i] = table.Row(cells[:len(cells)-1])
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(trows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows), 15)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4"))
	t.SetStyles(s)

	return &browseModel{rows: rows, table: t}
}

func (m *browseModel) Init() tea.Cmd {
	return nil
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *browseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("smallany storage"))
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n\n")

	if r, ok := m.selected(); ok {
		b.WriteString(storageStyle(r.Storage).Render(r.Storage))
		if r.Reason != "" {
			b.WriteString(": ")
			b.WriteString(r.Reason)
		}
		b.WriteString("\n\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ select • q quit"))
	return b.String()
}

func (m *browseModel) selected() (row, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return row{}, false
	}
	return m.rows[i], true
}

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the sample catalog interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := catalogRows(builtinSamples())
			if err != nil {
				return err
			}
			p := tea.NewProgram(newBrowseModel(rows))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("browse: %w", err)
			}
			return nil
		},
	}
}
