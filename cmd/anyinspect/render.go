package main

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	inlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	boxedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	rejectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	reasonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// styled reports whether w is a terminal that should get colors.
func styled(w io.Writer) bool {
	if flagPlain {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func storageStyle(storage string) lipgloss.Style {
	switch storage {
	case "inline":
		return inlineStyle
	case "boxed":
		return boxedStyle
	default:
		return rejectedStyle
	}
}

// widths returns the display width of each column.
func widths(rows []row) []int {
	w := make([]int, len(columns))
	for i, c := range columns {
		w[i] = lipgloss.Width(c)
	}
	for _, r := range rows {
		for i, c := range r.cells() {
			if n := lipgloss.Width(c); n > w[i] {
				w[i] = n
			}
		}
	}
	return w
}

// render lays out rows as an aligned table. Styling adds colors only; the
// text is the same either way.
func render(rows []row, color bool) string {
	w := widths(rows)

	line := func(cells []string, style func(col int) lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			s := lipgloss.NewStyle().Width(w[i])
			if color {
				s = style(i).Width(w[i])
			}
			parts[i] = s.Render(c)
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	var b strings.Builder
	b.WriteString(line(columns, func(int) lipgloss.Style { return headerStyle }))
	for _, r := range rows {
		b.WriteByte('\n')
		b.WriteString(line(r.cells(), func(col int) lipgloss.Style {
			switch columns[col] {
			case "STORAGE":
				return storageStyle(r.Storage)
			case "REASON":
				return reasonStyle
			default:
				return lipgloss.NewStyle()
			}
		}))
	}
	return b.String()
}
