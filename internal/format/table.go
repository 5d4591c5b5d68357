package format

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Tabular is implemented by payloads that can be printed as a table.
type Tabular interface {
	Headers() []string
	Rows() [][]string
}

var ErrNotTabular = errors.New("table output is not supported for this command (use --format json|edn)")

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// WriteTable renders v (or the Data of an Envelope) with lipgloss/table.
func WriteTable(w io.Writer, v any) error {
	if env, ok := v.(Envelope); ok {
		v = env.Data
	}
	tab, ok := v.(Tabular)
	if !ok {
		return ErrNotTabular
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(tab.Headers()...).
		Rows(tab.Rows()...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
