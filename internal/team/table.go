package team

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/steveyegge/workup/internal/tasks"
)

// NotAssigned is shown for roster members without a parsed task.
const NotAssigned = "N/A"

var tableHeaders = []string{"Team Member", "Assigned Task"}

// Row is one line of the project table.
type Row struct {
	Member string
	Task   string
}

// Rows joins the roster with the parsed assignments. Roster members come
// first in roster order; assignees missing from the roster follow in
// assignment order.
func Rows(roster []Member, assignments *tasks.List) []Row {
	rows := make([]Row, 0, len(roster)+assignments.Len())
	seen := make(map[string]bool, len(roster))
	for _, m := range roster {
		if seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		task, ok := assignments.Get(m.Name)
		if !ok {
			task = NotAssigned
		}
		rows = append(rows, Row{Member: m.Name, Task: task})
	}
	for _, e := range assignments.Entries() {
		if seen[e.Member] {
			continue
		}
		rows = append(rows, Row{Member: e.Member, Task: e.Description})
	}
	return rows
}

// RenderTable draws rows as a bordered terminal table.
func RenderTable(rows []Row) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(tableHeaders...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range rows {
		t.Row(r.Member, r.Task)
	}
	return t.String()
}

// WriteCSV writes rows with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tableHeaders); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Member, r.Task}); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
