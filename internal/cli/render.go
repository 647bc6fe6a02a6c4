package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/vector76/todo/internal/model"
)

const (
	defaultWidth     = 80
	minDescWidth     = 20
	fixedColumnWidth = 50 // status, id, priority and file columns plus borders
	detailTimeLayout = "2006-01-02 15:04"
)

// styles renders output for one writer. Colors are dropped automatically when
// the writer is not a terminal.
type styles struct {
	bold    lipgloss.Style
	dim     lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	danger  lipgloss.Style
	accent  lipgloss.Style
	link    lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	panel   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		bold:    r.NewStyle().Bold(true),
		dim:     r.NewStyle().Faint(true),
		success: r.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("3")),
		danger:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		accent:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		link:    r.NewStyle().Underline(true).Foreground(lipgloss.Color("4")),
		header:  r.NewStyle().Bold(true).Padding(0, 1),
		cell:    r.NewStyle().Padding(0, 1),
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("4")).
			Padding(0, 1),
	}
}

func (s styles) priority(p model.Priority) lipgloss.Style {
	switch p {
	case model.PriorityHigh:
		return s.danger.UnsetBold()
	case model.PriorityMedium:
		return s.warn
	default:
		return s.success.UnsetBold()
	}
}

func (s styles) status(st model.Status) lipgloss.Style {
	if st == model.StatusCompleted {
		return s.success.UnsetBold()
	}
	return s.warn
}

func priorityIcon(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "🔴"
	case model.PriorityMedium:
		return "🟡"
	default:
		return "🟢"
	}
}

// terminalWidth returns the width of w when it is a terminal, otherwise
// defaultWidth.
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultWidth
}

// descriptionWidth returns how many characters of a description fit in a list
// row for the given total width.
func descriptionWidth(total int) int {
	return max(minDescWidth, total-fixedColumnWidth)
}

// truncate shortens s to at most width runes, ending in "..." when cut.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// renderTable draws the todo list table. Todos must already be sorted.
func renderTable(st styles, todos []model.Todo, descWidth int) string {
	rows := make([][]string, len(todos))
	for i, t := range todos {
		mark := " "
		if t.Completed() {
			mark = "✓"
		}
		rows[i] = []string{
			mark,
			t.ID,
			truncate(t.Description, descWidth),
			st.priority(t.Priority).Render(priorityIcon(t.Priority) + " " + string(t.Priority)),
			t.FilePath,
		}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.dim).
		Headers("Status", "ID", "Description", "Priority", "File").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return st.header
			case col == 0:
				return st.cell.Inherit(st.bold)
			case col == 1:
				return st.cell.Inherit(st.dim)
			}
			return st.cell
		}).
		Render()
}

// renderDetail draws the bordered detail panel for one todo.
func renderDetail(st styles, t model.Todo) string {
	lines := []string{
		st.accent.Render("Todo Details"),
		"",
		st.dim.Render("ID: " + t.ID),
		st.bold.Render("Description: " + t.Description),
		st.status(t.Status).Render("Status: " + string(t.Status)),
		st.priority(t.Priority).Render("Priority: " + string(t.Priority)),
	}
	if t.FilePath != "" {
		lines = append(lines, st.link.Render("File: "+t.FilePath))
	}
	lines = append(lines, "Created: "+t.CreatedAt.Local().Format(detailTimeLayout))
	if t.CompletedAt != nil {
		lines = append(lines, st.success.UnsetBold().Render("Completed: "+t.CompletedAt.Local().Format(detailTimeLayout)))
	}
	return st.panel.Render(strings.Join(lines, "\n"))
}
