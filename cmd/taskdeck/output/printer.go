package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/domain/entity"
	"taskdeck/internal/domain/valueobject"
)

// Printer provides methods for formatted console output
type Printer struct {
	writer io.Writer
	styles *Styles
}

// Styles holds lipgloss styles for console output
type Styles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Header  lipgloss.Style
	Subtle  lipgloss.Style
	Bold    lipgloss.Style

	PriorityHigh   lipgloss.Style
	PriorityMedium lipgloss.Style
	PriorityLow    lipgloss.Style
}

// NewPrinter creates a new console printer
func NewPrinter(writer io.Writer) *Printer {
	return &Printer{
		writer: writer,
		styles: &Styles{
			Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
			Header:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true).Underline(true),
			Subtle:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			Bold:    lipgloss.NewStyle().Bold(true),

			PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
			PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D")),
			PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1D3")),
		},
	}
}

// Success confirms a completed change
func (p *Printer) Success(format string, args ...interface{}) {
	p.styled(p.styles.Success, "✓ ", format, args...)
}

// Error reports a failed command
func (p *Printer) Error(format string, args ...interface{}) {
	p.styled(p.styles.Error, "✗ ", format, args...)
}

// Warning reports something that needs the user's attention
func (p *Printer) Warning(format string, args ...interface{}) {
	p.styled(p.styles.Warning, "⚠ ", format, args...)
}

// Header prints a section title
func (p *Printer) Header(format string, args ...interface{}) {
	p.styled(p.styles.Header, "", format, args...)
}

// Subtle prints dimmed text
func (p *Printer) Subtle(format string, args ...interface{}) {
	p.styled(p.styles.Subtle, "", format, args...)
}

// Println prints unstyled text
func (p *Printer) Println(format string, args ...interface{}) {
	fmt.Fprintf(p.writer, format+"\n", args...)
}

func (p *Printer) styled(style lipgloss.Style, icon, format string, args ...interface{}) {
	fmt.Fprintln(p.writer, style.Render(icon+fmt.Sprintf(format, args...)))
}

// Tasks prints tasks as a table, or a subtle note when there are none
func (p *Printer) Tasks(tasks []entity.Task, empty string) {
	if len(tasks) == 0 {
		p.Subtle("%s", empty)
		return
	}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, TaskRow(t))
	}
	p.Table([]string{"ID", "TITLE", "STATUS", "PRIORITY", "DUE", "TAGS", "SUBTASKS"}, rows, func(col int, cell string) string {
		if col == 3 {
			return p.priorityStyle(valueobject.Priority(strings.TrimSpace(cell))).Render(cell)
		}
		return cell
	})
}

// Task prints one task in detail
func (p *Printer) Task(t entity.Task) {
	p.Header("%s", t.Title)
	p.Println("ID:       %s", t.ID)
	p.Println("Status:   %s", t.Status.Label())
	p.Println("Priority: %s", p.priorityStyle(t.Priority).Render(t.Priority.String()))
	if t.Due != "" {
		p.Println("Due:      %s", t.Due)
	}
	if len(t.Tags) > 0 {
		p.Println("Tags:     %s", strings.Join(t.Tags, ", "))
	}
	for _, st := range t.Subtasks {
		box := "[ ]"
		if st.Done {
			box = "[x]"
		}
		p.Println("  %s %s", box, st.Text)
	}
}

// TaskRow renders the table cells for a task
func TaskRow(t entity.Task) []string {
	subtasks := ""
	if done, total := t.SubtaskProgress(); total > 0 {
		subtasks = fmt.Sprintf("%d/%d", done, total)
	}
	return []string{t.ID, t.Title, t.Status.Label(), t.Priority.String(), t.Due, strings.Join(t.Tags, ","), subtasks}
}

// Table prints rows under bold headers, columns padded to the widest cell.
// decorate may style a padded cell; it can be nil.
func (p *Printer) Table(headers []string, rows [][]string, decorate func(col int, cell string) string) {
	if len(headers) == 0 || len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
		for _, row := range rows {
			if i < len(row) && len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
	}

	line := func(cells []string, render func(i int, padded string) string) string {
		parts := make([]string, len(headers))
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = render(i, padRight(cell, widths[i]))
		}
		return strings.Join(parts, "  ")
	}

	fmt.Fprintln(p.writer, line(headers, func(_ int, s string) string { return p.styles.Bold.Render(s) }))
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}
	fmt.Fprintln(p.writer, p.styles.Subtle.Render(strings.Join(rule, "  ")))
	for _, row := range rows {
		fmt.Fprintln(p.writer, line(row, func(i int, s string) string {
			if decorate != nil {
				return decorate(i, s)
			}
			return s
		}))
	}
}

func (p *Printer) priorityStyle(pr valueobject.Priority) lipgloss.Style {
	switch pr {
	case valueobject.PriorityHigh:
		return p.styles.PriorityHigh
	case valueobject.PriorityMedium:
		return p.styles.PriorityMedium
	default:
		return p.styles.PriorityLow
	}
}

// padRight pads a string to the right
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// DefaultPrinter returns a printer that writes to stdout
func DefaultPrinter() *Printer {
	return NewPrinter(os.Stdout)
}
