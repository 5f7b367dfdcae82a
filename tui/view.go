package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/application/notice"
	"taskdeck/internal/domain/entity"
	"taskdeck/internal/domain/valueobject"
	"taskdeck/tui/style"
)

// cardHeight is the rendered height of one task card, borders included
const cardHeight = 5

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var body string
	switch m.mode {
	case modeModal:
		body = lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center, m.renderModal())
	case modeTrash:
		body = lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Top, m.renderTrash())
	default:
		body = m.renderBoard()
	}

	parts := []string{m.renderHeader(), body}
	if notices := m.renderNotices(); notices != "" {
		parts = append(parts, notices)
	}
	parts = append(parts, m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString(style.ColumnTitleStyle.Render("Taskdeck"))
	if m.loading {
		b.WriteString(style.MutedStyle.Render("  loading…"))
	}
	if m.mode == modeSearch {
		b.WriteString("  " + m.searchInput.View())
	} else if m.search != "" {
		b.WriteString(style.MutedStyle.Render(fmt.Sprintf("  search: %q", m.search)))
	}
	if m.priorityFilter != valueobject.FilterAll {
		b.WriteString(style.MutedStyle.Render("  priority: " + m.priorityFilter.String()))
	}
	return b.String()
}

func (m Model) renderBoard() string {
	statuses := valueobject.Statuses()
	numColumns := len(statuses)

	// Each column has 2 border chars + 4 padding + 2 margin
	columnWidth := (m.width - numColumns*8) / numColumns
	if columnWidth < 20 {
		columnWidth = 20
	}

	cols := m.columns()
	rendered := make([]string, 0, numColumns)
	for i, status := range statuses {
		rendered = append(rendered, m.renderColumn(i, status, cols.For(status), columnWidth))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// renderColumn renders a single column with scrolling support
func (m Model) renderColumn(colIndex int, status valueobject.Status, tasks []entity.Task, width int) string {
	isFocused := colIndex == m.focusedColumn
	isDropTarget := m.draggedID != "" && colIndex == m.dropColumn

	title := style.ColumnTitleStyle.Width(width).Render(fmt.Sprintf("%s (%d)", status.Label(), len(tasks)))

	maxVisible := m.visibleCards()
	start := m.scrollOffsets[colIndex]
	if start > len(tasks) {
		start = 0
	}
	end := start + maxVisible
	if end > len(tasks) {
		end = len(tasks)
	}

	var cards []string
	if start > 0 {
		cards = append(cards, style.MutedStyle.Width(width).Align(lipgloss.Center).Render("▲ more above ▲"))
	}
	for i := start; i < end; i++ {
		t := tasks[i]
		selected := isFocused && i == m.focusedTask && m.draggedID == ""
		cards = append(cards, m.renderTaskCard(t, width, selected, t.ID == m.draggedID))
	}
	if end < len(tasks) {
		cards = append(cards, style.MutedStyle.Width(width).Align(lipgloss.Center).Render("▼ more below ▼"))
	}
	if len(tasks) == 0 {
		cards = append(cards, style.MutedStyle.Width(width).Render("(empty)"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, "", strings.Join(cards, "\n"))

	height := m.height - 6
	switch {
	case isDropTarget:
		return style.DropTargetStyle.Height(height).Render(content)
	case isFocused:
		return style.FocusedColumnStyle.Height(height).Render(content)
	default:
		return style.ColumnStyle.Height(height).Render(content)
	}
}

// renderTaskCard renders title, priority, due date, subtask progress and tags
func (m Model) renderTaskCard(t entity.Task, width int, selected, dragged bool) string {
	cardStyle := style.TaskCardStyle
	switch {
	case dragged:
		cardStyle = style.DraggedTaskCardStyle
	case selected:
		cardStyle = style.SelectedTaskCardStyle
	}
	inner := width - 4

	title := t.Title
	if m.engine.IsBusy(t.ID) {
		title = "⟳ " + title
	}

	meta := []string{style.PriorityStyle(t.Priority).Render(strings.ToUpper(t.Priority.String()))}
	if t.Due != "" {
		meta = append(meta, style.DueDateStyle.Render("due "+t.Due))
	}
	if done, total := t.SubtaskProgress(); total > 0 {
		meta = append(meta, style.MutedStyle.Render(fmt.Sprintf("☑ %d/%d", done, total)))
	}

	tags := ""
	if len(t.Tags) > 0 {
		tags = style.TagStyle.Render("#" + strings.Join(t.Tags, " #"))
	}

	lines := []string{
		style.TaskStyle.Width(inner).MaxHeight(1).Render(title),
		strings.Join(meta, "  "),
		lipgloss.NewStyle().Width(inner).MaxHeight(1).Render(tags),
	}
	return cardStyle.Width(inner).Render(strings.Join(lines, "\n"))
}

func (m Model) renderModal() string {
	ms := m.modal
	if ms == nil {
		return ""
	}
	d := ms.draft

	heading := "New task"
	if d.IsEdit() {
		heading = "Edit task"
	}
	if ms.saving {
		heading += " (saving…)"
	}

	labels := [fieldCount]string{"Title", "Tags", "Due", "Subtask"}
	rows := []string{style.ColumnTitleStyle.Render(heading), ""}
	for i, in := range ms.inputs {
		label := fmt.Sprintf("%-8s", labels[i])
		if i == ms.focus {
			label = style.TagStyle.Render(label)
		}
		rows = append(rows, label+" "+in.View())
	}
	rows = append(rows,
		fmt.Sprintf("%-8s %s", "Priority", style.PriorityStyle(d.Priority).Render(d.Priority.String())),
		fmt.Sprintf("%-8s %s", "Status", d.Status.Label()),
	)

	if len(d.Subtasks) > 0 {
		rows = append(rows, "")
		for i, st := range d.Subtasks {
			box := "[ ]"
			if st.Done {
				box = "[x]"
			}
			line := fmt.Sprintf("%s %s", box, st.Text)
			if ms.focus == fieldSubtask && i == ms.subtaskCursor {
				line = style.TagStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			rows = append(rows, line)
		}
	}

	return style.ModalStyle.Width(60).Render(strings.Join(rows, "\n"))
}

func (m Model) renderTrash() string {
	trash := m.engine.Trash()
	rows := []string{style.ColumnTitleStyle.Render(fmt.Sprintf("Trash (%d)", len(trash))), ""}
	if len(trash) == 0 {
		rows = append(rows, style.MutedStyle.Render("Trash is empty"))
	}
	for i, t := range trash {
		line := fmt.Sprintf("%s  %s  %s", t.Title, style.PriorityStyle(t.Priority).Render(t.Priority.String()), style.MutedStyle.Render(t.Status.Label()))
		if m.engine.IsBusy(t.ID) {
			line = "⟳ " + line
		}
		if i == m.trashCursor {
			line = style.TagStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
	}
	return style.ModalStyle.Width(70).Render(strings.Join(rows, "\n"))
}

func (m Model) renderNotices() string {
	if m.notices == nil {
		return ""
	}
	active := m.notices.Active()
	if len(active) == 0 {
		return ""
	}
	lines := make([]string, 0, len(active))
	for _, n := range active {
		if n.Level == notice.LevelError {
			lines = append(lines, style.ErrorNoticeStyle.Render(n.Message))
		} else {
			lines = append(lines, style.InfoNoticeStyle.Render(n.Message))
		}
	}
	return strings.Join(lines, "\n")
}

// renderHelp renders the help text at the bottom
func (m Model) renderHelp() string {
	var helpText []string
	switch {
	case m.mode == modeModal:
		helpText = []string{
			"tab/shift+tab (field)  enter (save / add subtask)  ctrl+s (save)  esc (cancel)",
			"ctrl+p (priority)  ctrl+o (status)  ↑/↓ ctrl+t ctrl+d (subtasks)",
		}
	case m.mode == modeTrash:
		helpText = []string{"↑/↓ (select)  r/enter (restore)  R (refresh)  t/esc (close)"}
	case m.mode == modeSearch:
		helpText = []string{"type to filter  enter (keep)  esc (clear)"}
	case m.draggedID != "":
		helpText = []string{"Dragging: ←/→ (carry)  enter/space (drop)  esc (cancel)"}
	default:
		helpText = []string{
			"Navigation: ←/h,→/l (columns)  ↑/k,↓/j (tasks)",
			"Actions: a (add)  e/enter (edit)  space/m (drag)  d (delete)  t (trash)  / (search)  p (priority)  T (theme)  q (quit)",
		}
	}
	return style.HelpStyle.Render(strings.Join(helpText, "  •  "))
}
