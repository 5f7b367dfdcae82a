package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/application/dragdrop"
	"taskdeck/internal/application/syncer"
	"taskdeck/internal/domain/entity"
	"taskdeck/internal/domain/valueobject"
	"taskdeck/internal/infrastructure/config"
	"taskdeck/tui/style"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		// Re-rendering is enough to drop expired notices
		return m, doTick()

	case loadedMsg:
		m.loading = false
		m.clampTaskFocus()
		return m, nil

	case opDoneMsg:
		return m.handleOpDone(msg), nil

	case themeSavedMsg:
		if msg.err != nil {
			m.notices.Error("Failed to save theme: " + msg.err.Error())
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Quit) && m.mode != modeModal && m.mode != modeSearch {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeModal:
			return m.updateModal(msg)
		case modeTrash:
			return m.updateTrash(msg)
		default:
			return m.updateBoard(msg)
		}
	}

	return m, nil
}

func (m Model) handleOpDone(msg opDoneMsg) Model {
	switch msg.op {
	case syncer.OpCreate, syncer.OpUpdate:
		// A modal reopened after cancelling a save is not the one that finished
		if m.modal != nil && m.modal.draft == msg.draft {
			m.modal.saving = false
			if msg.err == nil {
				m.modal = nil
				m.mode = modeBoard
			}
		}
		if msg.err == nil {
			m.focusTask(msg.id)
		}
	case syncer.OpMove:
		if msg.err == nil {
			m.focusTask(msg.id)
		}
	case syncer.OpRestore, syncer.OpRefreshTrash:
		m.clampTrashCursor()
	}
	m.clampTaskFocus()
	return m
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.draggedID != "" {
		return m.updateDrag(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Left):
		m.moveLeft()

	case key.Matches(msg, m.keys.Right):
		m.moveRight()

	case key.Matches(msg, m.keys.Up):
		m.moveUp()

	case key.Matches(msg, m.keys.Down):
		m.moveDown()

	case key.Matches(msg, m.keys.Drag):
		if task, ok := m.currentTask(); ok {
			m.draggedID = task.ID
			m.dropColumn = m.focusedColumn
		}

	case key.Matches(msg, m.keys.Add):
		draft := entity.NewDraft()
		draft.Status = columnStatus(m.focusedColumn)
		m.modal = newModal(draft)
		m.mode = modeModal
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Edit), key.Matches(msg, m.keys.Drop):
		if task, ok := m.currentTask(); ok {
			m.modal = newModal(entity.DraftFromTask(task))
			m.mode = modeModal
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.Delete):
		if task, ok := m.currentTask(); ok {
			return m, m.deleteCmd(task.ID)
		}

	case key.Matches(msg, m.keys.Trash):
		m.mode = modeTrash
		m.trashCursor = 0
		return m, m.refreshTrashCmd()

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.searchInput.SetValue(m.search)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Priority):
		m.priorityFilter = m.priorityFilter.Next()
		m.clampTaskFocus()

	case key.Matches(msg, m.keys.Theme):
		if m.config.TUI.Theme == config.ThemeLight {
			m.config.TUI.Theme = config.ThemeDark
		} else {
			m.config.TUI.Theme = config.ThemeLight
		}
		style.InitStyles(m.config)
		return m, m.saveThemeCmd()

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.loadCmd()

	case key.Matches(msg, m.keys.Cancel):
		m.search = ""
		m.priorityFilter = valueobject.FilterAll
		m.clampTaskFocus()
	}

	m.updateScroll(m.visibleCards())
	return m, nil
}

// updateDrag handles keys while a card is picked up
func (m Model) updateDrag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		if m.dropColumn > 0 {
			m.dropColumn--
		}
	case key.Matches(msg, m.keys.Right):
		if m.dropColumn < len(valueobject.Statuses())-1 {
			m.dropColumn++
		}
	case key.Matches(msg, m.keys.Drop), key.Matches(msg, m.keys.Drag):
		gesture := dragdrop.Gesture{SourceID: m.draggedID, Target: columnStatus(m.dropColumn)}
		m.draggedID = ""
		m.focusedColumn = m.dropColumn
		return m, m.dropCmd(gesture)
	case key.Matches(msg, m.keys.Cancel):
		m.draggedID = ""
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.search = m.searchInput.Value()
		m.searchInput.Blur()
		m.mode = modeBoard
		m.clampTaskFocus()
		return m, nil
	case tea.KeyEsc:
		m.search = ""
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.mode = modeBoard
		m.clampTaskFocus()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	// Filter as the user types
	m.search = m.searchInput.Value()
	m.clampTaskFocus()
	return m, cmd
}

func (m Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ms := m.modal
	if ms == nil {
		m.mode = modeBoard
		return m, nil
	}
	if ms.saving {
		// Only allow closing while a save is outstanding
		if key.Matches(msg, modalKeys.Cancel) {
			m.modal = nil
			m.mode = modeBoard
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, modalKeys.Cancel):
		m.modal = nil
		m.mode = modeBoard
		return m, nil

	case key.Matches(msg, modalKeys.NextField):
		ms.setFocus(ms.focus + 1)
		return m, nil

	case key.Matches(msg, modalKeys.PrevField):
		ms.setFocus(ms.focus - 1)
		return m, nil

	case key.Matches(msg, modalKeys.CyclePriority):
		ms.draft.Priority = ms.draft.Priority.Next()
		return m, nil

	case key.Matches(msg, modalKeys.CycleStatus):
		next := ms.draft.Status.Next()
		if next == ms.draft.Status {
			next = valueobject.StatusTodo
		}
		ms.draft.Status = next
		return m, nil

	case key.Matches(msg, modalKeys.Save):
		return m.saveModal()

	case key.Matches(msg, modalKeys.Confirm):
		if ms.focus == fieldSubtask {
			if ms.draft.AddSubtask(ms.inputs[fieldSubtask].Value()) {
				ms.inputs[fieldSubtask].SetValue("")
				ms.subtaskCursor = len(ms.draft.Subtasks) - 1
			}
			return m, nil
		}
		return m.saveModal()
	}

	if ms.focus == fieldSubtask && len(ms.draft.Subtasks) > 0 {
		switch {
		case key.Matches(msg, modalKeys.SubtaskUp):
			if ms.subtaskCursor > 0 {
				ms.subtaskCursor--
			}
			return m, nil
		case key.Matches(msg, modalKeys.SubtaskDown):
			if ms.subtaskCursor < len(ms.draft.Subtasks)-1 {
				ms.subtaskCursor++
			}
			return m, nil
		case key.Matches(msg, modalKeys.ToggleSubtask):
			_ = ms.draft.ToggleSubtask(ms.subtaskCursor)
			return m, nil
		case key.Matches(msg, modalKeys.RemoveSubtask):
			_ = ms.draft.RemoveSubtask(ms.subtaskCursor)
			if ms.subtaskCursor >= len(ms.draft.Subtasks) && ms.subtaskCursor > 0 {
				ms.subtaskCursor--
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	ms.inputs[ms.focus], cmd = ms.inputs[ms.focus].Update(msg)
	return m, cmd
}

// saveModal hands the draft to the engine. The modal stays open until the
// save succeeds, so a rejected draft can be fixed in place.
func (m Model) saveModal() (tea.Model, tea.Cmd) {
	ms := m.modal
	ms.sync()
	if strings.TrimSpace(ms.draft.Title) == "" {
		m.notices.Error("Task title is required!")
		ms.setFocus(fieldTitle)
		return m, nil
	}
	ms.saving = true
	return m, m.saveCmd(ms.draft)
}

func (m Model) updateTrash(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	trash := m.engine.Trash()
	switch {
	case key.Matches(msg, m.keys.Trash), key.Matches(msg, m.keys.Cancel):
		m.mode = modeBoard
	case key.Matches(msg, m.keys.Up):
		if m.trashCursor > 0 {
			m.trashCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.trashCursor < len(trash)-1 {
			m.trashCursor++
		}
	case key.Matches(msg, m.keys.Restore), key.Matches(msg, m.keys.Drop):
		if m.trashCursor >= 0 && m.trashCursor < len(trash) {
			return m, m.restoreCmd(trash[m.trashCursor].ID)
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshTrashCmd()
	}
	return m, nil
}

// moveLeft moves focus to the left column
func (m *Model) moveLeft() {
	if m.focusedColumn > 0 {
		m.focusedColumn--
		m.focusedTask = 0
		m.clampTaskFocus()
	}
}

// moveRight moves focus to the right column
func (m *Model) moveRight() {
	if m.focusedColumn < len(valueobject.Statuses())-1 {
		m.focusedColumn++
		m.focusedTask = 0
		m.clampTaskFocus()
	}
}

// moveUp moves focus to the task above
func (m *Model) moveUp() {
	if m.focusedTask > 0 {
		m.focusedTask--
	}
}

// moveDown moves focus to the task below
func (m *Model) moveDown() {
	if m.focusedTask < m.currentColumnTaskCount()-1 {
		m.focusedTask++
	}
}
