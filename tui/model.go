package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/application/dragdrop"
	"taskdeck/internal/application/filter"
	"taskdeck/internal/application/notice"
	"taskdeck/internal/application/syncer"
	"taskdeck/internal/di"
	"taskdeck/internal/domain/entity"
	"taskdeck/internal/domain/valueobject"
	"taskdeck/internal/infrastructure/config"
	"taskdeck/tui/style"
)

type mode int

const (
	modeBoard mode = iota
	modeSearch
	modeModal
	modeTrash
)

// Modal input fields, in tab order
const (
	fieldTitle = iota
	fieldTags
	fieldDue
	fieldSubtask
	fieldCount
)

const noticeRefresh = 250 * time.Millisecond

// Model represents the TUI state
type Model struct {
	engine  *syncer.Engine
	drag    *dragdrop.Controller
	notices *notice.Board
	config  *config.Config
	loader  *config.Loader
	keys    keyMap

	mode          mode
	loading       bool
	focusedColumn int    // which column is currently selected
	focusedTask   int    // which task in the current column is selected
	scrollOffsets [3]int // scroll offset for each column (vertical)
	width         int
	height        int

	// drag state; draggedID is empty when nothing is picked up
	draggedID  string
	dropColumn int

	searchInput    textinput.Model
	search         string
	priorityFilter valueobject.PriorityFilter

	modal       *modalState
	trashCursor int
}

// modalState is one add or edit session
type modalState struct {
	draft         *entity.Draft
	inputs        [fieldCount]textinput.Model
	focus         int
	subtaskCursor int
	saving        bool
}

// NewModel creates a new TUI model
func NewModel(container *di.Container) Model {
	search := textinput.New()
	search.Placeholder = "search title or tags"
	search.Prompt = "/ "
	search.CharLimit = 120

	style.InitStyles(container.Config)

	return Model{
		engine:         container.Engine,
		drag:           container.DragDrop,
		notices:        container.Notices,
		config:         container.Config,
		loader:         container.Loader,
		keys:           newKeyMap(container.Config.Keybindings),
		loading:        true,
		searchInput:    search,
		priorityFilter: valueobject.FilterAll,
	}
}

// Messages produced by engine commands
type (
	loadedMsg struct{ err error }

	opDoneMsg struct {
		op  string
		id  string
		err error
		// draft is set by saves and names the modal that started them
		draft *entity.Draft
	}

	themeSavedMsg struct{ err error }

	// tickMsg is sent when the ticker fires
	tickMsg time.Time
)

// doTick returns a command that waits for a tick
func doTick() tea.Cmd {
	return tea.Tick(noticeRefresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), doTick())
}

func (m Model) loadCmd() tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		return loadedMsg{err: engine.Load(context.Background())}
	}
}

func (m Model) refreshTrashCmd() tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		return opDoneMsg{op: syncer.OpRefreshTrash, err: engine.RefreshTrash(context.Background())}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		return opDoneMsg{op: syncer.OpDelete, id: id, err: engine.DeleteTask(context.Background(), id)}
	}
}

func (m Model) restoreCmd(id string) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		_, err := engine.RestoreTask(context.Background(), id)
		return opDoneMsg{op: syncer.OpRestore, id: id, err: err}
	}
}

func (m Model) dropCmd(gesture dragdrop.Gesture) tea.Cmd {
	controller := m.drag
	return func() tea.Msg {
		_, err := controller.Drop(context.Background(), gesture)
		return opDoneMsg{op: syncer.OpMove, id: gesture.SourceID, err: err}
	}
}

func (m Model) saveCmd(draft *entity.Draft) tea.Cmd {
	engine := m.engine
	op := syncer.OpCreate
	if draft.IsEdit() {
		op = syncer.OpUpdate
	}
	return func() tea.Msg {
		task, err := engine.SaveDraft(context.Background(), draft)
		return opDoneMsg{op: op, id: task.ID, err: err, draft: draft}
	}
}

// saveThemeCmd writes the theme into the config file, leaving every other
// stored value (and any environment override) alone
func (m Model) saveThemeCmd() tea.Cmd {
	loader, theme := m.loader, m.config.TUI.Theme
	return func() tea.Msg {
		if loader == nil {
			return themeSavedMsg{}
		}
		stored, err := loader.LoadFile()
		if err != nil {
			return themeSavedMsg{err: err}
		}
		stored.TUI.Theme = theme
		return themeSavedMsg{err: loader.Save(stored)}
	}
}

// columns returns the visible board
func (m Model) columns() filter.Columns {
	return m.engine.View(m.search, m.priorityFilter)
}

// Helper to get task count in current column
func (m Model) currentColumnTaskCount() int {
	return len(m.columns().For(columnStatus(m.focusedColumn)))
}

// Helper to get current task
func (m Model) currentTask() (entity.Task, bool) {
	tasks := m.columns().For(columnStatus(m.focusedColumn))
	if len(tasks) == 0 || m.focusedTask < 0 || m.focusedTask >= len(tasks) {
		return entity.Task{}, false
	}
	return tasks[m.focusedTask], true
}

// focusTask moves focus onto the task with id, if it is visible
func (m *Model) focusTask(id string) {
	cols := m.columns()
	for ci, status := range valueobject.Statuses() {
		for ti, t := range cols.For(status) {
			if t.ID == id {
				m.focusedColumn = ci
				m.focusedTask = ti
				return
			}
		}
	}
}

// Helper to update scroll position to keep focused task visible
func (m *Model) updateScroll(viewportHeight int) {
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	col := m.focusedColumn
	taskCount := m.currentColumnTaskCount()
	if taskCount == 0 {
		m.scrollOffsets[col] = 0
		return
	}

	// Ensure focused task is visible
	if m.focusedTask < m.scrollOffsets[col] {
		m.scrollOffsets[col] = m.focusedTask
	} else if m.focusedTask >= m.scrollOffsets[col]+viewportHeight {
		m.scrollOffsets[col] = m.focusedTask - viewportHeight + 1
	}

	// Clamp scroll offset
	maxScroll := taskCount - viewportHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scrollOffsets[col] > maxScroll {
		m.scrollOffsets[col] = maxScroll
	}
	if m.scrollOffsets[col] < 0 {
		m.scrollOffsets[col] = 0
	}
}

// clampTaskFocus ensures the task focus is within valid bounds
func (m *Model) clampTaskFocus() {
	taskCount := m.currentColumnTaskCount()
	if taskCount == 0 {
		m.focusedTask = 0
	} else if m.focusedTask >= taskCount {
		m.focusedTask = taskCount - 1
	}
}

func (m *Model) clampTrashCursor() {
	n := len(m.engine.Trash())
	if m.trashCursor >= n {
		m.trashCursor = n - 1
	}
	if m.trashCursor < 0 {
		m.trashCursor = 0
	}
}

// visibleCards is how many cards fit in a column
func (m Model) visibleCards() int {
	n := (m.height - 10) / cardHeight
	if n < 1 {
		n = 1
	}
	return n
}

func columnStatus(i int) valueobject.Status {
	statuses := valueobject.Statuses()
	if i < 0 || i >= len(statuses) {
		return statuses[0]
	}
	return statuses[i]
}

func newModal(draft *entity.Draft) *modalState {
	ms := &modalState{draft: draft}
	placeholders := [fieldCount]string{"Title", "tag1, tag2", "YYYY-MM-DD", "New subtask (enter to add)"}
	values := [fieldCount]string{draft.Title, draft.TagString(), draft.Due, ""}
	for i := range ms.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 200
		in.SetValue(values[i])
		ms.inputs[i] = in
	}
	ms.inputs[fieldTitle].Focus()
	return ms
}

// sync copies the text inputs into the draft
func (ms *modalState) sync() {
	ms.draft.Title = ms.inputs[fieldTitle].Value()
	ms.draft.SetTags(ms.inputs[fieldTags].Value())
	ms.draft.Due = ms.inputs[fieldDue].Value()
}

func (ms *modalState) setFocus(i int) {
	ms.inputs[ms.focus].Blur()
	ms.focus = (i + fieldCount) % fieldCount
	ms.inputs[ms.focus].Focus()
}
