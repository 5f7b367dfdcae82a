package tui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/application/dragdrop"
	"taskdeck/internal/application/notice"
	"taskdeck/internal/application/syncer"
	"taskdeck/internal/di"
	"taskdeck/internal/domain/entity"
	"taskdeck/internal/domain/valueobject"
	"taskdeck/internal/infrastructure/config"
	"taskdeck/internal/infrastructure/logging"
)

// boardStore serves a fixed task list and records mutating calls
type boardStore struct {
	mu      sync.Mutex
	tasks   []entity.Task
	updates []entity.TaskPatch
	creates int
}

func (s *boardStore) ListTasks(ctx context.Context) ([]entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Task(nil), s.tasks...), nil
}

func (s *boardStore) ListTrash(ctx context.Context) ([]entity.Task, error) {
	return []entity.Task{}, nil
}

func (s *boardStore) CreateTask(ctx context.Context, task entity.Task) (entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	task.ID = "new"
	return task, nil
}

func (s *boardStore) UpdateTask(ctx context.Context, id string, patch entity.TaskPatch) (entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, patch)
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks[i] = patch.Apply(t)
			return s.tasks[i], nil
		}
	}
	return entity.Task{}, entity.ErrTaskNotFound
}

func (s *boardStore) DeleteTask(ctx context.Context, id string) error { return nil }

func (s *boardStore) ArchiveTask(ctx context.Context, task entity.Task) (entity.Task, error) {
	return task, nil
}

func (s *boardStore) UnarchiveTask(ctx context.Context, id string) error { return nil }

func newTestModel(t *testing.T, store *boardStore) (Model, *notice.Board) {
	t.Helper()
	cfg, err := config.DefaultConfig()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	notices := notice.NewBoard(cfg.Notices)
	engine := syncer.NewEngine(store, logging.Discard(), notices)
	container := &di.Container{
		Config:   cfg,
		Notices:  notices,
		Engine:   engine,
		DragDrop: dragdrop.NewController(engine),
	}

	m := NewModel(container)
	next, _ := m.Update(m.loadCmd()())
	return next.(Model), notices
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestDragAndDropIssuesOneMove(t *testing.T) {
	store := &boardStore{tasks: []entity.Task{
		{ID: "t1", Title: "drag me", Priority: valueobject.PriorityLow, Status: valueobject.StatusTodo},
	}}
	m, _ := newTestModel(t, store)

	m, _ = press(t, m, runes("m"))
	if m.draggedID != "t1" {
		t.Fatalf("expected t1 picked up, got %q", m.draggedID)
	}
	m, _ = press(t, m, runes("l"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("drop should return a command")
	}
	if m.draggedID != "" {
		t.Fatal("drag state should be cleared on drop")
	}

	next, _ := m.Update(cmd())
	m = next.(Model)

	if len(store.updates) != 1 {
		t.Fatalf("expected one update call, got %d", len(store.updates))
	}
	if p := store.updates[0]; p.Status == nil || *p.Status != valueobject.StatusInProgress || p.Title != nil {
		t.Fatalf("move should only send the status: %+v", p)
	}
	if task, ok := m.currentTask(); !ok || task.ID != "t1" || m.focusedColumn != 1 {
		t.Fatalf("focus should follow the moved task, got column %d task %+v", m.focusedColumn, task)
	}
}

func TestCancelledDragDoesNothing(t *testing.T) {
	store := &boardStore{tasks: []entity.Task{
		{ID: "t1", Title: "stay", Priority: valueobject.PriorityLow, Status: valueobject.StatusTodo},
	}}
	m, _ := newTestModel(t, store)

	m, _ = press(t, m, runes("m"))
	m, _ = press(t, m, runes("l"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil || m.draggedID != "" {
		t.Fatalf("cancel should clear the drag without a command")
	}
	if len(store.updates) != 0 {
		t.Fatalf("expected no updates, got %d", len(store.updates))
	}
}

func TestSavingEmptyTitleKeepsModalOpen(t *testing.T) {
	store := &boardStore{}
	m, notices := newTestModel(t, store)

	m, _ = press(t, m, runes("a"))
	if m.mode != modeModal || m.modal == nil {
		t.Fatal("add should open the modal")
	}
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatal("empty title must not start a save")
	}
	if m.mode != modeModal {
		t.Fatal("modal should stay open")
	}
	active := notices.Active()
	if len(active) != 1 || active[0].Message != "Task title is required!" {
		t.Fatalf("unexpected notices: %+v", active)
	}

	m, _ = press(t, m, runes("Plan sprint"))
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("save should return a command")
	}
	next, _ := m.Update(cmd())
	m = next.(Model)
	if m.mode != modeBoard || m.modal != nil {
		t.Fatal("modal should close after a successful save")
	}
	if store.creates != 1 || len(m.engine.Tasks()) != 1 {
		t.Fatalf("expected one created task, got %d calls and %d tasks", store.creates, len(m.engine.Tasks()))
	}
}

func TestFinishedSaveLeavesReopenedModalAlone(t *testing.T) {
	store := &boardStore{}
	m, _ := newTestModel(t, store)

	m, _ = press(t, m, runes("a"))
	m, _ = press(t, m, runes("First"))
	m, save := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if save == nil {
		t.Fatal("save should return a command")
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.modal != nil {
		t.Fatal("esc should close the saving modal")
	}

	m, _ = press(t, m, runes("a"))
	m, _ = press(t, m, runes("Second"))
	reopened := m.modal

	next, _ := m.Update(save())
	m = next.(Model)
	if m.mode != modeModal || m.modal != reopened {
		t.Fatal("the reopened modal should stay open")
	}
	if title := m.modal.inputs[fieldTitle].Value(); title != "Second" || m.modal.saving {
		t.Fatalf("reopened modal was disturbed: title %q saving %v", title, m.modal.saving)
	}
	if store.creates != 1 {
		t.Fatalf("expected one create, got %d", store.creates)
	}
}
