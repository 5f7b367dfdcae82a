// Package syncer keeps the local task and trash collections in step with the
// remote store. Every mutation goes to the store first; local state changes
// only after all remote steps of an operation have succeeded.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"taskdeck/internal/application/filter"
	"taskdeck/internal/application/notice"
	"taskdeck/internal/domain/entity"
	"taskdeck/internal/domain/repository"
	"taskdeck/internal/domain/valueobject"
)

// Operation names used in logs and errors
const (
	OpLoad         = "load"
	OpRefreshTrash = "refreshTrash"
	OpCreate       = "createTask"
	OpUpdate       = "updateTask"
	OpMove         = "moveTask"
	OpDelete       = "deleteTask"
	OpRestore      = "restoreTask"
)

// ErrMissingID is returned when the store answers a create without an id
var ErrMissingID = errors.New("store returned a task without an id")

// Engine owns the task and trash collections and runs every use case that mutates them
type Engine struct {
	store    repository.RemoteStore
	logger   log.FieldLogger
	notifier notice.Notifier
	guard    *Guard

	mu    sync.RWMutex
	tasks *entity.Collection
	trash *entity.Collection
}

// NewEngine creates an engine with empty collections
func NewEngine(store repository.RemoteStore, logger log.FieldLogger, notifier notice.Notifier) *Engine {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if notifier == nil {
		notifier = notice.Discard{}
	}
	return &Engine{
		store:    store,
		logger:   logger,
		notifier: notifier,
		guard:    NewGuard(),
		tasks:    entity.NewTaskCollection(),
		trash:    entity.NewTrashCollection(),
	}
}

// Load fetches both lists and replaces the local collections. An id present
// in both lists is kept on the task side only. Tasks with an operation in
// flight keep their local copy and position until that operation finishes.
func (e *Engine) Load(ctx context.Context) error {
	tasks, err := e.store.ListTasks(ctx)
	if err != nil {
		return e.fail(OpLoad, "", err)
	}
	trash, err := e.store.ListTrash(ctx)
	if err != nil {
		return e.fail(OpLoad, "", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tasks = e.dedupe(e.keepBusy(tasks, e.tasks), nil)
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		seen[t.ID] = true
	}
	trash = e.dedupe(e.keepBusy(trash, e.trash), seen)

	if err := e.tasks.ReplaceAll(tasks); err != nil {
		return e.fail(OpLoad, "", err)
	}
	if err := e.trash.ReplaceAll(trash); err != nil {
		return e.fail(OpLoad, "", err)
	}

	e.logger.WithFields(log.Fields{"tasks": len(tasks), "trash": len(trash)}).Info("loaded tasks")
	return nil
}

// RefreshTrash re-fetches the trash list
func (e *Engine) RefreshTrash(ctx context.Context) error {
	trash, err := e.store.ListTrash(ctx)
	if err != nil {
		return e.fail(OpRefreshTrash, "", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	active := make(map[string]bool, e.tasks.Len())
	for _, t := range e.tasks.All() {
		active[t.ID] = true
	}
	if err := e.trash.ReplaceAll(e.dedupe(e.keepBusy(trash, e.trash), active)); err != nil {
		return e.fail(OpRefreshTrash, "", err)
	}
	return nil
}

// keepBusy merges a store listing with the local collection it replaces.
// For a busy id the local copy wins: it takes the listing's slot when the
// listing has one, and is appended otherwise. A busy id that is not local to
// this collection is dropped. Caller holds e.mu.
func (e *Engine) keepBusy(listing []entity.Task, local *entity.Collection) []entity.Task {
	out := make([]entity.Task, 0, len(listing))
	kept := make(map[string]bool)
	for _, t := range listing {
		if !e.guard.Busy(t.ID) {
			out = append(out, t)
			continue
		}
		if mine, err := local.Get(t.ID); err == nil && !kept[t.ID] {
			out = append(out, mine)
			kept[t.ID] = true
		}
	}
	for _, t := range local.All() {
		if e.guard.Busy(t.ID) && !kept[t.ID] {
			out = append(out, t)
			kept[t.ID] = true
		}
	}
	return out
}

// dedupe drops tasks without ids, repeated ids and ids in exclude
func (e *Engine) dedupe(tasks []entity.Task, exclude map[string]bool) []entity.Task {
	out := make([]entity.Task, 0, len(tasks))
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t.ID == "" || seen[t.ID] || exclude[t.ID] {
			e.logger.WithField("task", t.ID).Warn("dropping duplicate or id-less task from store listing")
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}

// SaveDraft creates or updates depending on whether the draft edits a task
func (e *Engine) SaveDraft(ctx context.Context, draft *entity.Draft) (entity.Task, error) {
	if draft != nil && draft.IsEdit() {
		if err := draft.Validate(); err != nil {
			return entity.Task{}, e.fail(OpUpdate, draft.TaskID, err)
		}
		return e.update(ctx, OpUpdate, draft.TaskID, draft.Patch(), "Task updated")
	}
	return e.CreateTask(ctx, draft)
}

// CreateTask validates the draft, creates it remotely and appends the stored task
func (e *Engine) CreateTask(ctx context.Context, draft *entity.Draft) (entity.Task, error) {
	if draft == nil {
		return entity.Task{}, e.fail(OpCreate, "", entity.NewValidationError("title", "task title is required"))
	}
	if err := draft.Validate(); err != nil {
		return entity.Task{}, e.fail(OpCreate, "", err)
	}

	created, err := e.store.CreateTask(ctx, draft.NewTask())
	if err != nil {
		return entity.Task{}, e.fail(OpCreate, "", err)
	}
	if created.ID == "" {
		return entity.Task{}, e.fail(OpCreate, "", ErrMissingID)
	}

	e.mu.Lock()
	err = e.insertActive(created)
	e.mu.Unlock()
	if err != nil {
		return entity.Task{}, e.fail(OpCreate, created.ID, err)
	}

	e.succeed(OpCreate, created.ID, "Task created")
	return created.Clone(), nil
}

// UpdateTask sends a partial update and replaces the local copy with the server's answer
func (e *Engine) UpdateTask(ctx context.Context, id string, patch entity.TaskPatch) (entity.Task, error) {
	return e.update(ctx, OpUpdate, id, patch, "Task updated")
}

// MoveTask changes only the status of a task. Every transition is allowed,
// including to the status it already has.
func (e *Engine) MoveTask(ctx context.Context, id string, status valueobject.Status) (entity.Task, error) {
	if !status.IsValid() {
		return entity.Task{}, e.fail(OpMove, id, entity.NewValidationError("status", entity.ErrInvalidStatus.Error()))
	}
	msg := "Task moved to " + strings.ReplaceAll(string(status), "-", " ")
	return e.update(ctx, OpMove, id, entity.StatusPatch(status), msg)
}

func (e *Engine) update(ctx context.Context, op, id string, patch entity.TaskPatch, msg string) (entity.Task, error) {
	release, err := e.guard.Acquire(id, op)
	if err != nil {
		return entity.Task{}, e.fail(op, id, err)
	}
	defer release()

	e.mu.RLock()
	known := e.tasks.Has(id)
	e.mu.RUnlock()
	if !known {
		return entity.Task{}, e.fail(op, id, &entity.NotFoundError{Collection: entity.TasksCollectionName, ID: id})
	}
	if err := patch.Validate(); err != nil {
		return entity.Task{}, e.fail(op, id, err)
	}

	updated, err := e.store.UpdateTask(ctx, id, patch)
	if err != nil {
		return entity.Task{}, e.fail(op, id, err)
	}

	e.mu.Lock()
	if updated.ID == "" {
		updated.ID = id
	}
	if updated.ID != id && e.trash.Has(updated.ID) {
		err = &entity.DuplicateIDError{Collection: entity.TrashCollectionName, ID: updated.ID}
	} else {
		err = e.tasks.Replace(id, updated)
	}
	e.mu.Unlock()
	if err != nil {
		return entity.Task{}, e.fail(op, id, err)
	}

	e.succeed(op, id, msg)
	return updated.Clone(), nil
}

// DeleteTask soft-deletes a task: remove it from the task store, archive it in
// the trash store, then move it locally. If archiving fails after the delete
// went through, a ReconciliationError is returned and nothing changes locally.
func (e *Engine) DeleteTask(ctx context.Context, id string) error {
	release, err := e.guard.Acquire(id, OpDelete)
	if err != nil {
		return e.fail(OpDelete, id, err)
	}
	defer release()

	e.mu.RLock()
	task, err := e.tasks.Get(id)
	e.mu.RUnlock()
	if err != nil {
		return e.fail(OpDelete, id, err)
	}

	if err := e.store.DeleteTask(ctx, id); err != nil {
		return e.fail(OpDelete, id, err)
	}
	archived, err := e.store.ArchiveTask(ctx, task)
	if err != nil {
		return e.fail(OpDelete, id, &entity.ReconciliationError{
			Operation: OpDelete,
			TaskID:    id,
			Step:      "archiveTask",
			Err:       err,
		})
	}
	if archived.ID == "" {
		archived = task
	}

	e.mu.Lock()
	err = e.moveBetween(e.tasks, e.trash, id, archived)
	e.mu.Unlock()
	if err != nil {
		return e.fail(OpDelete, id, err)
	}

	e.succeed(OpDelete, id, "Moved to trash")
	return nil
}

// RestoreTask brings a task back from the trash: remove it from the trash
// store, create it again in the task store (possibly under a new id), then
// move it locally. Failure of the second step yields a ReconciliationError.
func (e *Engine) RestoreTask(ctx context.Context, id string) (entity.Task, error) {
	release, err := e.guard.Acquire(id, OpRestore)
	if err != nil {
		return entity.Task{}, e.fail(OpRestore, id, err)
	}
	defer release()

	e.mu.RLock()
	task, err := e.trash.Get(id)
	e.mu.RUnlock()
	if err != nil {
		return entity.Task{}, e.fail(OpRestore, id, err)
	}

	if err := e.store.UnarchiveTask(ctx, id); err != nil {
		return entity.Task{}, e.fail(OpRestore, id, err)
	}
	restored, err := e.store.CreateTask(ctx, task)
	if err != nil {
		return entity.Task{}, e.fail(OpRestore, id, &entity.ReconciliationError{
			Operation: OpRestore,
			TaskID:    id,
			Step:      "createTask",
			Err:       err,
		})
	}
	if restored.ID == "" {
		// the store has the task again, but under an id we do not know
		return entity.Task{}, e.fail(OpRestore, id, &entity.ReconciliationError{
			Operation: OpRestore,
			TaskID:    id,
			Step:      "createTask",
			Err:       ErrMissingID,
		})
	}

	e.mu.Lock()
	err = e.moveBetween(e.trash, e.tasks, id, restored)
	e.mu.Unlock()
	if err != nil {
		return entity.Task{}, e.fail(OpRestore, id, err)
	}

	e.succeed(OpRestore, restored.ID, "Task restored")
	return restored.Clone(), nil
}

// insertActive appends to the task collection, keeping ids unique across both
// collections. Caller holds e.mu.
func (e *Engine) insertActive(task entity.Task) error {
	if e.trash.Has(task.ID) {
		return &entity.DuplicateIDError{Collection: entity.TrashCollectionName, ID: task.ID}
	}
	return e.tasks.Insert(task)
}

// moveBetween removes id from src and inserts task into dst as one step.
// Nothing changes when the insert would break id uniqueness. Caller holds e.mu.
func (e *Engine) moveBetween(src, dst *entity.Collection, id string, task entity.Task) error {
	if !src.Has(id) {
		return &entity.NotFoundError{Collection: src.Name(), ID: id}
	}
	if dst.Has(task.ID) {
		return &entity.DuplicateIDError{Collection: dst.Name(), ID: task.ID}
	}
	if task.ID != id && src.Has(task.ID) {
		return &entity.DuplicateIDError{Collection: src.Name(), ID: task.ID}
	}
	if _, err := src.Remove(id); err != nil {
		return err
	}
	return dst.Insert(task)
}

// Tasks returns a snapshot of the active tasks in order
func (e *Engine) Tasks() []entity.Task {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tasks.All()
}

// Trash returns a snapshot of the soft-deleted tasks in order
func (e *Engine) Trash() []entity.Task {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.trash.All()
}

// Task returns an active task by id
func (e *Engine) Task(id string) (entity.Task, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tasks.Get(id)
}

// TrashedTask returns a soft-deleted task by id
func (e *Engine) TrashedTask(id string) (entity.Task, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.trash.Get(id)
}

// View returns the filtered, status-grouped board
func (e *Engine) View(search string, priority valueobject.PriorityFilter) filter.Columns {
	return filter.Visible(e.Tasks(), search, priority)
}

// IsBusy reports whether an operation on id is in flight
func (e *Engine) IsBusy(id string) bool {
	return e.guard.Busy(id)
}

func (e *Engine) succeed(op, id, msg string) {
	e.logger.WithFields(log.Fields{"op": op, "task": id}).Info(msg)
	e.notifier.Info(msg)
}

// fail logs err, posts a notice for it and returns it unchanged
func (e *Engine) fail(op, id string, err error) error {
	entry := e.logger.WithFields(log.Fields{"op": op, "task": id}).WithError(err)

	var reconcile *entity.ReconciliationError
	switch {
	case errors.As(err, &reconcile):
		entry.Error("remote stores are inconsistent")
		e.notifier.Error(fmt.Sprintf("Task %s needs manual reconciliation: %s failed", id, reconcile.Step))
	case errors.Is(err, entity.ErrValidation):
		entry.Warn("rejected invalid input")
		e.notifier.Error(userMessage(err))
	case errors.Is(err, entity.ErrOperationInFlight):
		entry.Warn("operation already in flight")
		e.notifier.Error("Task is busy, try again in a moment")
	default:
		entry.Error("operation failed")
		e.notifier.Error(fmt.Sprintf("Failed to %s: %v", describe(op), err))
	}
	return err
}

func userMessage(err error) string {
	var verr *entity.ValidationError
	if errors.As(err, &verr) && verr.Field == "title" {
		return "Task title is required!"
	}
	return err.Error()
}

func describe(op string) string {
	switch op {
	case OpLoad:
		return "load tasks"
	case OpRefreshTrash:
		return "load trash"
	case OpCreate:
		return "create task"
	case OpUpdate:
		return "update task"
	case OpMove:
		return "move task"
	case OpDelete:
		return "delete task"
	case OpRestore:
		return "restore task"
	default:
		return op
	}
}
