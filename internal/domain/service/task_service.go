package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"taskdeck/internal/domain/entity"
	"taskdeck/internal/domain/repository"
	"taskdeck/internal/domain/valueobject"
)

// Counts summarizes the store contents
type Counts struct {
	Tasks int `json:"tasks"`
	Trash int `json:"trash"`
}

// TaskService implements the store-side rules for tasks and trash
type TaskService struct {
	repo   repository.TaskRepository
	logger log.FieldLogger
}

// NewTaskService creates a new TaskService
func NewTaskService(repo repository.TaskRepository, logger log.FieldLogger) *TaskService {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &TaskService{repo: repo, logger: logger}
}

// List returns all active tasks
func (s *TaskService) List(ctx context.Context) ([]entity.Task, error) {
	return s.repo.Load(ctx, repository.BucketTasks)
}

// ListTrash returns all trashed tasks
func (s *TaskService) ListTrash(ctx context.Context) ([]entity.Task, error) {
	return s.repo.Load(ctx, repository.BucketTrash)
}

// Get returns one active task
func (s *TaskService) Get(ctx context.Context, id string) (entity.Task, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return entity.Task{}, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return entity.Task{}, &entity.NotFoundError{Collection: entity.TasksCollectionName, ID: id}
}

// Create stores a new active task. An empty id is replaced with a generated one;
// missing priority and status default to low and todo.
func (s *TaskService) Create(ctx context.Context, task entity.Task) (entity.Task, error) {
	task = normalize(task)
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if err := validateTask(task); err != nil {
		return entity.Task{}, err
	}

	err := s.repo.Update(ctx, repository.BucketTasks, func(tasks []entity.Task) ([]entity.Task, error) {
		if indexOf(tasks, task.ID) >= 0 {
			return nil, &entity.DuplicateIDError{Collection: entity.TasksCollectionName, ID: task.ID}
		}
		return append(tasks, task), nil
	})
	if err != nil {
		return entity.Task{}, err
	}

	s.logger.WithField("task", task.ID).Info("task created")
	return task, nil
}

// Update merges patch into the stored task and returns the result
func (s *TaskService) Update(ctx context.Context, id string, patch entity.TaskPatch) (entity.Task, error) {
	if err := patch.Validate(); err != nil {
		return entity.Task{}, err
	}

	var updated entity.Task
	err := s.repo.Update(ctx, repository.BucketTasks, func(tasks []entity.Task) ([]entity.Task, error) {
		idx := indexOf(tasks, id)
		if idx < 0 {
			return nil, &entity.NotFoundError{Collection: entity.TasksCollectionName, ID: id}
		}
		updated = normalize(patch.Apply(tasks[idx]))
		updated.ID = id
		tasks[idx] = updated
		return tasks, nil
	})
	if err != nil {
		return entity.Task{}, err
	}

	s.logger.WithField("task", id).Info("task updated")
	return updated, nil
}

// Delete removes an active task
func (s *TaskService) Delete(ctx context.Context, id string) error {
	err := s.repo.Update(ctx, repository.BucketTasks, func(tasks []entity.Task) ([]entity.Task, error) {
		return removeByID(tasks, entity.TasksCollectionName, id)
	})
	if err != nil {
		return err
	}
	s.logger.WithField("task", id).Info("task deleted")
	return nil
}

// Archive places a task in the trash. An existing trash entry with the same id is replaced.
func (s *TaskService) Archive(ctx context.Context, task entity.Task) (entity.Task, error) {
	task = normalize(task)
	if task.ID == "" {
		return entity.Task{}, entity.ErrEmptyTaskID
	}
	if err := validateTask(task); err != nil {
		return entity.Task{}, err
	}

	err := s.repo.Update(ctx, repository.BucketTrash, func(trash []entity.Task) ([]entity.Task, error) {
		if idx := indexOf(trash, task.ID); idx >= 0 {
			trash[idx] = task
			return trash, nil
		}
		return append(trash, task), nil
	})
	if err != nil {
		return entity.Task{}, err
	}

	s.logger.WithField("task", task.ID).Info("task archived")
	return task, nil
}

// Unarchive removes a task from the trash
func (s *TaskService) Unarchive(ctx context.Context, id string) error {
	err := s.repo.Update(ctx, repository.BucketTrash, func(trash []entity.Task) ([]entity.Task, error) {
		return removeByID(trash, entity.TrashCollectionName, id)
	})
	if err != nil {
		return err
	}
	s.logger.WithField("task", id).Info("task unarchived")
	return nil
}

// EmptyTrash removes every trashed task and returns how many were dropped
func (s *TaskService) EmptyTrash(ctx context.Context) (int, error) {
	removed := 0
	err := s.repo.Update(ctx, repository.BucketTrash, func(trash []entity.Task) ([]entity.Task, error) {
		removed = len(trash)
		return make([]entity.Task, 0), nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.WithField("removed", removed).Info("trash emptied")
	return removed, nil
}

// Counts returns the size of both buckets
func (s *TaskService) Counts(ctx context.Context) (Counts, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return Counts{}, fmt.Errorf("failed to count tasks: %w", err)
	}
	trash, err := s.ListTrash(ctx)
	if err != nil {
		return Counts{}, fmt.Errorf("failed to count trash: %w", err)
	}
	return Counts{Tasks: len(tasks), Trash: len(trash)}, nil
}

func normalize(t entity.Task) entity.Task {
	t.Title = strings.TrimSpace(t.Title)
	if t.Priority == "" {
		t.Priority = valueobject.PriorityLow
	}
	if t.Status == "" {
		t.Status = valueobject.StatusTodo
	}
	if t.Tags == nil {
		t.Tags = make([]string, 0)
	}
	if t.Subtasks == nil {
		t.Subtasks = make([]entity.Subtask, 0)
	}
	return t
}

func validateTask(t entity.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return entity.NewValidationError("title", "is required")
	}
	if !t.Priority.IsValid() {
		return entity.NewValidationError("priority", fmt.Sprintf("unknown value %q", t.Priority))
	}
	if !t.Status.IsValid() {
		return entity.NewValidationError("status", fmt.Sprintf("unknown value %q", t.Status))
	}
	return nil
}

func indexOf(tasks []entity.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func removeByID(tasks []entity.Task, collection, id string) ([]entity.Task, error) {
	idx := indexOf(tasks, id)
	if idx < 0 {
		return nil, &entity.NotFoundError{Collection: collection, ID: id}
	}
	return append(tasks[:idx], tasks[idx+1:]...), nil
}
