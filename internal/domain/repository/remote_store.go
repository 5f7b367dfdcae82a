package repository

import (
	"context"

	"taskdeck/internal/domain/entity"
)

// RemoteStore is the authoritative task and trash store as seen by the client.
// Every method is a single round trip and never retries.
type RemoteStore interface {
	// ListTasks returns every active task
	ListTasks(ctx context.Context) ([]entity.Task, error)

	// ListTrash returns every soft-deleted task
	ListTrash(ctx context.Context) ([]entity.Task, error)

	// CreateTask stores a task and returns it with its assigned id
	CreateTask(ctx context.Context, task entity.Task) (entity.Task, error)

	// UpdateTask applies a partial update and returns the canonical task
	UpdateTask(ctx context.Context, id string, patch entity.TaskPatch) (entity.Task, error)

	// DeleteTask removes a task from the task store
	DeleteTask(ctx context.Context, id string) error

	// ArchiveTask inserts a full task record into the trash store
	ArchiveTask(ctx context.Context, task entity.Task) (entity.Task, error)

	// UnarchiveTask removes a task from the trash store
	UnarchiveTask(ctx context.Context, id string) error
}
