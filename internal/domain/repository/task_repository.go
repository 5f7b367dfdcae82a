package repository

import (
	"context"

	"taskdeck/internal/domain/entity"
)

// Bucket names one of the server-side task lists
type Bucket string

const (
	BucketTasks Bucket = "tasks"
	BucketTrash Bucket = "trash"
)

// TaskRepository defines server-side persistence for the task and trash lists
type TaskRepository interface {
	// Load returns the tasks stored in a bucket, in insertion order
	Load(ctx context.Context, bucket Bucket) ([]entity.Task, error)

	// Update loads a bucket, hands it to fn and saves what fn returns.
	// The whole cycle holds an exclusive lock.
	Update(ctx context.Context, bucket Bucket, fn func([]entity.Task) ([]entity.Task, error)) error
}
