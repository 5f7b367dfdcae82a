package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"taskdeck/internal/domain/entity"
	"taskdeck/internal/domain/repository"
	"taskdeck/internal/domain/valueobject"
	"taskdeck/internal/infrastructure/logging"
)

// memoryRepo is an in-memory TaskRepository
type memoryRepo struct {
	mu      sync.Mutex
	buckets map[repository.Bucket][]entity.Task
	loadErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{buckets: map[repository.Bucket][]entity.Task{}}
}

func (m *memoryRepo) Load(ctx context.Context, bucket repository.Bucket) ([]entity.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]entity.Task{}, m.buckets[bucket]...), nil
}

func (m *memoryRepo) Update(ctx context.Context, bucket repository.Bucket, fn func([]entity.Task) ([]entity.Task, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, err := fn(append([]entity.Task{}, m.buckets[bucket]...))
	if err != nil {
		return err
	}
	m.buckets[bucket] = next
	return nil
}

func newService() (*TaskService, *memoryRepo) {
	repo := newMemoryRepo()
	return NewTaskService(repo, logging.Discard()), repo
}

func TestCreateAssignsIDAndDefaults(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, entity.Task{Title: "new"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := uuid.Parse(created.ID); err != nil {
		t.Fatalf("expected a uuid id, got %q", created.ID)
	}
	want := entity.Task{
		ID:       created.ID,
		Title:    "new",
		Tags:     []string{},
		Priority: valueobject.PriorityLow,
		Status:   valueobject.StatusTodo,
		Subtasks: []entity.Subtask{},
	}
	if diff := cmp.Diff(want, created); diff != "" {
		t.Errorf("created task mismatch (-want +got):\n%s", diff)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stored task mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, entity.Task{}); !errors.Is(err, entity.ErrValidation) {
		t.Fatalf("expected validation error for missing title, got %v", err)
	}
	if _, err := svc.Create(ctx, entity.Task{Title: "   "}); !errors.Is(err, entity.ErrValidation) {
		t.Fatalf("expected validation error for blank title, got %v", err)
	}
	if _, err := svc.Archive(ctx, entity.Task{ID: "blank", Title: " \t"}); !errors.Is(err, entity.ErrValidation) {
		t.Fatalf("expected validation error for blank archived title, got %v", err)
	}
	trimmed, err := svc.Create(ctx, entity.Task{Title: "  padded  "})
	if err != nil {
		t.Fatalf("create padded: %v", err)
	}
	if trimmed.Title != "padded" {
		t.Errorf("title = %q, want %q", trimmed.Title, "padded")
	}
	if _, err := svc.Create(ctx, entity.Task{Title: "x", Priority: "urgent"}); !errors.Is(err, entity.ErrValidation) {
		t.Fatalf("expected validation error for priority, got %v", err)
	}
	if _, err := svc.Create(ctx, entity.Task{ID: "fixed", Title: "x"}); err != nil {
		t.Fatalf("create with id: %v", err)
	}
	if _, err := svc.Create(ctx, entity.Task{ID: "fixed", Title: "y"}); !errors.Is(err, entity.ErrDuplicateID) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestUpdateMergesFields(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, entity.Task{ID: "1", Title: "old", Tags: []string{"a"}, Priority: valueobject.PriorityHigh})

	updated, err := svc.Update(ctx, "1", entity.StatusPatch(valueobject.StatusDone))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	want := created.Clone()
	want.Status = valueobject.StatusDone
	if diff := cmp.Diff(want, updated); diff != "" {
		t.Errorf("updated task mismatch (-want +got):\n%s", diff)
	}

	if _, err := svc.Update(ctx, "missing", entity.StatusPatch(valueobject.StatusDone)); !errors.Is(err, entity.ErrTaskNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	blank := ""
	if _, err := svc.Update(ctx, "1", entity.TaskPatch{Title: &blank}); !errors.Is(err, entity.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteArchiveUnarchive(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	task, _ := svc.Create(ctx, entity.Task{ID: "1", Title: "t"})

	if err := svc.Delete(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, "1"); !errors.Is(err, entity.ErrTaskNotFound) {
		t.Fatalf("second delete should be not found, got %v", err)
	}

	if _, err := svc.Archive(ctx, task); err != nil {
		t.Fatalf("archive: %v", err)
	}
	// Archiving the same id again replaces the entry.
	task.Title = "t2"
	if _, err := svc.Archive(ctx, task); err != nil {
		t.Fatalf("re-archive: %v", err)
	}
	trash, _ := svc.ListTrash(ctx)
	if len(trash) != 1 || trash[0].Title != "t2" {
		t.Fatalf("unexpected trash: %+v", trash)
	}
	if _, err := svc.Archive(ctx, entity.Task{Title: "no id"}); !errors.Is(err, entity.ErrEmptyTaskID) {
		t.Fatalf("expected empty id error, got %v", err)
	}

	if err := svc.Unarchive(ctx, "1"); err != nil {
		t.Fatalf("unarchive: %v", err)
	}
	var nf *entity.NotFoundError
	if err := svc.Unarchive(ctx, "1"); !errors.As(err, &nf) || nf.Collection != entity.TrashCollectionName {
		t.Fatalf("expected trash not found, got %v", err)
	}
}

func TestEmptyTrashAndCounts(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	_, _ = svc.Create(ctx, entity.Task{Title: "active"})
	for _, id := range []string{"a", "b"} {
		if _, err := svc.Archive(ctx, entity.Task{ID: id, Title: id}); err != nil {
			t.Fatalf("archive: %v", err)
		}
	}

	counts, err := svc.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if diff := cmp.Diff(Counts{Tasks: 1, Trash: 2}, counts); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}

	removed, err := svc.EmptyTrash(ctx)
	if err != nil || removed != 2 {
		t.Fatalf("empty trash = %d, %v", removed, err)
	}
	if trash, _ := svc.ListTrash(ctx); len(trash) != 0 {
		t.Fatalf("trash not empty: %+v", trash)
	}
}

func TestCountsWrapsRepositoryError(t *testing.T) {
	svc, repo := newService()
	repo.loadErr = errors.New("disk gone")
	if _, err := svc.Counts(context.Background()); !errors.Is(err, repo.loadErr) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
