package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"taskdeck/internal/domain/entity"
	"taskdeck/internal/domain/repository"
	"taskdeck/internal/domain/valueobject"
	"taskdeck/internal/infrastructure/logging"
)

func newRepo(t *testing.T) (*TaskRepositoryImpl, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "store")
	repo, err := NewTaskRepository(dir, logging.Discard())
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	return repo, dir
}

func storedTask(id string) entity.Task {
	return entity.Task{
		ID:       id,
		Title:    "task " + id,
		Tags:     []string{"t"},
		Priority: valueobject.PriorityMedium,
		Status:   valueobject.StatusInProgress,
		Subtasks: []entity.Subtask{},
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	repo, _ := newRepo(t)
	for _, b := range []repository.Bucket{repository.BucketTasks, repository.BucketTrash} {
		tasks, err := repo.Load(context.Background(), b)
		if err != nil {
			t.Fatalf("load %s: %v", b, err)
		}
		if tasks == nil || len(tasks) != 0 {
			t.Fatalf("load %s = %#v, want empty", b, tasks)
		}
	}
}

func TestUpdatePersistsInOrder(t *testing.T) {
	repo, dir := newRepo(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		id := id
		err := repo.Update(ctx, repository.BucketTasks, func(tasks []entity.Task) ([]entity.Task, error) {
			return append(tasks, storedTask(id)), nil
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
	}

	// A second repository over the same directory sees the same data.
	other, err := NewTaskRepository(dir, logging.Discard())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := other.Load(ctx, repository.BucketTasks)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []entity.Task{storedTask("a"), storedTask("b"), storedTask("c")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tasks mismatch (-want +got):\n%s", diff)
	}

	trash, _ := other.Load(ctx, repository.BucketTrash)
	if len(trash) != 0 {
		t.Errorf("trash should be untouched, got %d", len(trash))
	}
}

func TestUpdateErrorLeavesFileUnchanged(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	_ = repo.Update(ctx, repository.BucketTrash, func(tasks []entity.Task) ([]entity.Task, error) {
		return append(tasks, storedTask("x")), nil
	})

	boom := errors.New("boom")
	err := repo.Update(ctx, repository.BucketTrash, func(tasks []entity.Task) ([]entity.Task, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	got, _ := repo.Load(ctx, repository.BucketTrash)
	if len(got) != 1 || got[0].ID != "x" {
		t.Fatalf("trash changed after failed update: %+v", got)
	}
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	repo, dir := newRepo(t)
	if err := os.WriteFile(filepath.Join(dir, "tasks.json"), []byte("{nope"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Load(context.Background(), repository.BucketTasks); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestConcurrentUpdatesAreSerialized(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Update(ctx, repository.BucketTasks, func(tasks []entity.Task) ([]entity.Task, error) {
				return append(tasks, storedTask(string(rune('a'+i)))), nil
			})
			if err != nil {
				t.Errorf("update %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	got, err := repo.Load(ctx, repository.BucketTasks)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 20 {
		t.Fatalf("expected 20 tasks, got %d", len(got))
	}
}

func TestPathBuilder(t *testing.T) {
	pb := NewPathBuilder("/data")
	if b, ok := pb.BucketForFile(pb.BucketFile(repository.BucketTrash)); !ok || b != repository.BucketTrash {
		t.Errorf("trash file maps to %q, %v", b, ok)
	}
	if b, ok := pb.BucketForFile("/data/tasks.json"); !ok || b != repository.BucketTasks {
		t.Errorf("tasks file maps to %q, %v", b, ok)
	}
	if _, ok := pb.BucketForFile(pb.LockFile()); ok {
		t.Error("lock file is not a bucket")
	}
}

func TestInvalidatedReadIsNotCached(t *testing.T) {
	repo, _ := newRepo(t)
	repo.mu.Lock()
	repo.watching = true
	repo.mu.Unlock()

	stale := []entity.Task{storedTask("old")}
	gen := repo.generation(repository.BucketTasks)
	repo.invalidate(repository.BucketTasks)
	repo.rememberAt(repository.BucketTasks, stale, gen)
	if _, ok := repo.cached(repository.BucketTasks); ok {
		t.Fatal("a read that raced an invalidation must not be cached")
	}

	repo.rememberAt(repository.BucketTasks, stale, repo.generation(repository.BucketTasks))
	got, ok := repo.cached(repository.BucketTasks)
	if !ok {
		t.Fatal("a current read should be cached")
	}
	if diff := cmp.Diff(stale, got); diff != "" {
		t.Errorf("cached mismatch (-want +got):\n%s", diff)
	}
}
