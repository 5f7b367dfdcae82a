package dragdrop

import (
	"context"
	"errors"
	"sync"
	"testing"

	"taskdeck/internal/domain/entity"
	"taskdeck/internal/domain/valueobject"
)

type moveCall struct {
	id     string
	status valueobject.Status
}

type fakeMover struct {
	mu    sync.Mutex
	calls []moveCall
	err   error
}

func (f *fakeMover) MoveTask(ctx context.Context, id string, status valueobject.Status) (entity.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, moveCall{id, status})
	if f.err != nil {
		return entity.Task{}, f.err
	}
	return entity.Task{ID: id, Status: status}, nil
}

func TestDropIssuesExactlyOneMove(t *testing.T) {
	for _, target := range valueobject.Statuses() {
		mover := &fakeMover{}
		c := NewController(mover)

		got, err := c.Drop(context.Background(), Gesture{SourceID: "t1", Target: target})
		if err != nil {
			t.Fatalf("drop on %s: %v", target, err)
		}
		if got.Status != target {
			t.Errorf("drop on %s returned status %s", target, got.Status)
		}
		if len(mover.calls) != 1 || mover.calls[0] != (moveCall{"t1", target}) {
			t.Errorf("drop on %s: calls = %+v", target, mover.calls)
		}
	}
}

func TestDropWithoutSourceDoesNothing(t *testing.T) {
	mover := &fakeMover{}
	c := NewController(mover)

	_, err := c.Drop(context.Background(), Gesture{Target: valueobject.StatusDone})
	if !errors.Is(err, entity.ErrNoDragSource) {
		t.Fatalf("expected ErrNoDragSource, got %v", err)
	}
	if _, err := c.Drop(context.Background(), Gesture{SourceID: "t1", Target: "archived"}); !errors.Is(err, entity.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(mover.calls) != 0 {
		t.Fatalf("expected no moves, got %+v", mover.calls)
	}
}

func TestDropPassesMoverErrorThrough(t *testing.T) {
	boom := errors.New("boom")
	c := NewController(&fakeMover{err: boom})
	if _, err := c.Drop(context.Background(), Gesture{SourceID: "t1", Target: valueobject.StatusTodo}); !errors.Is(err, boom) {
		t.Fatalf("expected mover error, got %v", err)
	}
}
