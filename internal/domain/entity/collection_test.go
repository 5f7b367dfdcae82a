package entity

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"taskdeck/internal/domain/valueobject"
)

func newTestTask(id, title string) Task {
	return Task{
		ID:       id,
		Title:    title,
		Tags:     []string{},
		Priority: valueobject.PriorityLow,
		Status:   valueobject.StatusTodo,
		Subtasks: []Subtask{},
	}
}

func collectionIDs(c *Collection) []string {
	var out []string
	for _, t := range c.All() {
		out = append(out, t.ID)
	}
	return out
}

func TestCollectionRejectsDuplicates(t *testing.T) {
	c := NewTaskCollection()
	if err := c.Insert(newTestTask("a", "first")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	err := c.Insert(newTestTask("a", "again"))
	var dup *DuplicateIDError
	if !errors.As(err, &dup) || dup.Collection != TasksCollectionName {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if err := c.Insert(newTestTask("", "no id")); !errors.Is(err, ErrEmptyTaskID) {
		t.Fatalf("expected empty id error, got %v", err)
	}

	err = c.ReplaceAll([]Task{newTestTask("x", "1"), newTestTask("x", "2")})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected duplicate error from ReplaceAll, got %v", err)
	}
	if diff := cmp.Diff([]string{"a"}, collectionIDs(c)); diff != "" {
		t.Errorf("failed ReplaceAll changed contents (-want +got):\n%s", diff)
	}
}

func TestCollectionRemoveKeepsIndexConsistent(t *testing.T) {
	c := NewTrashCollection()
	if err := c.ReplaceAll([]Task{newTestTask("a", "1"), newTestTask("b", "2"), newTestTask("c", "3"), newTestTask("d", "4")}); err != nil {
		t.Fatalf("replace all: %v", err)
	}

	removed, err := c.Remove("b")
	if err != nil || removed.Title != "2" {
		t.Fatalf("remove b = %+v, %v", removed, err)
	}
	if diff := cmp.Diff([]string{"a", "c", "d"}, collectionIDs(c)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	for _, id := range []string{"a", "c", "d"} {
		got, err := c.Get(id)
		if err != nil || got.ID != id {
			t.Errorf("get %s = %+v, %v", id, got, err)
		}
	}
	if _, err := c.Remove("b"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	var nf *NotFoundError
	if _, err := c.Get("zzz"); !errors.As(err, &nf) || nf.Collection != TrashCollectionName {
		t.Fatalf("expected trash not found error, got %v", err)
	}
}

func TestCollectionReplace(t *testing.T) {
	c := NewTaskCollection()
	_ = c.ReplaceAll([]Task{newTestTask("a", "1"), newTestTask("b", "2")})

	if err := c.Replace("a", newTestTask("a2", "renamed")); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if diff := cmp.Diff([]string{"a2", "b"}, collectionIDs(c)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if c.Has("a") {
		t.Errorf("old id should be gone")
	}
	if err := c.Replace("a2", newTestTask("b", "clash")); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if err := c.Replace("missing", newTestTask("missing", "x")); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCollectionReturnsCopies(t *testing.T) {
	c := NewTaskCollection()
	tk := newTestTask("a", "1")
	tk.Tags = []string{"x"}
	_ = c.Insert(tk)

	tk.Tags[0] = "mutated"
	got, _ := c.Get("a")
	got.Tags[0] = "also mutated"

	again, _ := c.Get("a")
	if again.Tags[0] != "x" {
		t.Fatalf("collection shares memory with callers: %v", again.Tags)
	}
}
