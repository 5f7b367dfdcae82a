package mapper

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"taskdeck/internal/domain/entity"
	"taskdeck/internal/domain/valueobject"
)

func TestTaskFromStorageDefaults(t *testing.T) {
	got, err := TaskFromStorage(TaskStorage{ID: "1", Title: "bare"})
	if err != nil {
		t.Fatalf("from storage: %v", err)
	}
	want := entity.Task{
		ID:       "1",
		Title:    "bare",
		Tags:     []string{},
		Priority: valueobject.PriorityLow,
		Status:   valueobject.StatusTodo,
		Subtasks: []entity.Subtask{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("task mismatch (-want +got):\n%s", diff)
	}
}

func TestTaskFromStorageRejectsBadRecords(t *testing.T) {
	for name, rec := range map[string]TaskStorage{
		"missing id":   {Title: "x"},
		"bad priority": {ID: "1", Priority: "urgent"},
		"bad status":   {ID: "1", Status: "blocked"},
	} {
		if _, err := TaskFromStorage(rec); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if _, err := TasksFromStorage([]TaskStorage{{ID: "1"}, {ID: ""}}); err == nil {
		t.Error("expected list conversion to fail on the bad record")
	}
}

func TestTaskStorageDueIsNullWhenEmpty(t *testing.T) {
	task := entity.Task{ID: "1", Title: "t", Priority: valueobject.PriorityHigh, Status: valueobject.StatusDone}
	if s := TaskToStorage(task); s.Due != nil || s.Tags == nil || s.Subtasks == nil {
		t.Fatalf("unexpected storage record: %+v", s)
	}

	task.Due = "2026-12-24"
	task.Subtasks = []entity.Subtask{{Text: "wrap", Done: true}}
	back, err := TaskFromStorage(TaskToStorage(task))
	if err != nil {
		t.Fatalf("from storage: %v", err)
	}
	task.Tags = []string{}
	if diff := cmp.Diff(task, back); diff != "" {
		t.Errorf("task mismatch (-want +got):\n%s", diff)
	}
}
