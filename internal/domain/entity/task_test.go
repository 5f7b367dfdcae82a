package entity

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"taskdeck/internal/domain/valueobject"
)

func TestTaskPatchMarshalOnlySetFields(t *testing.T) {
	title := "new title"
	tests := []struct {
		name  string
		patch TaskPatch
		want  map[string]interface{}
	}{
		{
			name:  "status only",
			patch: StatusPatch(valueobject.StatusDone),
			want:  map[string]interface{}{"status": "done"},
		},
		{
			name:  "empty tags clear the field",
			patch: TaskPatch{Title: &title, Tags: []string{}},
			want:  map[string]interface{}{"title": "new title", "tags": []interface{}{}},
		},
		{
			name:  "nothing set",
			patch: TaskPatch{},
			want:  map[string]interface{}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.patch)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var got map[string]interface{}
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("patch body mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTaskPatchApply(t *testing.T) {
	orig := newTestTask("a", "old")
	orig.Tags = []string{"keep"}
	orig.Due = "2026-10-01"

	due := ""
	prio := valueobject.PriorityHigh
	got := TaskPatch{Due: &due, Priority: &prio, Subtasks: []Subtask{{Text: "s"}}}.Apply(orig)

	want := orig.Clone()
	want.Due = ""
	want.Priority = valueobject.PriorityHigh
	want.Subtasks = []Subtask{{Text: "s"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("apply mismatch (-want +got):\n%s", diff)
	}
	if orig.Due != "2026-10-01" {
		t.Errorf("apply modified its input")
	}
}

func TestTaskPatchValidate(t *testing.T) {
	blank := "  "
	bad := valueobject.Priority("urgent")
	for name, p := range map[string]TaskPatch{
		"blank title":  {Title: &blank},
		"bad priority": {Priority: &bad},
		"blank tag":    {Tags: []string{"ok", " "}},
	} {
		if err := p.Validate(); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected validation error, got %v", name, err)
		}
	}
	if err := StatusPatch(valueobject.StatusTodo).Validate(); err != nil {
		t.Errorf("status patch should be valid: %v", err)
	}
}

func TestWithoutIDDoesNotShareSlices(t *testing.T) {
	tk := newTestTask("a", "t")
	tk.Tags = []string{"x"}
	c := tk.WithoutID()
	c.Tags[0] = "y"
	if c.ID != "" || tk.Tags[0] != "x" {
		t.Fatalf("WithoutID = %+v, original tags %v", c, tk.Tags)
	}
}

func TestSubtaskProgress(t *testing.T) {
	tk := newTestTask("a", "t")
	tk.Subtasks = []Subtask{{Text: "1", Done: true}, {Text: "2"}, {Text: "3", Done: true}}
	done, total := tk.SubtaskProgress()
	if done != 2 || total != 3 {
		t.Fatalf("progress = %d/%d, want 2/3", done, total)
	}
}
