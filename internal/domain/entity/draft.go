package entity

import (
	"strings"

	"taskdeck/internal/domain/valueobject"
)

// Draft is the unsaved state of one create or edit session. It is handed to
// the sync engine at save time and discarded afterwards.
type Draft struct {
	TaskID   string // empty when creating
	Title    string
	Tags     []string
	Priority valueobject.Priority
	Due      string
	Status   valueobject.Status
	Subtasks []Subtask
}

// NewDraft starts a create session with default values
func NewDraft() *Draft {
	return &Draft{
		Tags:     make([]string, 0),
		Priority: valueobject.PriorityLow,
		Status:   valueobject.StatusTodo,
		Subtasks: make([]Subtask, 0),
	}
}

// DraftFromTask starts an edit session for an existing task
func DraftFromTask(t Task) *Draft {
	c := t.Clone()
	d := &Draft{
		TaskID:   c.ID,
		Title:    c.Title,
		Tags:     c.Tags,
		Priority: c.Priority,
		Due:      c.Due,
		Status:   c.Status,
		Subtasks: c.Subtasks,
	}
	if d.Tags == nil {
		d.Tags = make([]string, 0)
	}
	if d.Subtasks == nil {
		d.Subtasks = make([]Subtask, 0)
	}
	return d
}

// IsEdit reports whether the draft edits an existing task
func (d *Draft) IsEdit() bool {
	return d.TaskID != ""
}

// SetTags parses a comma separated tag list, dropping blanks
func (d *Draft) SetTags(raw string) {
	d.Tags = ParseTags(raw)
}

// TagString joins the tags back into the form SetTags accepts
func (d *Draft) TagString() string {
	return strings.Join(d.Tags, ", ")
}

// AddSubtask appends a subtask; blank text is ignored
func (d *Draft) AddSubtask(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	d.Subtasks = append(d.Subtasks, Subtask{Text: text})
	return true
}

// ToggleSubtask flips the done flag of the subtask at i
func (d *Draft) ToggleSubtask(i int) error {
	if i < 0 || i >= len(d.Subtasks) {
		return ErrInvalidSubtask
	}
	d.Subtasks[i].Done = !d.Subtasks[i].Done
	return nil
}

// RemoveSubtask deletes the subtask at i, keeping the order of the rest
func (d *Draft) RemoveSubtask(i int) error {
	if i < 0 || i >= len(d.Subtasks) {
		return ErrInvalidSubtask
	}
	d.Subtasks = append(d.Subtasks[:i], d.Subtasks[i+1:]...)
	return nil
}

// Validate checks the draft before it is sent anywhere
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return NewValidationError("title", "task title is required")
	}
	if !d.Priority.IsValid() {
		return NewValidationError("priority", ErrInvalidPriority.Error())
	}
	if d.Status != "" && !d.Status.IsValid() {
		return NewValidationError("status", ErrInvalidStatus.Error())
	}
	return nil
}

// NewTask builds the id-less payload for a create call
func (d *Draft) NewTask() Task {
	status := d.Status
	if status == "" {
		status = valueobject.StatusTodo
	}
	t := Task{
		Title:    strings.TrimSpace(d.Title),
		Tags:     make([]string, len(d.Tags)),
		Priority: d.Priority,
		Due:      d.Due,
		Status:   status,
		Subtasks: make([]Subtask, len(d.Subtasks)),
	}
	copy(t.Tags, d.Tags)
	copy(t.Subtasks, d.Subtasks)
	return t
}

// Patch builds a full update carrying every editable field
func (d *Draft) Patch() TaskPatch {
	t := d.NewTask()
	return TaskPatch{
		Title:    &t.Title,
		Tags:     t.Tags,
		Priority: &t.Priority,
		Due:      &t.Due,
		Status:   &t.Status,
		Subtasks: t.Subtasks,
	}
}

// ParseTags splits a comma separated list, trimming and dropping blanks
func ParseTags(raw string) []string {
	tags := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
