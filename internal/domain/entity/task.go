package entity

import (
	"encoding/json"
	"strings"

	"taskdeck/internal/domain/valueobject"
)

// Subtask is a checklist item embedded in a task. It has no identity of its own.
type Subtask struct {
	Text string `json:"text" yaml:"text"`
	Done bool   `json:"done" yaml:"done"`
}

// Task represents a work item on the board
type Task struct {
	ID       string               `json:"id,omitempty" yaml:"id"`
	Title    string               `json:"title" yaml:"title"`
	Tags     []string             `json:"tags" yaml:"tags"`
	Priority valueobject.Priority `json:"priority" yaml:"priority"`
	Due      string               `json:"due" yaml:"due,omitempty"`
	Status   valueobject.Status   `json:"status" yaml:"status"`
	Subtasks []Subtask            `json:"subtasks" yaml:"subtasks"`
}

// NewTask creates a task without an ID, ready to be sent to the store
func NewTask(title string, priority valueobject.Priority, status valueobject.Status) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, NewValidationError("title", "task title is required")
	}
	if !priority.IsValid() {
		return nil, ErrInvalidPriority
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	return &Task{
		Title:    title,
		Tags:     make([]string, 0),
		Priority: priority,
		Status:   status,
		Subtasks: make([]Subtask, 0),
	}, nil
}

// Clone returns a deep copy of the task
func (t Task) Clone() Task {
	c := t
	if t.Tags != nil {
		c.Tags = make([]string, len(t.Tags))
		copy(c.Tags, t.Tags)
	}
	if t.Subtasks != nil {
		c.Subtasks = make([]Subtask, len(t.Subtasks))
		copy(c.Subtasks, t.Subtasks)
	}
	return c
}

// WithoutID returns a copy with the ID cleared, so the store assigns a fresh one
func (t Task) WithoutID() Task {
	c := t.Clone()
	c.ID = ""
	return c
}

// SubtaskProgress returns completed and total subtask counts
func (t Task) SubtaskProgress() (done, total int) {
	for _, st := range t.Subtasks {
		if st.Done {
			done++
		}
	}
	return done, len(t.Subtasks)
}

// SearchText is the lowercased text a search term is matched against
func (t Task) SearchText() (title, tags string) {
	return strings.ToLower(t.Title), strings.ToLower(strings.Join(t.Tags, " "))
}

// TaskPatch carries the fields of a partial update. Nil fields are not sent;
// an empty non-nil slice clears the field.
type TaskPatch struct {
	Title    *string               `json:"title"`
	Tags     []string              `json:"tags"`
	Priority *valueobject.Priority `json:"priority"`
	Due      *string               `json:"due"`
	Status   *valueobject.Status   `json:"status"`
	Subtasks []Subtask             `json:"subtasks"`
}

// MarshalJSON writes only the fields that are set
func (p TaskPatch) MarshalJSON() ([]byte, error) {
	fields := make(map[string]interface{})
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Tags != nil {
		fields["tags"] = p.Tags
	}
	if p.Priority != nil {
		fields["priority"] = *p.Priority
	}
	if p.Due != nil {
		fields["due"] = *p.Due
	}
	if p.Status != nil {
		fields["status"] = *p.Status
	}
	if p.Subtasks != nil {
		fields["subtasks"] = p.Subtasks
	}
	return json.Marshal(fields)
}

// StatusPatch builds a patch that only changes the status
func StatusPatch(status valueobject.Status) TaskPatch {
	return TaskPatch{Status: &status}
}

// IsEmpty reports whether the patch changes nothing
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Tags == nil && p.Priority == nil &&
		p.Due == nil && p.Status == nil && p.Subtasks == nil
}

// Validate checks the fields that are set
func (p TaskPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return NewValidationError("title", "task title is required")
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		return NewValidationError("priority", ErrInvalidPriority.Error())
	}
	if p.Status != nil && !p.Status.IsValid() {
		return NewValidationError("status", ErrInvalidStatus.Error())
	}
	for _, tag := range p.Tags {
		if strings.TrimSpace(tag) == "" {
			return NewValidationError("tags", "tags cannot be empty")
		}
	}
	return nil
}

// Apply merges the set fields of the patch into a copy of t
func (p TaskPatch) Apply(t Task) Task {
	out := t.Clone()
	if p.Title != nil {
		out.Title = strings.TrimSpace(*p.Title)
	}
	if p.Tags != nil {
		out.Tags = make([]string, len(p.Tags))
		copy(out.Tags, p.Tags)
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.Due != nil {
		out.Due = *p.Due
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Subtasks != nil {
		out.Subtasks = make([]Subtask, len(p.Subtasks))
		copy(out.Subtasks, p.Subtasks)
	}
	return out
}
