// Package filter derives the per-column board view from the active tasks.
package filter

import (
	"strings"

	"taskdeck/internal/domain/entity"
	"taskdeck/internal/domain/valueobject"
)

// Columns holds the visible tasks grouped by status, each group in collection order
type Columns struct {
	Todo       []entity.Task `json:"todo"`
	InProgress []entity.Task `json:"in-progress"`
	Done       []entity.Task `json:"done"`
}

// For returns the group for a status
func (c Columns) For(status valueobject.Status) []entity.Task {
	switch status {
	case valueobject.StatusTodo:
		return c.Todo
	case valueobject.StatusInProgress:
		return c.InProgress
	case valueobject.StatusDone:
		return c.Done
	default:
		return nil
	}
}

// Count returns the number of visible tasks
func (c Columns) Count() int {
	return len(c.Todo) + len(c.InProgress) + len(c.Done)
}

// Visible filters tasks by search term and priority and groups them by status.
// It never modifies its input.
func Visible(tasks []entity.Task, search string, priority valueobject.PriorityFilter) Columns {
	cols := Columns{
		Todo:       make([]entity.Task, 0),
		InProgress: make([]entity.Task, 0),
		Done:       make([]entity.Task, 0),
	}
	term := strings.ToLower(search)

	for _, t := range tasks {
		if !MatchesSearch(t, term) || !priority.Matches(t.Priority) {
			continue
		}
		switch t.Status {
		case valueobject.StatusTodo:
			cols.Todo = append(cols.Todo, t.Clone())
		case valueobject.StatusInProgress:
			cols.InProgress = append(cols.InProgress, t.Clone())
		case valueobject.StatusDone:
			cols.Done = append(cols.Done, t.Clone())
		}
	}
	return cols
}

// MatchesSearch reports whether a lowercased term occurs in the task title
// or in its space-joined tags. An empty term matches everything.
func MatchesSearch(t entity.Task, term string) bool {
	if term == "" {
		return true
	}
	title, tags := t.SearchText()
	return strings.Contains(title, term) || strings.Contains(tags, term)
}
