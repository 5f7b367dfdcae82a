package mapper

import (
	"fmt"

	"taskdeck/internal/domain/entity"
	"taskdeck/internal/domain/valueobject"
)

// SubtaskStorage represents subtask storage format
type SubtaskStorage struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// TaskStorage represents task storage format
type TaskStorage struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Tags     []string         `json:"tags"`
	Priority string           `json:"priority"`
	Due      *string          `json:"due"`
	Status   string           `json:"status"`
	Subtasks []SubtaskStorage `json:"subtasks"`
}

// TaskToStorage converts a Task entity to storage format
func TaskToStorage(task entity.Task) TaskStorage {
	storage := TaskStorage{
		ID:       task.ID,
		Title:    task.Title,
		Tags:     make([]string, 0, len(task.Tags)),
		Priority: task.Priority.String(),
		Status:   task.Status.String(),
		Subtasks: make([]SubtaskStorage, 0, len(task.Subtasks)),
	}
	storage.Tags = append(storage.Tags, task.Tags...)
	if task.Due != "" {
		due := task.Due
		storage.Due = &due
	}
	for _, st := range task.Subtasks {
		storage.Subtasks = append(storage.Subtasks, SubtaskStorage{Text: st.Text, Done: st.Done})
	}
	return storage
}

// TaskFromStorage converts storage format to a Task entity. Missing priority
// and status fall back to low and todo.
func TaskFromStorage(storage TaskStorage) (entity.Task, error) {
	if storage.ID == "" {
		return entity.Task{}, fmt.Errorf("missing task id")
	}

	priorityStr := storage.Priority
	if priorityStr == "" {
		priorityStr = string(valueobject.PriorityLow)
	}
	priority, err := valueobject.ParsePriority(priorityStr)
	if err != nil {
		return entity.Task{}, fmt.Errorf("task %s: %w", storage.ID, err)
	}

	statusStr := storage.Status
	if statusStr == "" {
		statusStr = string(valueobject.StatusTodo)
	}
	status, err := valueobject.ParseStatus(statusStr)
	if err != nil {
		return entity.Task{}, fmt.Errorf("task %s: %w", storage.ID, err)
	}

	task := entity.Task{
		ID:       storage.ID,
		Title:    storage.Title,
		Tags:     make([]string, 0, len(storage.Tags)),
		Priority: priority,
		Status:   status,
		Subtasks: make([]entity.Subtask, 0, len(storage.Subtasks)),
	}
	task.Tags = append(task.Tags, storage.Tags...)
	if storage.Due != nil {
		task.Due = *storage.Due
	}
	for _, st := range storage.Subtasks {
		task.Subtasks = append(task.Subtasks, entity.Subtask{Text: st.Text, Done: st.Done})
	}
	return task, nil
}

// TasksToStorage converts a list of tasks
func TasksToStorage(tasks []entity.Task) []TaskStorage {
	out := make([]TaskStorage, len(tasks))
	for i, t := range tasks {
		out[i] = TaskToStorage(t)
	}
	return out
}

// TasksFromStorage converts a list of stored tasks, failing on the first bad record
func TasksFromStorage(records []TaskStorage) ([]entity.Task, error) {
	out := make([]entity.Task, 0, len(records))
	for _, r := range records {
		t, err := TaskFromStorage(r)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
