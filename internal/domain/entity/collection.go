package entity

const (
	TasksCollectionName = "tasks"
	TrashCollectionName = "trash"
)

// Collection is an ordered set of tasks keyed by id. It is not safe for
// concurrent use; the owner serializes access.
type Collection struct {
	name  string
	tasks []Task
	index map[string]int
}

// NewCollection creates an empty named collection
func NewCollection(name string) *Collection {
	return &Collection{
		name:  name,
		tasks: make([]Task, 0),
		index: make(map[string]int),
	}
}

// NewTaskCollection creates the collection of active tasks
func NewTaskCollection() *Collection {
	return NewCollection(TasksCollectionName)
}

// NewTrashCollection creates the collection of soft-deleted tasks
func NewTrashCollection() *Collection {
	return NewCollection(TrashCollectionName)
}

// Name returns the collection name
func (c *Collection) Name() string {
	return c.name
}

// ReplaceAll loads tasks wholesale, keeping their order
func (c *Collection) ReplaceAll(tasks []Task) error {
	next := make([]Task, 0, len(tasks))
	index := make(map[string]int, len(tasks))
	for _, t := range tasks {
		if t.ID == "" {
			return ErrEmptyTaskID
		}
		if _, ok := index[t.ID]; ok {
			return &DuplicateIDError{Collection: c.name, ID: t.ID}
		}
		index[t.ID] = len(next)
		next = append(next, t.Clone())
	}
	c.tasks = next
	c.index = index
	return nil
}

// Insert appends a task
func (c *Collection) Insert(task Task) error {
	if task.ID == "" {
		return ErrEmptyTaskID
	}
	if _, ok := c.index[task.ID]; ok {
		return &DuplicateIDError{Collection: c.name, ID: task.ID}
	}
	c.index[task.ID] = len(c.tasks)
	c.tasks = append(c.tasks, task.Clone())
	return nil
}

// Replace swaps the task stored under id, keeping its position.
// The replacement may carry a different id as long as it stays unique.
func (c *Collection) Replace(id string, task Task) error {
	i, ok := c.index[id]
	if !ok {
		return &NotFoundError{Collection: c.name, ID: id}
	}
	if task.ID == "" {
		return ErrEmptyTaskID
	}
	if task.ID != id {
		if _, taken := c.index[task.ID]; taken {
			return &DuplicateIDError{Collection: c.name, ID: task.ID}
		}
		delete(c.index, id)
		c.index[task.ID] = i
	}
	c.tasks[i] = task.Clone()
	return nil
}

// Remove deletes the task stored under id and returns it
func (c *Collection) Remove(id string) (Task, error) {
	i, ok := c.index[id]
	if !ok {
		return Task{}, &NotFoundError{Collection: c.name, ID: id}
	}
	removed := c.tasks[i]
	c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
	delete(c.index, id)
	for j := i; j < len(c.tasks); j++ {
		c.index[c.tasks[j].ID] = j
	}
	return removed, nil
}

// Get returns a copy of the task stored under id
func (c *Collection) Get(id string) (Task, error) {
	i, ok := c.index[id]
	if !ok {
		return Task{}, &NotFoundError{Collection: c.name, ID: id}
	}
	return c.tasks[i].Clone(), nil
}

// Has checks if id is present
func (c *Collection) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Len returns the number of tasks
func (c *Collection) Len() int {
	return len(c.tasks)
}

// All returns a copy of every task in order
func (c *Collection) All() []Task {
	out := make([]Task, len(c.tasks))
	for i, t := range c.tasks {
		out[i] = t.Clone()
	}
	return out
}
