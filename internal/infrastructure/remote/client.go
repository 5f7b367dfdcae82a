package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"taskdeck/internal/domain/entity"
	"taskdeck/internal/domain/repository"
	"taskdeck/internal/domain/valueobject"
	"taskdeck/internal/infrastructure/config"
)

// Operation names carried by StoreError
const (
	OpListTasks     = "listTasks"
	OpListTrash     = "listTrash"
	OpCreateTask    = "createTask"
	OpUpdateTask    = "updateTask"
	OpDeleteTask    = "deleteTask"
	OpArchiveTask   = "archiveTask"
	OpUnarchiveTask = "unarchiveTask"
	OpEmptyTrash    = "emptyTrash"
	OpHealth        = "health"
)

// Client talks to the task store over HTTP+JSON
type Client struct {
	baseURL string
	http    *http.Client
	logger  log.FieldLogger
}

var _ repository.RemoteStore = (*Client)(nil)

// NewClient creates a client for the store configured in cfg
func NewClient(cfg *config.Config, logger log.FieldLogger) *Client {
	return NewClientWithHTTP(cfg.Remote.BaseURL, &http.Client{Timeout: cfg.Remote.Timeout}, logger)
}

// NewClientWithHTTP creates a client with a caller-supplied http.Client
func NewClientWithHTTP(baseURL string, httpClient *http.Client, logger log.FieldLogger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// BaseURL returns the configured API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListTasks fetches every active task
func (c *Client) ListTasks(ctx context.Context) ([]entity.Task, error) {
	var tasks []entity.Task
	if err := c.do(ctx, OpListTasks, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return c.normalizeAll(OpListTasks, tasks), nil
}

// ListTrash fetches every soft-deleted task
func (c *Client) ListTrash(ctx context.Context) ([]entity.Task, error) {
	var tasks []entity.Task
	if err := c.do(ctx, OpListTrash, http.MethodGet, "/trash", nil, &tasks); err != nil {
		return nil, err
	}
	return c.normalizeAll(OpListTrash, tasks), nil
}

// CreateTask posts a task without its id; the store assigns one
func (c *Client) CreateTask(ctx context.Context, task entity.Task) (entity.Task, error) {
	var created entity.Task
	if err := c.do(ctx, OpCreateTask, http.MethodPost, "/tasks", task.WithoutID(), &created); err != nil {
		return entity.Task{}, err
	}
	return normalize(OpCreateTask, created)
}

// UpdateTask sends a partial update and returns the full canonical task
func (c *Client) UpdateTask(ctx context.Context, id string, patch entity.TaskPatch) (entity.Task, error) {
	var updated entity.Task
	if err := c.do(ctx, OpUpdateTask, http.MethodPut, "/tasks/"+url.PathEscape(id), patch, &updated); err != nil {
		return entity.Task{}, err
	}
	if updated.ID == "" {
		updated.ID = id
	}
	return normalize(OpUpdateTask, updated)
}

// DeleteTask removes a task from the task store
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, OpDeleteTask, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

// ArchiveTask inserts the full task record into the trash store
func (c *Client) ArchiveTask(ctx context.Context, task entity.Task) (entity.Task, error) {
	var archived entity.Task
	if err := c.do(ctx, OpArchiveTask, http.MethodPost, "/trash", task, &archived); err != nil {
		return entity.Task{}, err
	}
	if archived.ID == "" {
		archived.ID = task.ID
	}
	return normalize(OpArchiveTask, archived)
}

// UnarchiveTask removes a task from the trash store
func (c *Client) UnarchiveTask(ctx context.Context, id string) error {
	return c.do(ctx, OpUnarchiveTask, http.MethodDelete, "/trash/"+url.PathEscape(id), nil, nil)
}

// EmptyTrash removes every task from the trash store
func (c *Client) EmptyTrash(ctx context.Context) error {
	return c.do(ctx, OpEmptyTrash, http.MethodDelete, "/trash", nil, nil)
}

// Health is the store's health report
type Health struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	TasksCount int       `json:"tasks_count"`
	TrashCount int       `json:"trash_count"`
}

// Health queries the store's health endpoint, which lives next to the API root
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	target := c.baseURL
	if u, err := url.Parse(c.baseURL); err == nil {
		u.Path = "/health"
		target = u.String()
	}
	if err := c.doURL(ctx, OpHealth, http.MethodGet, target, nil, &h); err != nil {
		return Health{}, err
	}
	return h, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	return c.doURL(ctx, op, method, c.baseURL+path, body, out)
}

// doURL performs one request; it never retries
func (c *Client) doURL(ctx context.Context, op, method, target string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return &StoreError{Operation: op, Message: fmt.Sprintf("failed to encode request: %v", err), Err: err}
		}
		reader = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &StoreError{Operation: op, Message: fmt.Sprintf("failed to build request: %v", err), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithFields(log.Fields{"op": op, "method": method, "url": target}).WithError(err).Debug("store request failed")
		return &StoreError{Operation: op, Message: fmt.Sprintf("failed to %s data: %v", method, err), Err: err}
	}
	defer resp.Body.Close()

	c.logger.WithFields(log.Fields{
		"op":       op,
		"method":   method,
		"url":      target,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("store request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StoreError{
			Operation:  op,
			Message:    "API Error: " + statusText(resp),
			StatusCode: resp.StatusCode,
		}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &StoreError{
			Operation:  op,
			Message:    fmt.Sprintf("failed to decode response: %v", err),
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}
	return nil
}

// statusText returns the reason phrase of a response, e.g. "Not Found"
func statusText(resp *http.Response) string {
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprint(resp.StatusCode))); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// normalize fills the fields the store may leave out and rejects records the
// board cannot show: no id, a blank title, or an unknown priority or status.
func normalize(op string, t entity.Task) (entity.Task, error) {
	if t.ID == "" {
		return entity.Task{}, &StoreError{Operation: op, Message: "store returned a task without an id"}
	}
	if strings.TrimSpace(t.Title) == "" {
		return entity.Task{}, &StoreError{Operation: op, Message: fmt.Sprintf("store returned task %q without a title", t.ID)}
	}
	if t.Priority == "" {
		t.Priority = valueobject.PriorityLow
	}
	if !t.Priority.IsValid() {
		return entity.Task{}, &StoreError{Operation: op, Message: fmt.Sprintf("store returned task %q with unknown priority %q", t.ID, t.Priority)}
	}
	if t.Status == "" {
		t.Status = valueobject.StatusTodo
	}
	if !t.Status.IsValid() {
		return entity.Task{}, &StoreError{Operation: op, Message: fmt.Sprintf("store returned task %q with unknown status %q", t.ID, t.Status)}
	}
	if t.Tags == nil {
		t.Tags = make([]string, 0)
	}
	if t.Subtasks == nil {
		t.Subtasks = make([]entity.Subtask, 0)
	}
	return t, nil
}

// normalizeAll drops the records normalize rejects, logging each one
func (c *Client) normalizeAll(op string, tasks []entity.Task) []entity.Task {
	out := make([]entity.Task, 0, len(tasks))
	for _, t := range tasks {
		n, err := normalize(op, t)
		if err != nil {
			c.logger.WithFields(log.Fields{"op": op, "task": t.ID}).WithError(err).Warn("skipping invalid task from store")
			continue
		}
		out = append(out, n)
	}
	return out
}
