package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"taskdeck/internal/domain/entity"
	"taskdeck/internal/domain/service"
	"taskdeck/internal/infrastructure/logging"
	"taskdeck/internal/infrastructure/persistence/jsonfile"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	repo, err := jsonfile.NewTaskRepository(filepath.Join(t.TempDir(), "store"), logging.Discard())
	if err != nil {
		t.Fatalf("repository: %v", err)
	}
	return New(service.NewTaskService(repo, logging.Discard()), logging.Discard())
}

func doRequest(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestTaskLifecycle(t *testing.T) {
	e := newTestServer(t)

	rec := doRequest(t, e, http.MethodPost, "/api/tasks", `{"title":"Write docs","tags":["docs"],"priority":"high"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[entity.Task](t, rec)
	if created.ID == "" || created.Status != "todo" || created.Priority != "high" {
		t.Fatalf("unexpected created task: %+v", created)
	}

	rec = doRequest(t, e, http.MethodPut, "/api/tasks/"+created.ID, `{"status":"in-progress"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
	}
	updated := decode[entity.Task](t, rec)
	if updated.Status != "in-progress" || updated.Title != "Write docs" || len(updated.Tags) != 1 {
		t.Fatalf("update should merge fields: %+v", updated)
	}

	rec = doRequest(t, e, http.MethodGet, "/api/tasks", "")
	if tasks := decode[[]entity.Task](t, rec); len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}

	rec = doRequest(t, e, http.MethodDelete, "/api/tasks/"+created.ID, "")
	msg := decode[messageResponse](t, rec)
	if rec.Code != http.StatusOK || msg.Message != "Task deleted successfully" || msg.ID != created.ID {
		t.Fatalf("delete = %d %+v", rec.Code, msg)
	}

	body, _ := json.Marshal(updated)
	rec = doRequest(t, e, http.MethodPost, "/api/trash", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("archive status = %d: %s", rec.Code, rec.Body.String())
	}
	rec = doRequest(t, e, http.MethodGet, "/api/trash", "")
	if trash := decode[[]entity.Task](t, rec); len(trash) != 1 || trash[0].ID != created.ID {
		t.Fatalf("unexpected trash: %+v", trash)
	}

	rec = doRequest(t, e, http.MethodDelete, "/api/trash/"+created.ID, "")
	if msg := decode[messageResponse](t, rec); msg.Message != "Task removed from trash" {
		t.Fatalf("unarchive = %d %+v", rec.Code, msg)
	}
}

func TestNotFoundDetails(t *testing.T) {
	e := newTestServer(t)

	tests := []struct {
		method, target, body, detail string
	}{
		{http.MethodGet, "/api/tasks/nope", "", "Task not found"},
		{http.MethodPut, "/api/tasks/nope", `{"title":"x"}`, "Task not found"},
		{http.MethodDelete, "/api/tasks/nope", "", "Task not found"},
		{http.MethodDelete, "/api/trash/nope", "", "Task not found in trash"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := doRequest(t, e, tt.method, tt.target, tt.body)
			if rec.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want 404", rec.Code)
			}
			if got := decode[errorResponse](t, rec); got.Detail != tt.detail {
				t.Errorf("detail = %q, want %q", got.Detail, tt.detail)
			}
		})
	}
}

func TestBadRequests(t *testing.T) {
	e := newTestServer(t)

	for name, tc := range map[string]struct {
		method, target, body string
		code                 int
	}{
		"malformed json":      {http.MethodPost, "/api/tasks", `{"title":`, http.StatusBadRequest},
		"missing title":       {http.MethodPost, "/api/tasks", `{"priority":"low"}`, http.StatusBadRequest},
		"blank title":         {http.MethodPost, "/api/tasks", `{"title":"   "}`, http.StatusBadRequest},
		"unknown status":      {http.MethodPost, "/api/tasks", `{"title":"x","status":"blocked"}`, http.StatusBadRequest},
		"archive without id":  {http.MethodPost, "/api/trash", `{"title":"x"}`, http.StatusBadRequest},
		"archive blank title": {http.MethodPost, "/api/trash", `{"id":"z","title":" "}`, http.StatusBadRequest},
	} {
		t.Run(name, func(t *testing.T) {
			rec := doRequest(t, e, tc.method, tc.target, tc.body)
			if rec.Code != tc.code {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tc.code, rec.Body.String())
			}
			if got := decode[errorResponse](t, rec); got.Detail == "" {
				t.Error("expected a detail message")
			}
		})
	}

	doRequest(t, e, http.MethodPost, "/api/tasks", `{"id":"dup","title":"x"}`)
	if rec := doRequest(t, e, http.MethodPost, "/api/tasks", `{"id":"dup","title":"y"}`); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate id status = %d, want 409", rec.Code)
	}
}

func TestEmptyTrashAndHealth(t *testing.T) {
	e := newTestServer(t)
	doRequest(t, e, http.MethodPost, "/api/tasks", `{"title":"active"}`)
	doRequest(t, e, http.MethodPost, "/api/trash", `{"id":"t1","title":"gone"}`)
	doRequest(t, e, http.MethodPost, "/api/trash", `{"id":"t2","title":"gone too"}`)

	rec := doRequest(t, e, http.MethodGet, "/health", "")
	h := decode[healthResponse](t, rec)
	if h.Status != "healthy" || h.TasksCount != 1 || h.TrashCount != 2 {
		t.Fatalf("unexpected health: %+v", h)
	}

	rec = doRequest(t, e, http.MethodDelete, "/api/trash", "")
	if msg := decode[messageResponse](t, rec); msg.Message != "Trash emptied successfully" {
		t.Fatalf("empty trash = %+v", msg)
	}
	rec = doRequest(t, e, http.MethodGet, "/health", "")
	if h := decode[healthResponse](t, rec); h.TrashCount != 0 {
		t.Fatalf("trash count after empty = %d", h.TrashCount)
	}

	rec = doRequest(t, e, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("root status = %d", rec.Code)
	}
}

// failingStore fails Counts; other calls are not expected
type failingStore struct {
	Store
	err error
}

func (f failingStore) Counts(ctx context.Context) (service.Counts, error) {
	return service.Counts{}, f.err
}

func TestHealthHandlerReportsStoreFailure(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	now := func() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) }
	if err := health(failingStore{err: errors.New("disk gone")}, now)(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := decode[errorResponse](t, rec); got.Detail != "disk gone" {
		t.Errorf("detail = %q", got.Detail)
	}
}
