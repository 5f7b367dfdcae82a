package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"taskdeck/internal/domain/entity"
)

type messageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type healthResponse struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	TasksCount int       `json:"tasks_count"`
	TrashCount int       `json:"trash_count"`
}

func root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Taskdeck task store", "status": "running"})
}

func health(store Store, now func() time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		counts, err := store.Counts(c.Request().Context())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, healthResponse{
			Status:     "healthy",
			Timestamp:  now().UTC(),
			TasksCount: counts.Tasks,
			TrashCount: counts.Trash,
		})
	}
}

func listTasks(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		tasks, err := store.List(c.Request().Context())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, tasks)
	}
}

func getTask(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		task, err := store.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, task)
	}
}

func createTask(store Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var task entity.Task
		if err := decodeBody(c.Request().Body, &task); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
		}
		created, err := store.Create(c.Request().Context(), task)
		if err != nil {
			logFailure(logger, "createTask", task.ID, err)
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, created)
	}
}

func updateTask(store Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		var patch entity.TaskPatch
		if err := decodeBody(c.Request().Body, &patch); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
		}
		updated, err := store.Update(c.Request().Context(), id, patch)
		if err != nil {
			logFailure(logger, "updateTask", id, err)
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, updated)
	}
}

func deleteTask(store Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		if err := store.Delete(c.Request().Context(), id); err != nil {
			logFailure(logger, "deleteTask", id, err)
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, messageResponse{Message: "Task deleted successfully", ID: id})
	}
}

func listTrash(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		tasks, err := store.ListTrash(c.Request().Context())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, tasks)
	}
}

func archiveTask(store Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var task entity.Task
		if err := decodeBody(c.Request().Body, &task); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
		}
		archived, err := store.Archive(c.Request().Context(), task)
		if err != nil {
			logFailure(logger, "archiveTask", task.ID, err)
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, archived)
	}
}

func unarchiveTask(store Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		if err := store.Unarchive(c.Request().Context(), id); err != nil {
			logFailure(logger, "unarchiveTask", id, err)
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, messageResponse{Message: "Task removed from trash", ID: id})
	}
}

func emptyTrash(store Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := store.EmptyTrash(c.Request().Context()); err != nil {
			logFailure(logger, "emptyTrash", "", err)
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, messageResponse{Message: "Trash emptied successfully"})
	}
}

func decodeBody(body io.Reader, out interface{}) error {
	dec := sonic.ConfigStd.NewDecoder(body)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeError maps domain errors onto HTTP status codes with a detail body
func writeError(c echo.Context, err error) error {
	var notFound *entity.NotFoundError
	switch {
	case errors.As(err, &notFound):
		detail := "Task not found"
		if notFound.Collection == entity.TrashCollectionName {
			detail = "Task not found in trash"
		}
		return c.JSON(http.StatusNotFound, errorResponse{Detail: detail})
	case errors.Is(err, entity.ErrTaskNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Detail: "Task not found"})
	case errors.Is(err, entity.ErrValidation), errors.Is(err, entity.ErrEmptyTaskID):
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
	case errors.Is(err, entity.ErrDuplicateID):
		return c.JSON(http.StatusConflict, errorResponse{Detail: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: err.Error()})
	}
}

func logFailure(logger *log.Logger, op, id string, err error) {
	logger.WithFields(log.Fields{"op": op, "task": id}).WithError(err).Warn("store operation failed")
}
