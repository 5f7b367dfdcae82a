package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"taskdeck/internal/domain/entity"
	"taskdeck/internal/domain/service"
)

// Store is the task service the handlers call into
type Store interface {
	List(ctx context.Context) ([]entity.Task, error)
	ListTrash(ctx context.Context) ([]entity.Task, error)
	Get(ctx context.Context, id string) (entity.Task, error)
	Create(ctx context.Context, task entity.Task) (entity.Task, error)
	Update(ctx context.Context, id string, patch entity.TaskPatch) (entity.Task, error)
	Delete(ctx context.Context, id string) error
	Archive(ctx context.Context, task entity.Task) (entity.Task, error)
	Unarchive(ctx context.Context, id string) error
	EmptyTrash(ctx context.Context) (int, error)
	Counts(ctx context.Context) (service.Counts, error)
}

var _ Store = (*service.TaskService)(nil)

// New builds the echo instance with middleware and all routes registered.
func New(store Store, logger *log.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(RequestLogger(logger))

	Register(e, store, logger)
	return e
}

// Register wires up all routes on the provided Echo instance.
func Register(e *echo.Echo, store Store, logger *log.Logger) {
	e.GET("/", root)
	e.GET("/health", health(store, time.Now))

	g := e.Group("/api")
	g.GET("/tasks", listTasks(store))
	g.GET("/tasks/:id", getTask(store))
	g.POST("/tasks", createTask(store, logger))
	g.PUT("/tasks/:id", updateTask(store, logger))
	g.DELETE("/tasks/:id", deleteTask(store, logger))

	g.GET("/trash", listTrash(store))
	g.POST("/trash", archiveTask(store, logger))
	g.DELETE("/trash/:id", unarchiveTask(store, logger))
	g.DELETE("/trash", emptyTrash(store, logger))
}

// RequestLogger logs one line per request through logrus.
func RequestLogger(logger *log.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := logger.WithFields(log.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request failed")
				return nil
			}
			entry.Info("request")
			return nil
		},
	})
}
