package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"taskdeck/internal/domain/service"
	"taskdeck/internal/infrastructure/config"
	"taskdeck/internal/infrastructure/persistence/jsonfile"
	"taskdeck/internal/server"
)

const shutdownTimeout = 5 * time.Second

// Server runs the reference task store: the HTTP API plus the file watcher
// that keeps the repository cache coherent with the files on disk.
type Server struct {
	config *config.Config
	logger *log.Logger
	repo   *jsonfile.TaskRepositoryImpl
	echo   *echo.Echo

	mu          sync.Mutex
	stopWatcher context.CancelFunc
	watcherDone chan struct{}
}

// NewServer creates a new store server from configuration
func NewServer(cfg *config.Config, logger *log.Logger) (*Server, error) {
	repo, err := jsonfile.NewTaskRepository(cfg.Server.DataDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	svc := service.NewTaskService(repo, logger)

	return &Server{
		config: cfg,
		logger: logger,
		repo:   repo,
		echo:   server.New(svc, logger),
	}, nil
}

// Handler exposes the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the watcher and serves HTTP until Stop is called
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	s.mu.Lock()
	s.stopWatcher = cancel
	s.watcherDone = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		if err := s.repo.Watch(ctx); err != nil {
			s.logger.WithError(err).Warn("store watcher stopped; reads go to disk")
		}
	}()

	s.logger.WithFields(log.Fields{
		"addr":     s.config.Server.ListenAddr,
		"data_dir": s.config.Server.DataDir,
	}).Info("task store listening")

	if err := s.echo.Start(s.config.Server.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Stop shuts the HTTP server down and stops the watcher
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.echo.Shutdown(ctx)

	s.mu.Lock()
	stop, done := s.stopWatcher, s.watcherDone
	s.mu.Unlock()
	if stop != nil {
		stop()
		<-done
	}

	if err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
