package di

import (
	log "github.com/sirupsen/logrus"

	"taskdeck/internal/application/dragdrop"
	"taskdeck/internal/application/notice"
	"taskdeck/internal/application/syncer"
	"taskdeck/internal/domain/repository"
	"taskdeck/internal/infrastructure/config"
	"taskdeck/internal/infrastructure/logging"
	"taskdeck/internal/infrastructure/remote"
)

// Container holds all application dependencies
type Container struct {
	// Config
	Config *config.Config
	Loader *config.Loader
	Logger *log.Logger

	// Remote store
	Client *remote.Client

	// Notices
	Notices *notice.Board

	// Use cases
	Engine   *syncer.Engine
	DragDrop *dragdrop.Controller
}

// Provider functions

func ProvideConfig(loader *config.Loader) (*config.Config, error) {
	return loader.Load()
}

func ProvideLogger(cfg *config.Config) (*log.Logger, error) {
	return logging.Setup(cfg.Log)
}

func ProvideClient(cfg *config.Config, logger *log.Logger) *remote.Client {
	return remote.NewClient(cfg, logger)
}

func ProvideNoticeBoard(cfg *config.Config) *notice.Board {
	return notice.NewBoard(cfg.Notices)
}

func ProvideEngine(store repository.RemoteStore, logger *log.Logger, notifier notice.Notifier) *syncer.Engine {
	return syncer.NewEngine(store, logger, notifier)
}

func ProvideDragDrop(mover dragdrop.Mover) *dragdrop.Controller {
	return dragdrop.NewController(mover)
}
