//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"taskdeck/internal/application/dragdrop"
	"taskdeck/internal/application/notice"
	"taskdeck/internal/application/syncer"
	"taskdeck/internal/domain/repository"
	"taskdeck/internal/infrastructure/config"
	"taskdeck/internal/infrastructure/remote"
)

// InitializeContainer sets up all dependencies around the given config loader
func InitializeContainer(loader *config.Loader) (*Container, error) {
	wire.Build(
		// Config
		ProvideConfig,
		ProvideLogger,

		// Remote store
		ProvideClient,
		wire.Bind(new(repository.RemoteStore), new(*remote.Client)),

		// Notices
		ProvideNoticeBoard,
		wire.Bind(new(notice.Notifier), new(*notice.Board)),

		// Use cases
		ProvideEngine,
		ProvideDragDrop,
		wire.Bind(new(dragdrop.Mover), new(*syncer.Engine)),

		// Wire the container
		wire.Struct(new(Container), "*"),
	)
	return nil, nil
}
