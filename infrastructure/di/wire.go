//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/SanjayNarukulla/swift-backend/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideTracerProvider,
	ProvideTracer,
	ProvideMetrics,
	ProvideGateway,
	ProvideStoreProvider,
	ProvideSeedSource,
	ProvideEventPublisher,
	ProvideUserService,
	ProvideSeedLoader,
	ProvideErrorHandler,
	ProvideUserHandler,
	ProvideLoadHandler,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
