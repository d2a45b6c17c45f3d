package di

import (
	"context"
	"errors"

	"github.com/SanjayNarukulla/swift-backend/application/services"
	"github.com/SanjayNarukulla/swift-backend/infrastructure/config"
	"github.com/SanjayNarukulla/swift-backend/infrastructure/persistence"
	"github.com/SanjayNarukulla/swift-backend/interfaces/http/rest"
	appErrors "github.com/SanjayNarukulla/swift-backend/pkg/errors"
	"github.com/SanjayNarukulla/swift-backend/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Tracing      *observability.TracerProvider
	Metrics      *observability.Collector
	Gateway      *persistence.Gateway
	ErrorHandler *appErrors.ErrorHandler
	UserService  *services.UserService
	SeedLoader   *services.SeedLoader
	Router       *rest.Router
}

// Shutdown releases the store connection and flushes pending spans
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error
	if err := c.Gateway.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := c.Tracing.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
