package di

import (
	"context"
	"fmt"

	"github.com/SanjayNarukulla/swift-backend/application/ports"
	"github.com/SanjayNarukulla/swift-backend/application/services"
	"github.com/SanjayNarukulla/swift-backend/infrastructure/acl"
	"github.com/SanjayNarukulla/swift-backend/infrastructure/config"
	"github.com/SanjayNarukulla/swift-backend/infrastructure/messaging/eventbridge"
	"github.com/SanjayNarukulla/swift-backend/infrastructure/persistence"
	"github.com/SanjayNarukulla/swift-backend/interfaces/http/rest"
	"github.com/SanjayNarukulla/swift-backend/interfaces/http/rest/handlers"
	appErrors "github.com/SanjayNarukulla/swift-backend/pkg/errors"
	"github.com/SanjayNarukulla/swift-backend/pkg/observability"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// metricsNamespace prefixes every exported metric
const metricsNamespace = "swift_backend"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("service", cfg.ServiceName)), nil
}

// ProvideTracerProvider exports spans over OTLP when tracing is enabled and
// falls back to the no-op tracer otherwise
func ProvideTracerProvider(ctx context.Context, cfg *config.Config) (*observability.TracerProvider, error) {
	if !cfg.EnableTracing {
		return observability.NoopTracing(cfg.ServiceName), nil
	}
	return observability.InitTracing(ctx, cfg.ServiceName, cfg.Environment, cfg.TracingEndpoint)
}

// ProvideTracer returns the application tracer
func ProvideTracer(tp *observability.TracerProvider) trace.Tracer {
	return tp.Tracer()
}

// ProvideMetrics creates the metrics collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector(metricsNamespace)
}

// ProvideGateway creates the data store gateway. Nothing is opened until the
// first Connect.
func ProvideGateway(cfg *config.Config, logger *zap.Logger, tracer trace.Tracer, metrics *observability.Collector) *persistence.Gateway {
	return persistence.NewGateway(
		cfg.DatabaseURI,
		cfg.DatabaseName,
		logger,
		persistence.WithInstrumentation(tracer, metrics),
	)
}

// ProvideStoreProvider exposes the gateway to services
func ProvideStoreProvider(gateway *persistence.Gateway) ports.StoreProvider {
	return gateway
}

// ProvideSeedSource creates the remote seed client
func ProvideSeedSource(cfg *config.Config, logger *zap.Logger) ports.SeedSource {
	return acl.NewSeedClient(cfg.SeedBaseURL, nil, logger)
}

// ProvideEventPublisher publishes to EventBridge when an event bus is
// configured and drops events otherwise
func ProvideEventPublisher(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.EventPublisher, error) {
	if cfg.EventBusName == "" {
		return ports.NoopPublisher{}, nil
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.AWSRegion != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.AWSRegion))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return eventbridge.NewPublisher(awseventbridge.NewFromConfig(awsCfg), cfg.EventBusName, logger), nil
}

// ProvideUserService creates the user service
func ProvideUserService(stores ports.StoreProvider, logger *zap.Logger) *services.UserService {
	return services.NewUserService(stores, logger)
}

// ProvideSeedLoader creates the seed loader
func ProvideSeedLoader(
	stores ports.StoreProvider,
	source ports.SeedSource,
	tracer trace.Tracer,
	metrics *observability.Collector,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *services.SeedLoader {
	return services.NewSeedLoader(stores, source, tracer, metrics, publisher, logger)
}

// ProvideErrorHandler creates the shared HTTP error handler
func ProvideErrorHandler(logger *zap.Logger) *appErrors.ErrorHandler {
	return appErrors.NewErrorHandler(logger)
}

// ProvideUserHandler creates the user handler
func ProvideUserHandler(service *services.UserService, errorHandler *appErrors.ErrorHandler, logger *zap.Logger) *handlers.UserHandler {
	return handlers.NewUserHandler(service, errorHandler, logger)
}

// ProvideLoadHandler creates the load handler
func ProvideLoadHandler(loader *services.SeedLoader, errorHandler *appErrors.ErrorHandler, logger *zap.Logger) *handlers.LoadHandler {
	return handlers.NewLoadHandler(loader, errorHandler, logger)
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	users *handlers.UserHandler,
	load *handlers.LoadHandler,
	errorHandler *appErrors.ErrorHandler,
	metrics *observability.Collector,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(users, load, errorHandler, metrics, rest.Options{EnableCORS: cfg.EnableCORS}, logger)
}
