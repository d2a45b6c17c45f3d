package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SanjayNarukulla/swift-backend/application/ports"
	"github.com/SanjayNarukulla/swift-backend/infrastructure/config"
	"github.com/SanjayNarukulla/swift-backend/infrastructure/messaging/eventbridge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.DatabaseURI = "memory://"
	cfg.LogLevel = "error"
	return cfg
}

func TestInitializeContainer(t *testing.T) {
	ctx := context.Background()
	container, err := InitializeContainer(ctx, testConfig())
	require.NoError(t, err)

	_, err = container.Gateway.Connect(ctx)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	container.Router.Setup().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"No users found to delete"}`, rec.Body.String())

	assert.NoError(t, container.Shutdown(ctx))
}

func TestProvideLogger_InvalidLevel(t *testing.T) {
	cfg := testConfig()
	cfg.LogLevel = "loud"

	_, err := ProvideLogger(cfg)
	assert.Error(t, err)
}

func TestProvideLogger_Production(t *testing.T) {
	cfg := testConfig()
	cfg.Environment = "production"

	logger, err := ProvideLogger(cfg)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))
}

func TestProvideEventPublisher(t *testing.T) {
	ctx := context.Background()

	publisher, err := ProvideEventPublisher(ctx, testConfig(), zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, ports.NoopPublisher{}, publisher)

	cfg := testConfig()
	cfg.EventBusName = "swift-bus"
	cfg.AWSRegion = "eu-west-1"
	publisher, err = ProvideEventPublisher(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &eventbridge.Publisher{}, publisher)
}
