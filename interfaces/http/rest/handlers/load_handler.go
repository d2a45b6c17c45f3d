package handlers

import (
	"net/http"

	"github.com/SanjayNarukulla/swift-backend/application/services"
	"github.com/SanjayNarukulla/swift-backend/pkg/common"
	appErrors "github.com/SanjayNarukulla/swift-backend/pkg/errors"

	"go.uber.org/zap"
)

// LoadHandler exposes the seed loader over HTTP
type LoadHandler struct {
	loader *services.SeedLoader
	errors *appErrors.ErrorHandler
	logger *zap.Logger
}

// NewLoadHandler creates a new load handler
func NewLoadHandler(loader *services.SeedLoader, errorHandler *appErrors.ErrorHandler, logger *zap.Logger) *LoadHandler {
	return &LoadHandler{
		loader: loader,
		errors: errorHandler,
		logger: logger,
	}
}

// Load handles GET /load
func (h *LoadHandler) Load(w http.ResponseWriter, r *http.Request) {
	result, err := h.loader.Load(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := common.RespondMessage(w, http.StatusOK, result.Message); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
