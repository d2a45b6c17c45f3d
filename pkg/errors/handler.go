package errors

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/SanjayNarukulla/swift-backend/pkg/common"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorHandler handles errors and sends appropriate HTTP responses
type ErrorHandler struct {
	logger *zap.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle processes an error and sends an HTTP response.
// Client errors carry their own message; everything else collapses to the
// generic 500 body and the detail goes to the log only.
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	appErr := GetAppError(err)
	status := StatusOf(err)
	if appErr == nil || status >= http.StatusInternalServerError {
		h.logger.Error("Unhandled error",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
		h.send(w, http.StatusInternalServerError, "", GenericMessage)
		return
	}

	fields := []zap.Field{
		zap.String("error_type", string(appErr.Type)),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	}
	if appErr.Field != "" {
		fields = append(fields, zap.String("field", appErr.Field))
	}
	h.logger.Warn(appErr.Message, fields...)

	h.send(w, status, appErr.BodyKey, appErr.Message)
}

// HandleStatus sends an error response with a specific status code. It is
// used before routing, so r.URL may be nil.
func (h *ErrorHandler) HandleStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	var path string
	if r.URL != nil {
		path = r.URL.Path
	}
	h.logger.Warn("HTTP error",
		zap.String("method", r.Method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.String("message", message),
	)
	h.send(w, status, "", message)
}

// send writes {"error": message}, or {"message": message} when key says so
func (h *ErrorHandler) send(w http.ResponseWriter, status int, key, message string) {
	var err error
	if key == BodyKeyMessage {
		err = common.RespondMessage(w, status, message)
	} else {
		err = common.RespondError(w, status, message)
	}
	if err != nil {
		h.logger.Error("Failed to encode error response", zap.Error(err))
	}
}

// Middleware returns an HTTP middleware that turns panics into the generic
// 500 response. The panic is contained to the request that raised it.
func (h *ErrorHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.logger.Error("Recovered from panic",
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
				h.Handle(w, r, NewInternalError(fmt.Sprintf("panic: %v", rec)))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
