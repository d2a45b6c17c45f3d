package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/SanjayNarukulla/swift-backend/application/services"
	"github.com/SanjayNarukulla/swift-backend/pkg/common"
	appErrors "github.com/SanjayNarukulla/swift-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Success messages
const (
	MsgUserDeleted     = "User deleted successfully"
	MsgAllUsersDeleted = "All users deleted successfully"
	MsgUserAdded       = "User added successfully"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	service *services.UserService
	errors  *appErrors.ErrorHandler
	logger  *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(service *services.UserService, errorHandler *appErrors.ErrorHandler, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		errors:  errorHandler,
		logger:  logger,
	}
}

// CreateUserResponse is the body of a successful PUT /users
type CreateUserResponse struct {
	Message string `json:"message"`
	User    any    `json:"user"`
}

// GetUser handles GET /users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := services.ParseUserID(userIDSegment(r))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	user, err := h.service.GetUserWithPosts(r.Context(), id)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, user)
}

// DeleteUser handles DELETE /users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := services.ParseUserID(userIDSegment(r))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, common.MessageResponse{Message: MsgUserDeleted})
}

// DeleteAllUsers handles DELETE /users
func (h *UserHandler) DeleteAllUsers(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAllUsers(r.Context()); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, common.MessageResponse{Message: MsgAllUsersDeleted})
}

// CreateUser handles PUT /users. A body that is not JSON at all is reported
// as a server error, not a validation failure.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeBody(r.Body)
	if err != nil {
		h.errors.Handle(w, r, fmt.Errorf("parse request body: %w", err))
		return
	}

	if _, err := h.service.CreateUser(r.Context(), payload); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	// Echo the body as received, extra fields included
	h.respond(w, http.StatusCreated, CreateUserResponse{
		Message: MsgUserAdded,
		User:    payload,
	})
}

func (h *UserHandler) respond(w http.ResponseWriter, status int, data any) {
	if err := common.RespondJSON(w, status, data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// userIDSegment returns the first path segment after /users/
func userIDSegment(r *http.Request) string {
	rest := chi.URLParam(r, "*")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// decodeBody reads exactly one JSON value, keeping numbers as json.Number so
// the echoed body matches what was sent
func decodeBody(body io.Reader) (any, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return payload, nil
}
