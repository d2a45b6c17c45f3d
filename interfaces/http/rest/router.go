package rest

import (
	"net/http"

	"github.com/SanjayNarukulla/swift-backend/interfaces/http/rest/handlers"
	"github.com/SanjayNarukulla/swift-backend/interfaces/http/rest/middleware"
	appErrors "github.com/SanjayNarukulla/swift-backend/pkg/errors"
	"github.com/SanjayNarukulla/swift-backend/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// MsgNotFound is the body text for anything outside the route table
const MsgNotFound = "Not Found"

// Options toggles optional router middleware
type Options struct {
	EnableCORS bool
}

// Router creates and configures the HTTP router
type Router struct {
	users     *handlers.UserHandler
	load      *handlers.LoadHandler
	errors    *appErrors.ErrorHandler
	collector *observability.Collector
	options   Options
	logger    *zap.Logger
}

// NewRouter creates a new router instance. collector may be nil.
func NewRouter(
	users *handlers.UserHandler,
	load *handlers.LoadHandler,
	errorHandler *appErrors.ErrorHandler,
	collector *observability.Collector,
	options Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		users:     users,
		load:      load,
		errors:    errorHandler,
		collector: collector,
		options:   options,
		logger:    logger,
	}
}

// Setup configures all routes and middleware.
//
// GET and DELETE on anything under /users/ address a single user. The
// remaining routes match exactly. Everything else, including a known path
// with the wrong method, is a 404.
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequireMethodAndPath(rt.errors))
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(rt.logger))
	if rt.collector != nil {
		router.Use(middleware.Metrics(rt.collector))
	}
	router.Use(rt.errors.Middleware)

	if rt.options.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	router.Get("/users/*", rt.users.GetUser)
	router.Delete("/users/*", rt.users.DeleteUser)

	router.Get("/load", rt.load.Load)
	router.Delete("/users", rt.users.DeleteAllUsers)
	router.Put("/users", rt.users.CreateUser)

	router.NotFound(rt.notFound)
	router.MethodNotAllowed(rt.notFound)

	return router
}

func (rt *Router) notFound(w http.ResponseWriter, r *http.Request) {
	rt.errors.HandleStatus(w, r, http.StatusNotFound, MsgNotFound)
}
