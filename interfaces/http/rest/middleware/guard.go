package middleware

import (
	"net/http"

	appErrors "github.com/SanjayNarukulla/swift-backend/pkg/errors"
)

// MsgBadRequest is the body text for requests that cannot be dispatched
const MsgBadRequest = "Bad Request"

// RequireMethodAndPath rejects requests with no method or no path before
// they reach the router
func RequireMethodAndPath(errorHandler *appErrors.ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == "" || r.URL == nil || (r.URL.Path == "" && r.URL.RawPath == "") {
				errorHandler.HandleStatus(w, r, http.StatusBadRequest, MsgBadRequest)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
