package common

import (
	"encoding/json"
	"net/http"
)

// MessageResponse is the body of a successful call with nothing else to say
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed call
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondJSON sends a pretty-printed JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(data)
}

// RespondMessage sends {"message": message}
func RespondMessage(w http.ResponseWriter, status int, message string) error {
	return RespondJSON(w, status, MessageResponse{Message: message})
}

// RespondError sends {"error": message}
func RespondError(w http.ResponseWriter, status int, message string) error {
	return RespondJSON(w, status, ErrorResponse{Error: message})
}
