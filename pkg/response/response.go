// Package response writes the JSON envelope used by every API endpoint:
//
//	{ "success": true,  "data": ..., "message": "...", "count": N }
//	{ "success": false, "error": "...", "details": [...] }
package response

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Count   *int64      `json:"count,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// OK sends a 200 with data.
func OK(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, envelope{Success: true, Data: data})
}

// Created sends a 201 with data and a human-readable message.
func Created(w http.ResponseWriter, data interface{}, message string) {
	write(w, http.StatusCreated, envelope{Success: true, Data: data, Message: message})
}

// List sends a 200 with a data array and the total row count.
// Callers pass a non-nil slice so clients always receive an array.
func List(w http.ResponseWriter, data interface{}, count int64) {
	write(w, http.StatusOK, envelope{Success: true, Data: data, Count: &count})
}

// Error sends a JSON error response with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Success: false, Error: message})
}

// ValidationError sends a 400 with per-field details.
func ValidationError(w http.ResponseWriter, details interface{}) {
	write(w, http.StatusBadRequest, envelope{
		Success: false,
		Error:   "Validation error",
		Details: details,
	})
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "Forbidden")
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}
