// Package respond writes the JSON envelope shared by every HTTP response.
package respond

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Response is the standard envelope.
type Response struct {
	Status     string      `json:"status"`
	RequestID  string      `json:"request_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      *APIError   `json:"error,omitempty"`
}

// APIError is the error body of a failed request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Pagination describes one page of a list.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type requestIDKey struct{}

// NewRequestID generates a unique request identifier.
func NewRequestID() string {
	return "req_" + uuid.New().String()[:8]
}

// WithRequestID assigns a request id to every request and echoes it in X-Request-ID.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := NewRequestID()
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestID returns the id stored by [WithRequestID], or a fresh one.
func RequestID(r *http.Request) string {
	if id, ok := r.Context().Value(requestIDKey{}).(string); ok {
		return id
	}
	return NewRequestID()
}

// OK writes a 200 response.
func OK(w http.ResponseWriter, r *http.Request, data any) {
	JSON(w, r, http.StatusOK, data, nil, nil)
}

// Created writes a 201 response.
func Created(w http.ResponseWriter, r *http.Request, data any) {
	JSON(w, r, http.StatusCreated, data, nil, nil)
}

// List writes a 200 response with pagination.
func List(w http.ResponseWriter, r *http.Request, data any, pg *Pagination) {
	JSON(w, r, http.StatusOK, data, pg, nil)
}

// Error writes an error response.
func Error(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	JSON(w, r, status, nil, nil, &APIError{Code: code, Message: message})
}

// JSON writes the envelope with status.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any, pg *Pagination, apiErr *APIError) {
	resp := Response{
		RequestID:  RequestID(r),
		Timestamp:  time.Now().UTC(),
		Data:       data,
		Pagination: pg,
		Error:      apiErr,
	}
	if apiErr != nil {
		resp.Status = "error"
	} else {
		resp.Status = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// Redirect sends a 303 with a JSON body naming the target, so API clients that do not
// follow redirects still see where to go.
func Redirect(w http.ResponseWriter, r *http.Request, location string, data any) {
	w.Header().Set("Location", location)
	JSON(w, r, http.StatusSeeOther, data, nil, nil)
}
