package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler handles errors and sends appropriate HTTP responses
type ErrorHandler struct {
	logger *zap.Logger
	debug  bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger, debug bool) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
		debug:  debug,
	}
}

// Handle processes an error and sends an HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	h.HandleOp(w, r, err, "An internal error occurred")
}

// HandleOp is like Handle, but server side failures are reported to the
// caller with the given operation specific message, e.g. "Failed to like photo".
func (h *ErrorHandler) HandleOp(w http.ResponseWriter, r *http.Request, err error, failure string) {
	if err == nil {
		return
	}

	status := StatusOf(err)
	message := failure

	if appErr := GetAppError(err); appErr != nil && status < http.StatusInternalServerError {
		message = appErr.Message
	}
	if h.debug && status >= http.StatusInternalServerError {
		message = fmt.Sprintf("%s: %v", failure, err)
	}

	h.logError(r, err, status)
	h.sendJSON(w, status, ErrorResponse{Error: message})
}

func (h *ErrorHandler) logError(r *http.Request, err error, status int) {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", r.Header.Get("X-Request-ID")),
		zap.Error(err),
	}
	if appErr := GetAppError(err); appErr != nil {
		fields = append(fields, zap.String("error_type", string(appErr.Type)))
	}

	switch {
	case status >= 500:
		h.logger.Error("Request failed", fields...)
	default:
		h.logger.Warn("Request rejected", fields...)
	}
}

func (h *ErrorHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode error response", zap.Error(err))
	}
}

// Middleware returns an HTTP middleware that turns panics into 500 responses
func (h *ErrorHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.Handle(w, r, NewInternalError(fmt.Sprintf("panic: %v", rec)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
