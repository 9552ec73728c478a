package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/goliatone/go-repoforms/pkg/content"
)

// ErrorResponse is the JSON body of API errors.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func statusFor(err error) int {
	switch {
	case content.IsNotFound(err):
		return http.StatusNotFound
	case content.IsUnauthorized(err):
		return http.StatusForbidden
	case content.IsInvalidArgument(err):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers form routes with a plain text status page.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	s.logError(r, status, err)
	http.Error(w, http.StatusText(status), status)
}

// writeJSONError answers API routes.
func (s *Server) writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	s.logError(r, status, err)

	resp := ErrorResponse{Error: http.StatusText(status)}
	var typed *content.Error
	if errors.As(err, &typed) {
		resp.Error = typed.Message
		resp.Code = typed.Code
		resp.Details = typed.Details
	}
	render.Status(r, status)
	render.JSON(w, r, resp)
}

func (s *Server) logError(r *http.Request, status int, err error) {
	level := s.logger.Debug
	if status >= http.StatusInternalServerError {
		level = s.logger.Error
	}
	level("request failed",
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	)
}
