package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/mediashelf/internal/apperr"
	"github.com/mrlokans/mediashelf/internal/auth"
)

// GetUserID extracts the authenticated user's ID from the Gin context.
// Returns auth.DefaultUserID when auth is disabled.
func GetUserID(c *gin.Context) uint {
	return auth.GetUserID(c)
}

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"` // machine-readable error kind
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidInput        = "invalid_input"
	CodeNotFound            = "not_found"
	CodeConflict            = "conflict"
	CodeProviderUnavailable = "provider_unavailable"
	CodeInternal            = "internal"
)

// statusFor maps an error kind to its HTTP status and code.
func statusFor(err error) (int, string) {
	switch apperr.KindOf(err) {
	case apperr.ErrInvalidInput:
		return http.StatusBadRequest, CodeInvalidInput
	case apperr.ErrNotFound:
		return http.StatusNotFound, CodeNotFound
	case apperr.ErrConflict:
		return http.StatusConflict, CodeConflict
	case apperr.ErrProviderUnavailable:
		return http.StatusServiceUnavailable, CodeProviderUnavailable
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// --- Error Response Helpers ---

// respondError maps err to a status code and writes the error body.
// Causes are logged, never sent to the client.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", RequestID(c)),
			zap.Error(err))
	} else {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Err != nil {
			log.Debug("request rejected", zap.String("path", c.FullPath()), zap.Error(err))
		}
	}
	c.JSON(status, ErrorResponse{Error: apperr.Message(err), Code: code})
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: CodeInvalidInput})
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// parseIntQuery reads an optional integer query parameter. Missing values
// return def; malformed values respond with 400.
func parseIntQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}
