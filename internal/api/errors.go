package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"projekthub/internal/service"
)

// Error codes carried in every error response body.
const (
	ErrCodeInvalidRequest = "ERR_INVALID_REQUEST"
	ErrCodeValidation     = "ERR_VALIDATION"
	ErrCodeInternalError  = "ERR_INTERNAL_ERROR"
	ErrCodeNotFound       = "ERR_NOT_FOUND"
	ErrCodeForbidden      = "ERR_FORBIDDEN"

	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeAccountUnverified  = "ERR_ACCOUNT_UNVERIFIED"
	ErrCodeEmailExists        = "ERR_EMAIL_EXISTS"
	ErrCodeNoSession          = "ERR_NO_SESSION"
	ErrCodeInvalidSession     = "ERR_INVALID_SESSION"
	ErrCodeUserNotFound       = "ERR_USER_NOT_FOUND"
	ErrCodeFeatureDisabled    = "ERR_FEATURE_DISABLED"
)

// APIError is the uniform error response body.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse writes a uniform error response.
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
	})
}

// BadRequest writes a 400 response.
func BadRequest(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusBadRequest, code, message)
}

// Unauthorized writes a 401 response.
func Unauthorized(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusUnauthorized, code, message)
}

// Forbidden writes a 403 response.
func Forbidden(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusForbidden, code, message)
}

// NotFound writes a 404 response.
func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, ErrCodeNotFound, message)
}

// InternalError writes a 500 response.
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// InvalidPayload writes a 400 response for an unbindable request body.
func InvalidPayload(c *gin.Context) {
	ErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidRequest, "ogiltig förfrågan")
}

// writeServiceError maps account-service errors onto status codes and error
// codes. Sentinel messages are already user facing, so they pass through
// unchanged.
func writeServiceError(c *gin.Context, err error) {
	var validation *service.ValidationError
	if errors.As(err, &validation) {
		BadRequest(c, ErrCodeValidation, validation.Message)
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		Unauthorized(c, ErrCodeInvalidCredentials, err.Error())
	case errors.Is(err, service.ErrAccountUnverified):
		Forbidden(c, ErrCodeAccountUnverified, err.Error())
	case errors.Is(err, service.ErrDuplicateEmail):
		BadRequest(c, ErrCodeEmailExists, err.Error())
	case errors.Is(err, service.ErrNoSession):
		Unauthorized(c, ErrCodeNoSession, service.ErrNoSession.Error())
	case errors.Is(err, service.ErrInvalidSession):
		Unauthorized(c, ErrCodeInvalidSession, service.ErrInvalidSession.Error())
	case errors.Is(err, service.ErrUserNotFound):
		Unauthorized(c, ErrCodeUserNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		Forbidden(c, ErrCodeForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, service.ErrFeatureDisabled):
		Forbidden(c, ErrCodeFeatureDisabled, err.Error())
	default:
		logrus.WithError(err).Error("unhandled service error")
		InternalError(c, "Ett internt fel inträffade")
	}
}
