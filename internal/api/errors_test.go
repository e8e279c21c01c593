package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"projekthub/internal/service"
)

func TestWriteServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Validation",
			err:            &service.ValidationError{Message: "Ange en giltig e-postadress"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrCodeValidation,
		},
		{
			name:           "InvalidCredentials",
			err:            service.ErrInvalidCredentials,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   ErrCodeInvalidCredentials,
		},
		{
			name:           "AccountUnverified",
			err:            service.ErrAccountUnverified,
			expectedStatus: http.StatusForbidden,
			expectedCode:   ErrCodeAccountUnverified,
		},
		{
			name:           "DuplicateEmail",
			err:            service.ErrDuplicateEmail,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrCodeEmailExists,
		},
		{
			name:           "NoSession",
			err:            service.ErrNoSession,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   ErrCodeNoSession,
		},
		{
			name:           "WrappedInvalidSession",
			err:            errors.Join(service.ErrInvalidSession, errors.New("token is malformed")),
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   ErrCodeInvalidSession,
		},
		{
			name:           "UserNotFound",
			err:            service.ErrUserNotFound,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   ErrCodeUserNotFound,
		},
		{
			name:           "Forbidden",
			err:            service.ErrForbidden,
			expectedStatus: http.StatusForbidden,
			expectedCode:   ErrCodeForbidden,
		},
		{
			name:           "NotFound",
			err:            service.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   ErrCodeNotFound,
		},
		{
			name:           "FeatureDisabled",
			err:            service.ErrFeatureDisabled,
			expectedStatus: http.StatusForbidden,
			expectedCode:   ErrCodeFeatureDisabled,
		},
		{
			name:           "UnknownError",
			err:            errors.New("database on fire"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			writeServiceError(c, tt.err)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			var response APIError
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if response.Code != tt.expectedCode {
				t.Errorf("expected code %s, got %s", tt.expectedCode, response.Code)
			}
		})
	}
}
