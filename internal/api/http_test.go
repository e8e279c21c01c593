package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"projekthub/internal/auth"
	"projekthub/internal/config"
	"projekthub/internal/entity"
	"projekthub/internal/model"
	"projekthub/internal/oauth"
	"projekthub/internal/storage"
)

func newTestRouter(t *testing.T, cfg config.Config) (*gin.Engine, *HTTPHandler, model.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg.DBType = model.DBTypeSQLite
	cfg.DBPath = filepath.Join(t.TempDir(), "test.db")
	cfg.StorageLocalDir = filepath.Join(t.TempDir(), "avatars")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "test-secret"
	}
	if cfg.JWTExpirationMinutes == 0 {
		cfg.JWTExpirationMinutes = 60
	}

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		t.Fatalf("failed to initialise repository: %v", err)
	}

	store, err := storage.NewAvatarStore(cfg)
	if err != nil {
		t.Fatalf("failed to initialise avatar store: %v", err)
	}

	handler, err := NewHTTPHandler(cfg, repo, store, &oauth.Registry{})
	if err != nil {
		t.Fatalf("failed to create handler: %v", err)
	}

	r := gin.New()
	authGroup := r.Group("/api/auth")
	authGroup.POST("/register", handler.Register)
	authGroup.POST("/login", handler.Login)
	authGroup.POST("/logout", handler.Logout)

	r.GET("/api/me", handler.Me)
	r.POST("/api/me/avatar", handler.UploadAvatar)

	adminGroup := r.Group("/api/admin")
	adminGroup.GET("/users", handler.AdminUsers)
	adminGroup.DELETE("/users/:id", handler.AdminDeleteUser)
	adminGroup.GET("/projects", handler.AdminProjects)
	adminGroup.DELETE("/projects/:id", handler.AdminDeleteProject)
	adminGroup.POST("/create-admin", handler.AdminCreateAdmin)
	adminGroup.GET("/logs", handler.AdminLogs)

	pages := r.Group("")
	pages.Use(handler.RouteGuard())
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	pages.GET("/", ok)
	pages.GET("/login", ok)
	pages.GET("/dashboard", ok)
	pages.GET("/admin", ok)

	return r, handler, repo
}

func seedVerifiedUser(t *testing.T, repo model.Repository, email, password string, role entity.RoleName) *entity.DbUser {
	t.Helper()
	ctx := context.Background()

	roleRow, err := repo.EnsureRole(ctx, role)
	if err != nil {
		t.Fatalf("ensure role: %v", err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &entity.DbUser{
		Email:        email,
		Name:         "Seeded User",
		PasswordHash: hash,
		IsVerified:   true,
		RoleID:       roleRow.ID,
	}
	if err := repo.CreateUserWithProject(ctx, user, entity.DefaultProjectName); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(t *testing.T, r *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func loginAs(t *testing.T, r *gin.Engine, email, password string) *http.Cookie {
	t.Helper()
	w := postJSON(t, r, "/api/auth/login", entity.AuthLoginRequest{Email: email, Password: password}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", w.Code, w.Body.String())
	}
	return sessionCookie(t, w)
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	if err := json.Unmarshal(w.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}
	return apiErr
}

func TestRegisterSetsCookieAndRedirects(t *testing.T) {
	r, _, _ := newTestRouter(t, config.Config{})

	w := postJSON(t, r, "/api/auth/register", entity.AuthRegisterRequest{
		Email:    "anna@example.com",
		Password: "hemligt123",
		Name:     "Anna",
	}, nil)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("expected redirect to /dashboard, got %q", loc)
	}

	cookie := sessionCookie(t, w)
	if cookie.Value == "" {
		t.Error("expected a token value in the session cookie")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	if !cookie.Secure {
		t.Error("session cookie must be Secure")
	}
	if cookie.MaxAge != 3600 {
		t.Errorf("expected cookie max-age 3600, got %d", cookie.MaxAge)
	}
}

func TestRegisterErrorMapping(t *testing.T) {
	r, _, repo := newTestRouter(t, config.Config{})
	seedVerifiedUser(t, repo, "upptagen@example.com", "hemligt123", entity.RoleUser)

	tests := []struct {
		name           string
		payload        entity.AuthRegisterRequest
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "DuplicateEmail",
			payload:        entity.AuthRegisterRequest{Email: "upptagen@example.com", Password: "hemligt123", Name: "Anna"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrCodeEmailExists,
		},
		{
			name:           "InvalidEmail",
			payload:        entity.AuthRegisterRequest{Email: "trasig", Password: "hemligt123", Name: "Anna"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrCodeValidation,
		},
		{
			name:           "ShortPassword",
			payload:        entity.AuthRegisterRequest{Email: "anna@example.com", Password: "kort", Name: "Anna"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/api/auth/register", tt.payload, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if apiErr := decodeAPIError(t, w); apiErr.Code != tt.expectedCode {
				t.Errorf("expected code %s, got %s", tt.expectedCode, apiErr.Code)
			}
		})
	}
}

func TestLoginErrorMapping(t *testing.T) {
	r, _, repo := newTestRouter(t, config.Config{})
	seedVerifiedUser(t, repo, "anna@example.com", "hemligt123", entity.RoleUser)

	w := postJSON(t, r, "/api/auth/register", entity.AuthRegisterRequest{
		Email:    "overifierad@example.com",
		Password: "hemligt123",
		Name:     "Overifierad",
	}, nil)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("register failed: %d", w.Code)
	}

	tests := []struct {
		name           string
		payload        entity.AuthLoginRequest
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "UnknownEmail",
			payload:        entity.AuthLoginRequest{Email: "okand@example.com", Password: "hemligt123"},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   ErrCodeInvalidCredentials,
		},
		{
			name:           "WrongPassword",
			payload:        entity.AuthLoginRequest{Email: "anna@example.com", Password: "felfelfel"},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   ErrCodeInvalidCredentials,
		},
		{
			name:           "Unverified",
			payload:        entity.AuthLoginRequest{Email: "overifierad@example.com", Password: "hemligt123"},
			expectedStatus: http.StatusForbidden,
			expectedCode:   ErrCodeAccountUnverified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/api/auth/login", tt.payload, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if apiErr := decodeAPIError(t, w); apiErr.Code != tt.expectedCode {
				t.Errorf("expected code %s, got %s", tt.expectedCode, apiErr.Code)
			}
		})
	}
}

func TestLoginReturnsSessionJSON(t *testing.T) {
	r, _, repo := newTestRouter(t, config.Config{})
	seedVerifiedUser(t, repo, "anna@example.com", "hemligt123", entity.RoleUser)

	w := postJSON(t, r, "/api/auth/login", entity.AuthLoginRequest{
		Email:    "anna@example.com",
		Password: "hemligt123",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp entity.AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token in the response body")
	}
	if resp.User.Email != "anna@example.com" {
		t.Errorf("unexpected user %s", resp.User.Email)
	}
	if cookie := sessionCookie(t, w); cookie.Value != resp.Token {
		t.Error("cookie token must match the response token")
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	r, _, repo := newTestRouter(t, config.Config{})
	seedVerifiedUser(t, repo, "anna@example.com", "hemligt123", entity.RoleUser)
	cookie := loginAs(t, r, "anna@example.com", "hemligt123")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", w.Code)
	}
	cleared := sessionCookie(t, w)
	if cleared.Value != "" || cleared.MaxAge >= 0 {
		t.Errorf("expected an expired empty cookie, got value %q max-age %d", cleared.Value, cleared.MaxAge)
	}
}

func TestRouteGuard(t *testing.T) {
	r, _, repo := newTestRouter(t, config.Config{})
	seedVerifiedUser(t, repo, "anna@example.com", "hemligt123", entity.RoleUser)
	seedVerifiedUser(t, repo, "admin@example.com", "hemligt123", entity.RoleAdmin)
	userCookie := loginAs(t, r, "anna@example.com", "hemligt123")
	adminCookie := loginAs(t, r, "admin@example.com", "hemligt123")

	tests := []struct {
		name             string
		path             string
		cookie           *http.Cookie
		expectedStatus   int
		expectedLocation string
	}{
		{name: "IndexIsPublic", path: "/", expectedStatus: http.StatusOK},
		{name: "LoginIsPublic", path: "/login", expectedStatus: http.StatusOK},
		{name: "DashboardWithoutSession", path: "/dashboard", expectedStatus: http.StatusSeeOther, expectedLocation: "/login"},
		{name: "DashboardWithBadToken", path: "/dashboard", cookie: &http.Cookie{Name: sessionCookieName, Value: "trasig"}, expectedStatus: http.StatusSeeOther, expectedLocation: "/login"},
		{name: "DashboardWithSession", path: "/dashboard", cookie: userCookie, expectedStatus: http.StatusOK},
		{name: "AdminWithoutSession", path: "/admin", expectedStatus: http.StatusSeeOther, expectedLocation: "/login"},
		{name: "AdminAsUser", path: "/admin", cookie: userCookie, expectedStatus: http.StatusSeeOther, expectedLocation: "/"},
		{name: "AdminAsAdmin", path: "/admin", cookie: adminCookie, expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, r, tt.path, tt.cookie)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedLocation != "" {
				if loc := w.Header().Get("Location"); loc != tt.expectedLocation {
					t.Errorf("expected redirect to %q, got %q", tt.expectedLocation, loc)
				}
			}
		})
	}
}

func TestAdminEndpointsRequireAdminSession(t *testing.T) {
	r, _, repo := newTestRouter(t, config.Config{})
	seedVerifiedUser(t, repo, "anna@example.com", "hemligt123", entity.RoleUser)
	userCookie := loginAs(t, r, "anna@example.com", "hemligt123")

	t.Run("NoSession", func(t *testing.T) {
		w := get(t, r, "/api/admin/users", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
		if apiErr := decodeAPIError(t, w); apiErr.Code != ErrCodeNoSession {
			t.Errorf("expected code %s, got %s", ErrCodeNoSession, apiErr.Code)
		}
	})

	t.Run("UserRole", func(t *testing.T) {
		w := get(t, r, "/api/admin/users", userCookie)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected status 403, got %d", w.Code)
		}
		if apiErr := decodeAPIError(t, w); apiErr.Code != ErrCodeForbidden {
			t.Errorf("expected code %s, got %s", ErrCodeForbidden, apiErr.Code)
		}
	})
}

func TestAdminListUsers(t *testing.T) {
	r, _, repo := newTestRouter(t, config.Config{})
	seedVerifiedUser(t, repo, "anna@example.com", "hemligt123", entity.RoleUser)
	seedVerifiedUser(t, repo, "admin@example.com", "hemligt123", entity.RoleAdmin)
	adminCookie := loginAs(t, r, "admin@example.com", "hemligt123")

	w := get(t, r, "/api/admin/users", adminCookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp entity.UserListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Users) != 2 {
		t.Errorf("expected 2 users, got %d", len(resp.Users))
	}
}

func TestAdminDeleteMissingUser(t *testing.T) {
	r, _, repo := newTestRouter(t, config.Config{})
	seedVerifiedUser(t, repo, "admin@example.com", "hemligt123", entity.RoleAdmin)
	adminCookie := loginAs(t, r, "admin@example.com", "hemligt123")

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/users/4711", nil)
	req.AddCookie(adminCookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
	if apiErr := decodeAPIError(t, w); apiErr.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, apiErr.Code)
	}
}

func TestCreateAdminReplacesSessionCookie(t *testing.T) {
	r, _, repo := newTestRouter(t, config.Config{})
	seedVerifiedUser(t, repo, "admin@example.com", "hemligt123", entity.RoleAdmin)
	callerCookie := loginAs(t, r, "admin@example.com", "hemligt123")

	w := postJSON(t, r, "/api/admin/create-admin", entity.AuthRegisterRequest{
		Email:    "ny-admin@example.com",
		Password: "hemligt123",
		Name:     "Ny Admin",
	}, callerCookie)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/admin" {
		t.Errorf("expected redirect to /admin, got %q", loc)
	}

	// The response cookie now belongs to the new admin account.
	newCookie := sessionCookie(t, w)
	if newCookie.Value == "" || newCookie.Value == callerCookie.Value {
		t.Error("expected a fresh session token for the new account")
	}
}

func TestCreateAdminKillSwitch(t *testing.T) {
	r, _, repo := newTestRouter(t, config.Config{AdminCreationDisabled: true})
	seedVerifiedUser(t, repo, "admin@example.com", "hemligt123", entity.RoleAdmin)
	callerCookie := loginAs(t, r, "admin@example.com", "hemligt123")

	w := postJSON(t, r, "/api/admin/create-admin", entity.AuthRegisterRequest{
		Email:    "ny-admin@example.com",
		Password: "hemligt123",
		Name:     "Ny Admin",
	}, callerCookie)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
	if apiErr := decodeAPIError(t, w); apiErr.Code != ErrCodeFeatureDisabled {
		t.Errorf("expected code %s, got %s", ErrCodeFeatureDisabled, apiErr.Code)
	}
}

func TestMeRequiresSession(t *testing.T) {
	r, _, _ := newTestRouter(t, config.Config{})

	w := get(t, r, "/api/me", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
	if apiErr := decodeAPIError(t, w); apiErr.Code != ErrCodeNoSession {
		t.Errorf("expected code %s, got %s", ErrCodeNoSession, apiErr.Code)
	}
}

func TestMeReturnsUserAndProjects(t *testing.T) {
	r, _, repo := newTestRouter(t, config.Config{})
	seedVerifiedUser(t, repo, "anna@example.com", "hemligt123", entity.RoleUser)
	cookie := loginAs(t, r, "anna@example.com", "hemligt123")

	w := get(t, r, "/api/me", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp entity.UserProjectsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.User.Email != "anna@example.com" {
		t.Errorf("unexpected user %s", resp.User.Email)
	}
	if len(resp.Projects) != 1 || resp.Projects[0].Name != entity.DefaultProjectName {
		t.Errorf("expected the default project, got %v", resp.Projects)
	}
}

func TestUploadAvatar(t *testing.T) {
	r, _, repo := newTestRouter(t, config.Config{})
	seedVerifiedUser(t, repo, "anna@example.com", "hemligt123", entity.RoleUser)
	cookie := loginAs(t, r, "anna@example.com", "hemligt123")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("avatar", "profil.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("not-a-real-png")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/me/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var summary entity.UserSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if !strings.HasPrefix(summary.Avatar, "/files/") {
		t.Errorf("expected a /files/ avatar URL, got %q", summary.Avatar)
	}
}

func TestUploadAvatarRejectsUnknownExtension(t *testing.T) {
	r, _, repo := newTestRouter(t, config.Config{})
	seedVerifiedUser(t, repo, "anna@example.com", "hemligt123", entity.RoleUser)
	cookie := loginAs(t, r, "anna@example.com", "hemligt123")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("avatar", "skript.exe")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("MZ")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/me/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}
