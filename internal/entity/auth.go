package entity

import "time"

// AuthRegisterRequest is the registration payload. Bound from either a JSON
// body or a classic HTML form post; canonical validation happens in the
// account service so the rules hold for every entry point.
type AuthRegisterRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Name     string `json:"name" form:"name"`
	Avatar   string `json:"avatar,omitempty" form:"avatar"`
}

// AuthLoginRequest is the login payload.
type AuthLoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// AuthResponse is returned after a successful login.
type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}

// UserProjectsResponse combines the session owner with the projects they own.
type UserProjectsResponse struct {
	User     UserSummary      `json:"user"`
	Projects []ProjectSummary `json:"projects"`
}

// UserListResponse is the admin listing of all users.
type UserListResponse struct {
	Users []UserSummary `json:"users"`
}

// ProjectListResponse is the admin listing of all projects.
type ProjectListResponse struct {
	Projects []AdminProjectSummary `json:"projects"`
}

// AdminLogListResponse is the audit-trail listing.
type AdminLogListResponse struct {
	Logs []AdminLogEntry `json:"logs"`
}
