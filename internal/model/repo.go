package model

import (
	"context"

	"projekthub/internal/entity"
)

// Repository defines the persistence operations used by the service layer.
type Repository interface {
	// Users
	CreateUser(ctx context.Context, user *entity.DbUser) error
	// CreateUserWithProject creates the user together with their default
	// project in one transaction so partial state cannot be observed.
	CreateUserWithProject(ctx context.Context, user *entity.DbUser, projectName string) error
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	ListUsers(ctx context.Context) ([]entity.DbUser, error)
	ListUsersByRole(ctx context.Context, roleID uint) ([]entity.DbUser, error)
	UpdateUserAvatar(ctx context.Context, id uint, avatar string) error
	// DeleteUserCascade removes the user's projects and admin-log rows before
	// the user row itself, all in one transaction.
	DeleteUserCascade(ctx context.Context, id uint) error

	// Roles
	EnsureRole(ctx context.Context, name entity.RoleName) (*entity.DbRole, error)
	GetRoleByName(ctx context.Context, name entity.RoleName) (*entity.DbRole, error)

	// Projects
	CreateProject(ctx context.Context, project *entity.DbProject) error
	ListProjects(ctx context.Context) ([]entity.DbProject, error)
	ListProjectsByUser(ctx context.Context, userID uint) ([]entity.DbProject, error)
	DeleteProject(ctx context.Context, id uint) error

	// Admin audit log
	AppendAdminLog(ctx context.Context, log *entity.DbAdminLog) error
	ListAdminLogs(ctx context.Context) ([]entity.DbAdminLog, error)
}
