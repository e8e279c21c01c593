package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"projekthub/internal/auth"
	"projekthub/internal/config"
	"projekthub/internal/entity"
	"projekthub/internal/model"
)

// AccountService orchestrates registration, login and the role-gated admin
// operations. Every privileged operation re-derives the caller's role from a
// freshly verified token; no role value from the client or from middleware
// state is trusted.
type AccountService struct {
	repo   model.Repository
	tokens *auth.Manager
	cfg    config.Config
}

// NewAccountService creates the account orchestrator.
func NewAccountService(repo model.Repository, tokens *auth.Manager, cfg config.Config) *AccountService {
	return &AccountService{
		repo:   repo,
		tokens: tokens,
		cfg:    cfg,
	}
}

// Session is the result of a successful authentication flow. The caller is
// responsible for storing the token in the session cookie.
type Session struct {
	User      entity.UserSummary
	Token     string
	ExpiresAt time.Time
}

// ExternalIdentity is a verified identity supplied by an OAuth provider.
type ExternalIdentity struct {
	Provider string
	Email    string
	Name     string
	Avatar   string
}

// session verifies the raw cookie token and returns its claims.
func (s *AccountService) session(token string) (*auth.Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrNoSession
	}
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	return claims, nil
}

// requireAdmin is the single verified-admin-session guard used at the top of
// every privileged operation.
func (s *AccountService) requireAdmin(token string) (*auth.Claims, error) {
	claims, err := s.session(token)
	if err != nil {
		return nil, err
	}
	if claims.Role != entity.RoleAdmin {
		return nil, ErrForbidden
	}
	return claims, nil
}

// Register creates a user with the USER role, their default project and an
// authenticated session.
func (s *AccountService) Register(ctx context.Context, in entity.AuthRegisterRequest) (*Session, error) {
	if err := validateRegister(in); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup existing user: %w", err)
	}

	// Both roles are ensured on first registration even though only USER is
	// assigned, so the role table is fully bootstrapped.
	userRole, err := s.repo.EnsureRole(ctx, entity.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("ensure USER role: %w", err)
	}
	if _, err := s.repo.EnsureRole(ctx, entity.RoleAdmin); err != nil {
		return nil, fmt.Errorf("ensure ADMIN role: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.DbUser{
		Email:        in.Email,
		Name:         strings.TrimSpace(in.Name),
		Avatar:       strings.TrimSpace(in.Avatar),
		PasswordHash: hash,
		IsVerified:   false,
		RoleID:       userRole.ID,
	}

	if err := s.repo.CreateUserWithProject(ctx, user, entity.DefaultProjectName); err != nil {
		// The pre-check above is best effort; the unique index on email is
		// the arbiter when registrations race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, expiresAt, err := s.tokens.GenerateToken(user, entity.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	user.Role = *userRole
	return &Session{User: userSummary(user), Token: token, ExpiresAt: expiresAt}, nil
}

// Login authenticates a user by email and password.
func (s *AccountService) Login(ctx context.Context, in entity.AuthLoginRequest) (*Session, error) {
	if err := validateLogin(in); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !user.IsVerified {
		return nil, ErrAccountUnverified
	}

	if err := auth.VerifyPassword(user.PasswordHash, in.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	role := user.RoleName()
	token, expiresAt, err := s.tokens.GenerateToken(user, role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if role == entity.RoleAdmin {
		// TODO(auth): a second-factor challenge for admin logins is policy
		// intent but has no agreed UX yet; only the audit entry exists.
		logrus.WithField("user_id", user.ID).Info("admin login")
		if err := s.audit(ctx, entity.ActionLogin, user.ID, "admin loggade in"); err != nil {
			return nil, err
		}
	}

	return &Session{User: userSummary(user), Token: token, ExpiresAt: expiresAt}, nil
}

// UserWithProjects resolves the session owner and the projects they own.
func (s *AccountService) UserWithProjects(ctx context.Context, token string) (*entity.UserProjectsResponse, error) {
	claims, err := s.session(token)
	if err != nil {
		return nil, err
	}

	// The token may outlive its principal: a user deleted after issuance
	// still presents a cryptographically valid token.
	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	projects, err := s.repo.ListProjectsByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}

	resp := &entity.UserProjectsResponse{
		User:     userSummary(user),
		Projects: make([]entity.ProjectSummary, 0, len(projects)),
	}
	for idx := range projects {
		resp.Projects = append(resp.Projects, projectSummary(&projects[idx]))
	}
	return resp, nil
}

// UpdateAvatar stores a new avatar reference for the session owner.
func (s *AccountService) UpdateAvatar(ctx context.Context, token, avatarRef string) (*entity.UserSummary, error) {
	claims, err := s.session(token)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateUserAvatar(ctx, claims.UserID, avatarRef); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update avatar: %w", err)
	}
	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	summary := userSummary(user)
	return &summary, nil
}

// AllUsers lists every user. Admin only.
func (s *AccountService) AllUsers(ctx context.Context, token string) ([]entity.UserSummary, error) {
	claims, err := s.requireAdmin(token)
	if err != nil {
		return nil, err
	}

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	if err := s.audit(ctx, entity.ActionGetAllUsers, claims.UserID, "hämtade alla användare"); err != nil {
		return nil, err
	}

	summaries := make([]entity.UserSummary, 0, len(users))
	for idx := range users {
		summaries = append(summaries, userSummary(&users[idx]))
	}
	return summaries, nil
}

// AllProjects lists every project with its owner. Admin only.
func (s *AccountService) AllProjects(ctx context.Context, token string) ([]entity.AdminProjectSummary, error) {
	claims, err := s.requireAdmin(token)
	if err != nil {
		return nil, err
	}

	projects, err := s.repo.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	if err := s.audit(ctx, entity.ActionGetAllProjects, claims.UserID, "hämtade alla projekt"); err != nil {
		return nil, err
	}

	summaries := make([]entity.AdminProjectSummary, 0, len(projects))
	for idx := range projects {
		p := &projects[idx]
		summaries = append(summaries, entity.AdminProjectSummary{
			ID:        p.ID,
			Name:      p.Name,
			User:      userSummary(&p.User),
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}
	return summaries, nil
}

// DeleteUser removes a user together with their projects and audit rows.
// Admin only.
func (s *AccountService) DeleteUser(ctx context.Context, token string, id uint) error {
	claims, err := s.requireAdmin(token)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteUserCascade(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	return s.audit(ctx, entity.ActionDeleteUser, claims.UserID, fmt.Sprintf("tog bort användare %d", id))
}

// DeleteProject removes one project. Admin only.
func (s *AccountService) DeleteProject(ctx context.Context, token string, id uint) error {
	claims, err := s.requireAdmin(token)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteProject(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete project: %w", err)
	}

	return s.audit(ctx, entity.ActionDeleteProject, claims.UserID, fmt.Sprintf("tog bort projekt %d", id))
}

// CreateAdmin provisions a pre-verified ADMIN user and returns a session for
// the new account. Gated by the deployment-wide kill switch and the caller's
// own ADMIN role.
func (s *AccountService) CreateAdmin(ctx context.Context, token string, in entity.AuthRegisterRequest) (*Session, error) {
	if s.cfg.AdminCreationDisabled {
		return nil, ErrFeatureDisabled
	}

	claims, err := s.requireAdmin(token)
	if err != nil {
		return nil, err
	}

	if err := validateRegister(in); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup existing user: %w", err)
	}

	adminRole, err := s.repo.EnsureRole(ctx, entity.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("ensure ADMIN role: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.DbUser{
		Email:        in.Email,
		Name:         strings.TrimSpace(in.Name),
		Avatar:       strings.TrimSpace(in.Avatar),
		PasswordHash: hash,
		IsVerified:   true,
		RoleID:       adminRole.ID,
	}

	if err := s.repo.CreateUserWithProject(ctx, user, entity.DefaultProjectName); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create admin user: %w", err)
	}

	newToken, expiresAt, err := s.tokens.GenerateToken(user, entity.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	detail := fmt.Sprintf("skapade admin %s (id %d)", user.Email, user.ID)
	if err := s.audit(ctx, entity.ActionCreateAdmin, claims.UserID, detail); err != nil {
		return nil, err
	}

	user.Role = *adminRole
	return &Session{User: userSummary(user), Token: newToken, ExpiresAt: expiresAt}, nil
}

// AdminLogs returns the audit trail. Admin only. Reading the trail is not
// itself in the audit action vocabulary, so no entry is appended.
func (s *AccountService) AdminLogs(ctx context.Context, token string) ([]entity.AdminLogEntry, error) {
	if _, err := s.requireAdmin(token); err != nil {
		return nil, err
	}

	logs, err := s.repo.ListAdminLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list admin logs: %w", err)
	}

	entries := make([]entity.AdminLogEntry, 0, len(logs))
	for idx := range logs {
		l := &logs[idx]
		entries = append(entries, entity.AdminLogEntry{
			ID:        l.ID,
			Action:    l.Action,
			UserID:    l.UserID,
			Detail:    l.Detail,
			CreatedAt: l.CreatedAt,
		})
	}
	return entries, nil
}

// OAuthSignIn provisions a local account for a verified external identity if
// needed and returns a session. First sign-in mirrors the registration
// bootstrap: one role, one default project, pre-verified since the provider
// already verified the email.
func (s *AccountService) OAuthSignIn(ctx context.Context, ident ExternalIdentity) (*Session, error) {
	if strings.TrimSpace(ident.Email) == "" {
		return nil, validationErr("E-postadress saknas från inloggningsleverantören")
	}

	user, err := s.repo.GetUserByEmail(ctx, ident.Email)
	switch {
	case err == nil:
		// Existing account, regardless of how it was created.
	case errors.Is(err, gorm.ErrRecordNotFound):
		userRole, roleErr := s.repo.EnsureRole(ctx, entity.RoleUser)
		if roleErr != nil {
			return nil, fmt.Errorf("ensure USER role: %w", roleErr)
		}

		name := strings.TrimSpace(ident.Name)
		if name == "" {
			name = "Okänd"
		}

		user = &entity.DbUser{
			Email:      ident.Email,
			Name:       name,
			Avatar:     strings.TrimSpace(ident.Avatar),
			IsVerified: true,
			RoleID:     userRole.ID,
		}
		if createErr := s.repo.CreateUserWithProject(ctx, user, entity.DefaultProjectName); createErr != nil {
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				// Lost a race against a concurrent first sign-in.
				user, err = s.repo.GetUserByEmail(ctx, ident.Email)
				if err != nil {
					return nil, fmt.Errorf("reload user after race: %w", err)
				}
				break
			}
			return nil, fmt.Errorf("provision user: %w", createErr)
		}
		user.Role = *userRole
	default:
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	role := user.RoleName()
	token, expiresAt, err := s.tokens.GenerateToken(user, role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"provider": ident.Provider,
		"user_id":  user.ID,
	}).Info("oauth sign-in")

	return &Session{User: userSummary(user), Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AccountService) audit(ctx context.Context, action entity.AdminAction, userID uint, detail string) error {
	log := &entity.DbAdminLog{
		Action: action,
		UserID: userID,
		Detail: detail,
	}
	if err := s.repo.AppendAdminLog(ctx, log); err != nil {
		return fmt.Errorf("append admin log: %w", err)
	}
	return nil
}

func userSummary(user *entity.DbUser) entity.UserSummary {
	if user == nil {
		return entity.UserSummary{}
	}
	return entity.UserSummary{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Avatar:     user.Avatar,
		Role:       user.RoleName(),
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

func projectSummary(project *entity.DbProject) entity.ProjectSummary {
	if project == nil {
		return entity.ProjectSummary{}
	}
	return entity.ProjectSummary{
		ID:        project.ID,
		Name:      project.Name,
		UserID:    project.UserID,
		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}
}
