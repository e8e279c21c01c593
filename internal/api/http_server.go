package api

import (
	"strings"
	"time"

	"projekthub/internal/auth"
	"projekthub/internal/config"
	"projekthub/internal/model"
	"projekthub/internal/oauth"
	"projekthub/internal/service"
	"projekthub/internal/storage"
)

// handlerTimeout bounds the database work done by a single request.
const handlerTimeout = 5 * time.Second

// HTTPHandler holds every dependency the request handlers need.
type HTTPHandler struct {
	cfg               config.Config
	repo              model.Repository
	accounts          *service.AccountService
	authManager       *auth.Manager
	providers         *oauth.Registry
	avatars           storage.AvatarStore
	storagePublicBase string
}

// NewHTTPHandler wires the handler from its dependencies.
func NewHTTPHandler(cfg config.Config, repo model.Repository, avatars storage.AvatarStore, providers *oauth.Registry) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry)
	if err != nil {
		return nil, err
	}

	return &HTTPHandler{
		cfg:               cfg,
		repo:              repo,
		accounts:          service.NewAccountService(repo, authManager, cfg),
		authManager:       authManager,
		providers:         providers,
		avatars:           avatars,
		storagePublicBase: normalisePublicBase(cfg.StoragePublicBaseURL),
	}, nil
}

// Accounts exposes the account service, mainly for tests and the CLI.
func (h *HTTPHandler) Accounts() *service.AccountService {
	return h.accounts
}

func normalisePublicBase(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = "/files"
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return strings.TrimRight(trimmed, "/")
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}

// avatarPublicURL turns a stored avatar reference into the URL clients load
// it from. Absolute references (OAuth provider pictures) pass through.
func (h *HTTPHandler) avatarPublicURL(ref string) string {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	return h.storagePublicBase + "/" + strings.TrimLeft(trimmed, "/")
}
