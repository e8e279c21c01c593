package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"projekthub/internal/config"
)

// Identity is the profile a provider hands back after a successful
// authorization code exchange.
type Identity struct {
	Provider string
	Email    string
	Name     string
	Avatar   string
}

// Provider implements one external sign-in backend.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	Identity(ctx context.Context, code string) (Identity, error)
}

// Registry holds the providers that were configured at startup. Providers
// with missing credentials are simply absent.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry builds all providers whose client credentials are present.
func NewRegistry(ctx context.Context, cfg config.Config) (*Registry, error) {
	reg := &Registry{providers: make(map[string]Provider)}

	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		p, err := NewGoogleProvider(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("oauth: configure google: %w", err)
		}
		reg.providers[p.Name()] = p
	}

	if cfg.FacebookClientID != "" && cfg.FacebookClientSecret != "" {
		p := NewFacebookProvider(cfg)
		reg.providers[p.Name()] = p
	}

	return reg, nil
}

// Get returns the named provider, or false when it is not configured.
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Names lists the configured provider names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// NewState returns a random hex string used to bind the authorization
// round trip to the browser that started it.
func NewState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("oauth: generate state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func redirectURL(cfg config.Config, provider string) string {
	base := strings.TrimRight(cfg.OAuthRedirectBase, "/")
	return base + "/api/auth/oauth/" + provider + "/callback"
}
