package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"

	"projekthub/internal/config"
)

const facebookProfileURL = "https://graph.facebook.com/v19.0/me"

// FacebookProvider signs users in over plain OAuth2. Facebook issues no
// ID token, so the profile is read from the Graph API after the exchange.
type FacebookProvider struct {
	oauth *oauth2.Config
}

func NewFacebookProvider(cfg config.Config) *FacebookProvider {
	return &FacebookProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.FacebookClientID,
			ClientSecret: cfg.FacebookClientSecret,
			Endpoint:     facebook.Endpoint,
			RedirectURL:  redirectURL(cfg, "facebook"),
			Scopes:       []string{"email", "public_profile"},
		},
	}
}

func (p *FacebookProvider) Name() string {
	return "facebook"
}

func (p *FacebookProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

func (p *FacebookProvider) Identity(ctx context.Context, code string) (Identity, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return Identity{}, fmt.Errorf("exchange code: %w", err)
	}

	profileURL := facebookProfileURL + "?fields=" + url.QueryEscape("id,name,email,picture.type(large)")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, nil)
	if err != nil {
		return Identity{}, fmt.Errorf("build profile request: %w", err)
	}

	resp, err := p.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return Identity{}, fmt.Errorf("profile request failed with status %d: %s", resp.StatusCode, body)
	}

	var profile struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return Identity{}, fmt.Errorf("decode profile: %w", err)
	}
	if profile.Email == "" {
		return Identity{}, errors.New("profile carries no email")
	}

	return Identity{
		Provider: p.Name(),
		Email:    profile.Email,
		Name:     profile.Name,
		Avatar:   profile.Picture.Data.URL,
	}, nil
}

var _ Provider = (*FacebookProvider)(nil)
