package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"projekthub/internal/oauth"
	"projekthub/internal/service"
)

// oauthStateCookie binds the authorization round trip to the browser that
// started it. It only needs to survive the redirect to the provider.
const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 600
)

// OAuthStart redirects the browser to the provider's consent screen.
func (h *HTTPHandler) OAuthStart(c *gin.Context) {
	provider, ok := h.providers.Get(c.Param("provider"))
	if !ok {
		NotFound(c, "Inloggningsleverantören stöds inte")
		return
	}

	state, err := oauth.NewState()
	if err != nil {
		logrus.WithError(err).Error("failed to generate oauth state")
		InternalError(c, "Ett internt fel inträffade")
		return
	}

	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", true, true)
	c.Redirect(http.StatusSeeOther, provider.AuthCodeURL(state))
}

// OAuthCallback finishes the code exchange and signs the user in, creating
// a local account on first sign-in.
func (h *HTTPHandler) OAuthCallback(c *gin.Context) {
	provider, ok := h.providers.Get(c.Param("provider"))
	if !ok {
		NotFound(c, "Inloggningsleverantören stöds inte")
		return
	}

	expectedState, err := c.Cookie(oauthStateCookie)
	c.SetCookie(oauthStateCookie, "", -1, "/", "", true, true)
	if err != nil || expectedState == "" || c.Query("state") != expectedState {
		BadRequest(c, ErrCodeInvalidRequest, "Ogiltigt state-värde")
		return
	}

	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		BadRequest(c, ErrCodeInvalidRequest, "Auktoriseringskod saknas")
		return
	}

	// Exchange and verification talk to the provider, so the request context
	// is used as is rather than the short database timeout.
	ident, err := provider.Identity(c.Request.Context(), code)
	if err != nil {
		logrus.WithError(err).WithField("provider", provider.Name()).Warn("oauth exchange failed")
		Unauthorized(c, ErrCodeInvalidCredentials, "Inloggningen kunde inte slutföras")
		return
	}

	session, err := h.accounts.OAuthSignIn(c.Request.Context(), service.ExternalIdentity{
		Provider: ident.Provider,
		Email:    ident.Email,
		Name:     ident.Name,
		Avatar:   ident.Avatar,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.setSessionCookie(c, session.Token)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}
