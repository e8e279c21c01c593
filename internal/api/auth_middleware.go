package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"projekthub/internal/entity"
)

// sessionCookieName is the HttpOnly cookie carrying the session token.
const sessionCookieName = "token"

// sessionToken reads the raw session token from the request cookie.
func sessionToken(c *gin.Context) string {
	token, err := c.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(token)
}

// setSessionCookie installs the session token for the configured lifetime.
func (h *HTTPHandler) setSessionCookie(c *gin.Context, token string) {
	maxAge := h.cfg.JWTExpirationMinutes * 60
	c.SetCookie(sessionCookieName, token, maxAge, "/", "", true, true)
}

// clearSessionCookie removes the session cookie.
func (h *HTTPHandler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(sessionCookieName, "", -1, "/", "", true, true)
}

// RouteGuard protects the dashboard and admin pages. Requests without a
// valid session are sent to the login page; authenticated non-admins asking
// for an admin page are sent to the start page instead.
func (h *HTTPHandler) RouteGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		needsSession := strings.HasPrefix(path, "/dashboard")
		needsAdmin := strings.HasPrefix(path, "/admin")
		if !needsSession && !needsAdmin {
			c.Next()
			return
		}

		claims, err := h.authManager.ParseToken(sessionToken(c))
		if err != nil {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		if needsAdmin && claims.Role != entity.RoleAdmin {
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}

		c.Next()
	}
}
