package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"projekthub/internal/entity"
)

// Register creates a USER account with its default project, installs the
// session cookie and sends the browser to the dashboard.
func (h *HTTPHandler) Register(c *gin.Context) {
	var req entity.AuthRegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	session, err := h.accounts.Register(ctx, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.setSessionCookie(c, session.Token)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Login authenticates by email and password and installs the session cookie.
func (h *HTTPHandler) Login(c *gin.Context) {
	var req entity.AuthLoginRequest
	if err := c.ShouldBind(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	session, err := h.accounts.Login(ctx, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.setSessionCookie(c, session.Token)
	c.JSON(http.StatusOK, entity.AuthResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      session.User,
	})
}

// Logout clears the session cookie. Tokens are stateless so nothing is
// revoked server side; the cookie removal ends the browser session.
func (h *HTTPHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/login")
}
