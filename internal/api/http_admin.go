package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"projekthub/internal/entity"
)

// AdminUsers lists every user.
func (h *HTTPHandler) AdminUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	users, err := h.accounts.AllUsers(ctx, sessionToken(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	for idx := range users {
		users[idx] = h.publishUser(users[idx])
	}
	c.JSON(http.StatusOK, entity.UserListResponse{Users: users})
}

// AdminProjects lists every project with its owner.
func (h *HTTPHandler) AdminProjects(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	projects, err := h.accounts.AllProjects(ctx, sessionToken(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	for idx := range projects {
		projects[idx].User = h.publishUser(projects[idx].User)
	}
	c.JSON(http.StatusOK, entity.ProjectListResponse{Projects: projects})
}

// AdminDeleteUser removes a user and everything they own.
func (h *HTTPHandler) AdminDeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	if err := h.accounts.DeleteUser(ctx, sessionToken(c), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// AdminDeleteProject removes a single project.
func (h *HTTPHandler) AdminDeleteProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	if err := h.accounts.DeleteProject(ctx, sessionToken(c), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// AdminCreateAdmin provisions a new pre-verified admin account. On success
// the caller's session cookie is replaced with one for the new account and
// the browser is sent back to the admin console.
func (h *HTTPHandler) AdminCreateAdmin(c *gin.Context) {
	var req entity.AuthRegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	session, err := h.accounts.CreateAdmin(ctx, sessionToken(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.setSessionCookie(c, session.Token)
	c.Redirect(http.StatusSeeOther, "/admin")
}

// AdminLogs returns the audit trail, newest first.
func (h *HTTPHandler) AdminLogs(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	logs, err := h.accounts.AdminLogs(ctx, sessionToken(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.AdminLogListResponse{Logs: logs})
}

func pathID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || parsed == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "ogiltigt id")
		return 0, false
	}
	return uint(parsed), true
}
