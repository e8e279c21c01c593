package api

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"projekthub/internal/entity"
)

// maxAvatarBytes caps avatar uploads at 5 MiB.
const maxAvatarBytes = 5 << 20

// Me returns the session owner together with their projects.
func (h *HTTPHandler) Me(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	resp, err := h.accounts.UserWithProjects(ctx, sessionToken(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp.User = h.publishUser(resp.User)
	c.JSON(http.StatusOK, resp)
}

// UploadAvatar accepts a multipart image, writes it to the configured
// avatar store and records the reference on the session owner.
func (h *HTTPHandler) UploadAvatar(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	// Resolve the session before reading the upload so anonymous requests
	// are rejected cheaply.
	owner, err := h.accounts.UserWithProjects(ctx, sessionToken(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		BadRequest(c, ErrCodeValidation, "Ingen bildfil i förfrågan")
		return
	}
	if fileHeader.Size > maxAvatarBytes {
		BadRequest(c, ErrCodeValidation, "Bilden är för stor (max 5 MB)")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logrus.WithError(err).Error("failed to open avatar upload")
		InternalError(c, "Kunde inte läsa bilden")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes+1))
	if err != nil {
		logrus.WithError(err).Error("failed to read avatar upload")
		InternalError(c, "Kunde inte läsa bilden")
		return
	}
	if len(data) > maxAvatarBytes {
		BadRequest(c, ErrCodeValidation, "Bilden är för stor (max 5 MB)")
		return
	}

	ext := strings.TrimPrefix(filepath.Ext(fileHeader.Filename), ".")
	ref, err := h.avatars.Save(ctx, owner.User.ID, data, ext)
	if err != nil {
		BadRequest(c, ErrCodeValidation, "Bildformatet stöds inte")
		return
	}

	summary, err := h.accounts.UpdateAvatar(ctx, sessionToken(c), ref)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.publishUser(*summary))
}

// publishUser rewrites the stored avatar reference into a client-loadable
// URL before a user summary leaves the API.
func (h *HTTPHandler) publishUser(user entity.UserSummary) entity.UserSummary {
	user.Avatar = h.avatarPublicURL(user.Avatar)
	return user
}
