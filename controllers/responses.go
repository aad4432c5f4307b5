package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/ganges-support-api/middleware"
	"github.com/kendall-kelly/ganges-support-api/models"
	"github.com/kendall-kelly/ganges-support-api/services"
)

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondErrorDetails(c *gin.Context, status int, code, message string, details interface{}) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// respondServiceError maps chat service errors onto the API error envelope
func respondServiceError(c *gin.Context, err error) {
	var (
		validationErr *services.ValidationError
		notFoundErr   *services.NotFoundError
		permissionErr *services.PermissionError
		remoteErr     *services.RemoteError
	)

	switch {
	case errors.As(err, &validationErr):
		respondError(c, http.StatusBadRequest, validationErr.Code, validationErr.Message)
	case errors.As(err, &notFoundErr):
		resource := notFoundErr.Resource
		if resource != "" {
			resource = strings.ToUpper(resource[:1]) + resource[1:]
		}
		respondError(c, http.StatusNotFound, notFoundErr.Code(), resource+" not found")
	case errors.As(err, &permissionErr):
		respondError(c, http.StatusForbidden, "FORBIDDEN", permissionErr.Message)
	case errors.As(err, &remoteErr):
		slog.ErrorContext(c.Request.Context(), "remote call failed",
			"path", c.FullPath(),
			"step", string(remoteErr.Step),
			"error", remoteErr.Err)
		respondErrorDetails(c, http.StatusBadGateway, "REMOTE_FAILURE", "A backing service call failed",
			gin.H{"step": remoteErr.Step})
	default:
		slog.ErrorContext(c.Request.Context(), "unexpected error", "path", c.FullPath(), "error", err)
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	}
}

// requireSession returns the caller's session or writes a 401
func requireSession(c *gin.Context) (models.Session, bool) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return models.Session{}, false
	}
	return session, true
}

// parseIDParam reads a positive numeric path parameter or writes a 400
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// chatService returns the configured chat service or writes a 500
func chatService(c *gin.Context) (*services.ChatService, bool) {
	svc := services.GetChatService()
	if svc == nil {
		respondError(c, http.StatusInternalServerError, "SERVICE_UNAVAILABLE", "Chat service is not initialized")
		return nil, false
	}
	return svc, true
}
