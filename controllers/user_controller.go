package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/ganges-support-api/config"
	"github.com/kendall-kelly/ganges-support-api/middleware"
	"github.com/kendall-kelly/ganges-support-api/models"
	"github.com/kendall-kelly/ganges-support-api/services"
	"gorm.io/gorm"
)

// UpdateUserRequest represents the request body for updating a user profile
type UpdateUserRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// CreateUser handles POST /api/v1/users - creates the caller's profile from Auth0 userinfo.
// Passwordless SMS logins identify users by their verified phone number.
func CreateUser(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "MISSING_TOKEN", "Access token not found")
		return
	}

	auth0Service := services.NewAuth0Service(config.GetConfig())
	userInfo, err := auth0Service.GetUserInfo(c.Request.Context(), accessToken)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "userinfo lookup failed", "user_id", session.UserID, "error", err)
		respondError(c, http.StatusBadGateway, "AUTH0_ERROR", "Failed to fetch user information from Auth0")
		return
	}

	if userInfo.PhoneNumber == "" {
		respondError(c, http.StatusBadRequest, "MISSING_PHONE_NUMBER", "Phone number not provided by Auth0")
		return
	}

	user := models.User{
		Auth0ID:     session.UserID,
		PhoneNumber: userInfo.PhoneNumber,
		Name:        userInfo.Name,
		Role:        session.Role,
	}

	db := config.GetDB()
	if err := db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		// Postgres reports "duplicate key", SQLite "UNIQUE constraint failed"
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") || strings.Contains(errMsg, "unique") {
			respondError(c, http.StatusConflict, "USER_EXISTS", "A user with this Auth0 ID or phone number already exists")
			return
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create user")
		return
	}

	respondOK(c, http.StatusCreated, user)
}

// GetMyProfile handles GET /api/v1/users/me - gets current user's profile
func GetMyProfile(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	user, err := findUser(c, session.UserID)
	if err != nil {
		respondProfileLookupError(c, err)
		return
	}
	respondOK(c, http.StatusOK, user)
}

// UpdateMyProfile handles PUT /api/v1/users/me - updates the display name
func UpdateMyProfile(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
		return
	}

	user, err := findUser(c, session.UserID)
	if err != nil {
		respondProfileLookupError(c, err)
		return
	}

	name := strings.TrimSpace(req.Name)
	db := config.GetDB()
	if err := db.WithContext(c.Request.Context()).Model(user).Update("name", name).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update user profile")
		return
	}
	user.Name = name
	respondOK(c, http.StatusOK, user)
}

func findUser(c *gin.Context, auth0ID string) (*models.User, error) {
	var user models.User
	if err := config.GetDB().WithContext(c.Request.Context()).Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func respondProfileLookupError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User profile not found. Please create a profile first.")
		return
	}
	respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load user profile")
}
