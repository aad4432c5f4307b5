package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/ganges-support-api/middleware"
	"github.com/kendall-kelly/ganges-support-api/models"
)

// RegisterRoutes mounts the support API on v1. auth must populate the session the way
// middleware.EnsureValidToken does.
func RegisterRoutes(v1 *gin.RouterGroup, auth gin.HandlerFunc) {
	// Attachment URLs are embedded in messages and fetched by <img>/<a> tags without a bearer token
	v1.GET("/uploads/:filename", GetUploadedFile)

	authed := v1.Group("", auth)

	conversations := authed.Group("/conversations")
	{
		conversations.POST("", StartConversation)
		conversations.GET("", ListConversations)
		conversations.GET("/:id/messages", ListMessages)
		conversations.POST("/:id/messages", SubmitMessage)
		conversations.POST("/:id/questions/:questionId", SelectQuestion)
		conversations.POST("/:id/attachments", AttachFile)
		conversations.POST("/:id/escalations", Escalate)
	}

	authed.GET("/questions", ListQuestions)
	authed.GET("/queries", ListQueries)
	authed.GET("/orders", ListOrders)
	authed.GET("/orders/:id", GetOrder)

	authed.POST("/users", CreateUser)
	authed.GET("/users/me", GetMyProfile)
	authed.PUT("/users/me", UpdateMyProfile)

	admin := authed.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/questions", AdminListQuestions)
		admin.POST("/questions", AdminCreateQuestion)
		admin.PUT("/questions/:id", AdminUpdateQuestion)
		admin.DELETE("/questions/:id", AdminDeleteQuestion)
	}
}
