package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListQueries handles GET /api/v1/queries - the caller's escalated support queries
func ListQueries(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	svc, ok := chatService(c)
	if !ok {
		return
	}

	queries, err := svc.ListQueries(c.Request.Context(), session)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, queries)
}
