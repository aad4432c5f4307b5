package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListOrders handles GET /api/v1/orders - the caller's scooter orders, newest first
func ListOrders(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	svc, ok := chatService(c)
	if !ok {
		return
	}

	orders, err := svc.ListOrders(c.Request.Context(), session)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, orders)
}

// GetOrder handles GET /api/v1/orders/:id
// Orders belonging to other users are reported as not found
func GetOrder(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	svc, ok := chatService(c)
	if !ok {
		return
	}

	order, err := svc.GetOrder(c.Request.Context(), session, orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, order)
}
