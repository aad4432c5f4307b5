package testutil

import (
	"strings"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/ganges-support-api/middleware"
	"github.com/kendall-kelly/ganges-support-api/models"
)

// MockValidatedClaims creates validated claims for a subject with the given role
func MockValidatedClaims(subject, role string, scopes []string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  "https://test.auth0.com/",
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Scope: strings.Join(scopes, " "),
			Role:  role,
		},
	}
}

// MockAuth returns a middleware that authenticates every request as the given user
func MockAuth(subject, role, token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetAuthContext(c, MockValidatedClaims(subject, role, nil), token)
		c.Next()
	}
}

// CustomerAuth authenticates requests as a customer
func CustomerAuth(subject string) gin.HandlerFunc {
	return MockAuth(subject, models.RoleCustomer, "test-token-"+subject)
}

// AdminAuth authenticates requests as an admin
func AdminAuth(subject string) gin.HandlerFunc {
	return MockAuth(subject, models.RoleAdmin, "test-token-"+subject)
}
