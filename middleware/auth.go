package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/ganges-support-api/config"
	"github.com/kendall-kelly/ganges-support-api/models"
)

const (
	userIDKey          = "user_id"
	validatedClaimsKey = "validated_claims"
	accessTokenKey     = "access_token"
	sessionKey         = "session"
)

// CustomClaims contains the custom claims set by the Auth0 login action.
type CustomClaims struct {
	Scope         string `json:"scope"`
	Role          string `json:"role"`
	IsTestAccount bool   `json:"is_test_account"`
}

// Validate satisfies validator.CustomClaims.
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// SessionFromClaims builds the chat session for a validated token.
// Tokens without a role claim belong to customers.
func SessionFromClaims(claims *validator.ValidatedClaims) models.Session {
	session := models.Session{
		UserID: claims.RegisteredClaims.Subject,
		Role:   models.RoleCustomer,
	}
	if custom, ok := claims.CustomClaims.(*CustomClaims); ok && custom != nil {
		if custom.Role != "" {
			session.Role = custom.Role
		}
		session.IsTestAccount = custom.IsTestAccount
	}
	return session
}

// SetAuthContext stores the caller identity the way EnsureValidToken does
func SetAuthContext(c *gin.Context, claims *validator.ValidatedClaims, accessToken string) {
	c.Set(userIDKey, claims.RegisteredClaims.Subject)
	c.Set(validatedClaimsKey, claims)
	c.Set(accessTokenKey, accessToken)
	c.Set(sessionKey, SessionFromClaims(claims))
}

// EnsureValidToken is a middleware that will check the validity of our JWT.
func EnsureValidToken(cfg *config.Config) (gin.HandlerFunc, error) {
	issuerURL, err := url.Parse("https://" + cfg.Auth0Domain + "/")
	if err != nil {
		return nil, fmt.Errorf("failed to parse the issuer url: %w", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{cfg.Auth0Audience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the jwt validator: %w", err)
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		slog.Warn("jwt validation failed", "path", r.URL.Path, "error", err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate JWT."}}`)); writeErr != nil {
			slog.Error("failed to write error response", "error", writeErr)
		}
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			claims := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			token, _ := jwtmiddleware.AuthHeaderTokenExtractor(r)
			SetAuthContext(c, claims, token)
			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
	}, nil
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userIDStr, ok := userID.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a string"}
	}

	return userIDStr, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get(validatedClaimsKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// GetSession extracts the chat session from the Gin context
func GetSession(c *gin.Context) (models.Session, error) {
	value, exists := c.Get(sessionKey)
	if !exists {
		return models.Session{}, &AuthError{Code: "MISSING_SESSION", Message: "Session not found in context"}
	}

	session, ok := value.(models.Session)
	if !ok || session.UserID == "" {
		return models.Session{}, &AuthError{Code: "INVALID_SESSION", Message: "Session is not in the expected format"}
	}

	return session, nil
}

// GetAccessToken returns the raw bearer token of the request
func GetAccessToken(c *gin.Context) (string, error) {
	value, exists := c.Get(accessTokenKey)
	if !exists {
		return "", &AuthError{Code: "MISSING_ACCESS_TOKEN", Message: "Access token not found in context"}
	}

	token, ok := value.(string)
	if !ok || token == "" {
		return "", &AuthError{Code: "INVALID_ACCESS_TOKEN", Message: "Access token is not a string"}
	}

	return token, nil
}

// RequireRole is a middleware that only lets sessions with the given role through
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := GetSession(c)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "MISSING_SESSION", "Could not retrieve session")
			return
		}

		if session.Role != role {
			abortWithError(c, http.StatusForbidden, "INSUFFICIENT_ROLE", "Insufficient permissions to access this resource")
			return
		}

		c.Next()
	}
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
