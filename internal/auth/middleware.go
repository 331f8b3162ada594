package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/mediashelf/internal/apperr"
	"github.com/mrlokans/mediashelf/internal/config"
	"github.com/mrlokans/mediashelf/internal/entities"
)

// Context keys for user data
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyAuthType = "auth_type"
)

// AuthType indicates how the user was authenticated
type AuthType string

const (
	AuthTypeNone   AuthType = "none"
	AuthTypeBearer AuthType = "bearer"
)

// DefaultUserID is used when authentication is disabled
const DefaultUserID = uint(0)

// TokenLookup resolves a plaintext API token to its user.
type TokenLookup interface {
	GetUserByToken(ctx context.Context, token string) (*entities.User, error)
}

// Middleware handles authentication for HTTP requests.
type Middleware struct {
	users       TokenLookup
	config      config.Auth
	publicPaths map[string]bool
	logger      *zap.Logger
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(users TokenLookup, cfg config.Auth, logger *zap.Logger) *Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{
		users:  users,
		config: cfg,
		publicPaths: map[string]bool{
			"/health":  true,
			"/ping":    true,
			"/metrics": true,
		},
		logger: logger.Named("auth"),
	}
}

// Handler returns a Gin middleware handler that authenticates requests.
func (m *Middleware) Handler() gin.HandlerFunc {
	if m.config.Mode != config.AuthModeToken {
		return m.noAuthHandler()
	}
	return m.tokenHandler()
}

func (m *Middleware) noAuthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyUserID, DefaultUserID)
		c.Set(ContextKeyAuthType, AuthTypeNone)
		c.Next()
	}
}

func (m *Middleware) tokenHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.publicPaths[c.Request.URL.Path] {
			c.Set(ContextKeyUserID, DefaultUserID)
			c.Set(ContextKeyAuthType, AuthTypeNone)
			c.Next()
			return
		}

		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			unauthorized(c)
			return
		}

		user, err := m.users.GetUserByToken(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, apperr.ErrNotFound) {
				m.logger.Error("token lookup failed", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "internal error",
					"code":  "internal",
				})
				return
			}
			unauthorized(c)
			return
		}

		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeyAuthType, AuthTypeBearer)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": "authentication required",
		"code":  "unauthorized",
	})
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetUserID retrieves the authenticated user's ID from the context.
// Returns DefaultUserID (0) if not authenticated or auth is disabled.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return DefaultUserID
}

// GetAuthType retrieves the authentication method used.
func GetAuthType(c *gin.Context) AuthType {
	if t, exists := c.Get(ContextKeyAuthType); exists {
		if authType, ok := t.(AuthType); ok {
			return authType
		}
	}
	return AuthTypeNone
}

// SecurityHeadersMiddleware adds the response headers a JSON API needs.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Next()
	}
}
