package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agri-backend/internal/shared/auth"
	"agri-backend/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	isGuestKey   = "isGuest"

	guestHeader = "X-Guest-Id"
	guestPrefix = "guest:"
)

// AuthConfig configures the identity middleware.
type AuthConfig struct {
	Verifier *auth.Verifier
	// PublicPaths are request paths served without an identity. Identity
	// headers on those paths are still honoured when valid.
	PublicPaths []string
}

var errNoIdentity = errors.New("missing identity")

// Auth resolves the caller from a bearer token or a guest header and stores
// the identity in the gin context.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	public := make(map[string]struct{}, len(cfg.PublicPaths))
	for _, p := range cfg.PublicPaths {
		public[strings.TrimRight(p, "/")] = struct{}{}
	}

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		_, isPublic := public[strings.TrimRight(c.Request.URL.Path, "/")]
		err := resolveIdentity(c, cfg.Verifier)
		switch {
		case err == nil, isPublic:
			c.Next()
		case errors.Is(err, errNoIdentity):
			respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "Missing identity", nil)
		default:
			respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "missing or invalid token", nil)
		}
	}
}

func resolveIdentity(c *gin.Context, verifier *auth.Verifier) error {
	if authHeader := strings.TrimSpace(c.GetHeader("Authorization")); authHeader != "" {
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" || verifier == nil {
			return auth.ErrInvalidToken
		}
		claims, err := verifier.Verify(token)
		if err != nil {
			return err
		}
		c.Set(userIDKey, claims.Sub)
		if claims.Email != "" {
			c.Set(userEmailKey, claims.Email)
		}
		c.Set(isGuestKey, false)
		return nil
	}

	raw := strings.TrimSpace(c.GetHeader(guestHeader))
	if raw == "" {
		return errNoIdentity
	}
	guestID, err := uuid.Parse(raw)
	if err != nil {
		return err
	}
	c.Set(userIDKey, guestPrefix+guestID.String())
	c.Set(isGuestKey, true)
	return nil
}

// UserIDFromContext fetches the user ID set by the auth middleware. Guest
// identities carry a "guest:" prefix.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}

// UserEmailFromContext fetches the token email claim, if any.
func UserEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userEmailKey)
}

// IsGuest reports whether the caller identified with a guest header.
func IsGuest(c *gin.Context) bool {
	if c == nil {
		return false
	}
	return c.GetBool(isGuestKey)
}
