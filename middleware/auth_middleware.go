package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/princinho/dealsbackend/apperror"
	"github.com/princinho/dealsbackend/auth"
	"github.com/princinho/dealsbackend/models"
)

const (
	identityKey = "identity"
	// TokenCookie carries the bearer token for browser clients.
	TokenCookie = "jwt"
)

type UserLoader interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// PublicRoutes lists the routes served without authentication, keyed by
// method and registered path pattern.
type PublicRoutes map[string]struct{}

func NewPublicRoutes() PublicRoutes { return PublicRoutes{} }

func (p PublicRoutes) Add(method, path string) { p[method+" "+path] = struct{}{} }

func (p PublicRoutes) Has(method, path string) bool {
	_, ok := p[method+" "+path]
	return ok
}

// Guard authenticates every non-public route: it validates the token,
// reloads the user and stores the current identity on the context.
func Guard(tokens *auth.TokenManager, users UserLoader, public PublicRoutes) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		// unmatched routes fall through to the 404 handler
		if path == "" || public.Has(c.Request.Method, path) {
			c.Next()
			return
		}

		tokenStr := bearerToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		claims, err := tokens.Validate(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.ID)
		if errors.Is(err, apperror.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user no longer exists"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(identityKey, auth.IdentityFromUser(user))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if header == "" {
		if cookie, err := c.Cookie(TokenCookie); err == nil {
			return cookie
		}
	}
	return ""
}

// CurrentIdentity returns the identity set by Guard, if any.
func CurrentIdentity(c *gin.Context) (*auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*auth.Identity)
	return id, ok && id != nil
}
