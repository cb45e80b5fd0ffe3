package middleware

import (
	"context"  // Context for store and Redis calls
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"wealthwise/internal/domain" // Domain models
	"wealthwise/internal/store"  // User lookup
	"wealthwise/internal/utils"  // JWT and revocation helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging
)

// Context keys and cookie name shared with the handlers
const (
	ActorKey      = "actor"   // *domain.User of the authenticated caller
	ClaimsKey     = "claims"  // *utils.Claims of the presented token
	SessionCookie = "session" // Cookie carrying the JWT for server-rendered pages
)

// Auth holds what the authentication middleware needs to resolve a caller
type Auth struct {
	Secret string
	Store  *store.Store
	Redis  redis.Cmdable // nil disables the revocation check
}

// Authenticate resolves the caller from a bearer header or the session cookie
func (a *Auth) Authenticate(ctx context.Context, r *http.Request) (*domain.User, *utils.Claims, error) {
	tokenStr := bearerToken(r)
	if tokenStr == "" {
		if ck, err := r.Cookie(SessionCookie); err == nil {
			tokenStr = ck.Value
		}
	}
	if tokenStr == "" {
		return nil, nil, domain.ErrUnauthenticated
	}
	claims, err := utils.ParseJWT(tokenStr, a.Secret) // Parse the JWT token
	if err != nil {
		return nil, nil, domain.ErrUnauthenticated
	}
	if a.Redis != nil {
		revoked, err := utils.IsRevoked(ctx, a.Redis, claims.ID)
		if err != nil {
			return nil, nil, err
		}
		if revoked {
			return nil, nil, domain.ErrUnauthenticated
		}
	}
	user, err := a.Store.GetUser(ctx, claims.UserID) // Role and group are read fresh on every request
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, nil, err
	}
	return user, claims, nil
}

// JWTAuthMiddleware rejects API requests without a valid token with 401
func JWTAuthMiddleware(a *Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, claims, err := a.Authenticate(c.Request.Context(), c.Request)
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthenticated) {
				logrus.WithError(err).Error("Authentication lookup failed")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": domain.ErrUnauthenticated.Error()})
			return
		}
		c.Set(ActorKey, user)    // Store the caller in context
		c.Set(ClaimsKey, claims) // Store the token claims for logout
		c.Next()                 // Proceed to the next handler
	}
}

// SessionMiddleware sends page requests without a valid session to the login page
func SessionMiddleware(a *Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, claims, err := a.Authenticate(c.Request.Context(), c.Request)
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthenticated) {
				logrus.WithError(err).Error("Authentication lookup failed")
			}
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(ActorKey, user)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// Actor returns the authenticated caller, or nil outside the auth middleware
func Actor(c *gin.Context) *domain.User {
	if v, ok := c.Get(ActorKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

// TokenClaims returns the claims of the presented token
func TokenClaims(c *gin.Context) *utils.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if cl, ok := v.(*utils.Claims); ok {
			return cl
		}
	}
	return nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
