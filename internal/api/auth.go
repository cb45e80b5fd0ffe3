package api

import (
	"net/http" // HTTP status codes
	"time"     // Token lifetime

	"wealthwise/internal/domain"     // Domain models
	"wealthwise/internal/middleware" // Caller lookup
	"wealthwise/internal/service"    // Account service
	"wealthwise/internal/utils"      // JWT helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging
)

// RegisterRequest is the sign-up body. With invite_token the user joins
// the invite's group; without it a new group is created.
type RegisterRequest struct {
	Username    string `json:"username" binding:"required"` // Username must be provided
	Password    string `json:"password" binding:"required"` // Password must be provided
	InviteToken string `json:"invite_token"`                // Optional invite token
}

// LoginRequest is the login body
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse carries a session token and its owner
type AuthResponse struct {
	Token     string       `json:"token"`      // JWT token
	ExpiresAt time.Time    `json:"expires_at"` // Token expiry
	User      UserResponse `json:"user"`       // Authenticated user
}

// TokenIssuer signs session tokens
type TokenIssuer struct {
	Secret string
	TTL    time.Duration
}

// Issue signs a token for user
func (t TokenIssuer) Issue(user *domain.User) (string, *utils.Claims, error) {
	return utils.GenerateJWT(user.ID, t.Secret, t.TTL)
}

// RegisterHandler signs a user up and returns a session token
func RegisterHandler(accounts *service.Accounts, tokens TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		user, err := accounts.Register(c.Request.Context(), service.Registration{
			Username:    req.Username,
			Password:    req.Password,
			InviteToken: req.InviteToken,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondWithToken(c, http.StatusCreated, tokens, user)
	}
}

// LoginHandler authenticates a user and returns a session token
func LoginHandler(accounts *service.Accounts, tokens TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		user, err := accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		respondWithToken(c, http.StatusOK, tokens, user)
	}
}

// LogoutHandler revokes the presented token until it expires
func LogoutHandler(rdb redis.Cmdable) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.TokenClaims(c)
		if rdb != nil && claims != nil {
			if err := utils.RevokeToken(c.Request.Context(), rdb, claims.ID, claims.TTL(time.Now())); err != nil {
				respondError(c, err)
				return
			}
		}
		logrus.WithField("user_id", middleware.Actor(c).ID).Info("User logged out")
		c.JSON(http.StatusOK, gin.H{"detail": "Successfully logged out."})
	}
}

// MeHandler returns the authenticated user
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, newUserResponse(middleware.Actor(c)))
	}
}

func respondWithToken(c *gin.Context, status int, tokens TokenIssuer, user *domain.User) {
	token, claims, err := tokens.Issue(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, AuthResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      newUserResponse(user),
	})
}
