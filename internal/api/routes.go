// Package api exposes the JSON REST surface under /api/v1.
package api

import (
	"wealthwise/internal/domain"     // Item types
	"wealthwise/internal/middleware" // Authentication
	"wealthwise/internal/service"    // Services
	"wealthwise/internal/store"      // Repository

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// Deps are the collaborators the handlers are built from
type Deps struct {
	Accounts *service.Accounts
	Invites  *service.Invites
	Ledger   *service.Ledger
	Store    *store.Store
	Auth     *middleware.Auth
	Tokens   TokenIssuer
	Redis    redis.Cmdable // nil disables logout revocation
}

// RegisterRoutes mounts every API route on r
func RegisterRoutes(r gin.IRouter, d Deps) {
	v1 := r.Group("/api/v1")

	// Public routes
	v1.POST("/auth/register", RegisterHandler(d.Accounts, d.Tokens))
	v1.POST("/auth/login", LoginHandler(d.Accounts, d.Tokens))
	v1.GET("/invites/:token/", InviteInfoHandler(d.Invites))

	// Authenticated routes
	authed := v1.Group("", middleware.JWTAuthMiddleware(d.Auth))
	authed.POST("/auth/logout", LogoutHandler(d.Redis))
	authed.GET("/auth/me", MeHandler())
	authed.POST("/invites/", CreateInviteHandler(d.Invites))
	authed.GET("/invites/", ListInvitesHandler(d.Invites))

	networth := authed.Group("/networth")
	networth.GET("/summary/", SummaryHandler(d.Ledger))
	networth.GET("/ratios/", RatiosHandler(d.Ledger))
	networth.GET("/categories/", CategoriesHandler(d.Ledger))
	registerItemRoutes(networth, "/assets/", itemHandlers{ledger: d.Ledger, itemType: domain.ItemAsset, listKey: "assets"})
	registerItemRoutes(networth, "/liabilities/", itemHandlers{ledger: d.Ledger, itemType: domain.ItemLiability, listKey: "liabilities"})

	// Superuser routes
	admin := authed.Group("/admin", middleware.SuperuserOnlyMiddleware())
	admin.GET("/users/", ListUsersHandler(d.Store))
	admin.GET("/groups/", ListGroupsHandler(d.Store))
}
