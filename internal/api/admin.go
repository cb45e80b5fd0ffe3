package api

import (
	"net/http" // HTTP status codes

	"wealthwise/internal/store" // Repository

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListUsersHandler pages through every user with their group
func ListUsersHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := pageFromQuery(c)
		users, total, err := st.ListUsers(c.Request.Context(), page)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := make([]UserResponse, len(users)) // Map users to response format
		for i := range users {
			resp[i] = newUserResponse(&users[i])
		}
		c.JSON(http.StatusOK, paginated(c, "users", page, total, resp))
	}
}

// ListGroupsHandler pages through every group with member and item counts
func ListGroupsHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := pageFromQuery(c)
		groups, total, err := st.ListGroups(c.Request.Context(), page)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := make([]GroupStatsResponse, len(groups))
		for i, g := range groups {
			resp[i] = newGroupStatsResponse(g)
		}
		c.JSON(http.StatusOK, paginated(c, "groups", page, total, resp))
	}
}
