package api

import (
	"net/http" // HTTP status codes

	"wealthwise/internal/domain"     // Domain models
	"wealthwise/internal/middleware" // Caller lookup
	"wealthwise/internal/service"    // Invite service

	"github.com/gin-gonic/gin" // Gin web framework
)

// CreateInviteHandler issues a single-use invite into the caller's group
func CreateInviteHandler(invites *service.Invites) gin.HandlerFunc {
	return func(c *gin.Context) {
		issued, err := invites.Create(c.Request.Context(), middleware.Actor(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, InviteResponse{
			Token:     issued.Invite.Token,
			InviteURL: issued.URL,
			GroupID:   issued.Invite.GroupID,
			CreatedAt: issued.Invite.CreatedAt,
		})
	}
}

// ListInvitesHandler lists the unused invites of the caller's group
func ListInvitesHandler(invites *service.Invites) gin.HandlerFunc {
	return func(c *gin.Context) {
		active, err := invites.ListActive(c.Request.Context(), middleware.Actor(c))
		if err != nil {
			respondError(c, err)
			return
		}
		out := make([]InviteResponse, len(active))
		for i, inv := range active {
			out[i] = newInviteResponse(invites, &inv)
		}
		c.JSON(http.StatusOK, gin.H{"invites": out})
	}
}

// InviteInfoHandler tells an invitee which group a token joins. It needs no
// authentication; unknown tokens are 404 and used ones 400.
func InviteInfoHandler(invites *service.Invites) gin.HandlerFunc {
	return func(c *gin.Context) {
		invite, err := invites.Lookup(c.Request.Context(), c.Param("token"))
		if err != nil {
			respondError(c, err)
			return
		}
		name := ""
		if invite.Group != nil {
			name = invite.Group.Name
		}
		c.JSON(http.StatusOK, gin.H{"token": invite.Token, "group_name": name})
	}
}

func newInviteResponse(invites *service.Invites, inv *domain.InviteLink) InviteResponse {
	resp := InviteResponse{
		Token:     inv.Token,
		InviteURL: invites.URL(inv.Token),
		GroupID:   inv.GroupID,
		CreatedAt: inv.CreatedAt,
	}
	if inv.CreatedBy != nil {
		u := newUserResponse(inv.CreatedBy)
		resp.CreatedBy = &u
	}
	return resp
}
