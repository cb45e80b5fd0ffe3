package web

import (
	"net/http" // HTTP status codes

	"wealthwise/internal/domain"     // Domain models
	"wealthwise/internal/middleware" // Caller lookup
	"wealthwise/internal/service"    // Services
	"wealthwise/internal/store"      // Repository

	"github.com/gin-gonic/gin" // Gin web framework
)

type dashboardPage struct {
	Title       string
	Actor       *domain.User
	Summary     *service.Summary
	Assets      []domain.NetWorthItem
	Liabilities []domain.NetWorthItem
	Categories  domain.CategorySet
	Members     []domain.User      // own group, for non-superusers
	Groups      []store.GroupStats // every group, for superusers
	Users       []domain.User      // every user, for superusers
}

// dashboard shows the caller's net worth. Superusers also get every group
// and user; everyone else sees the members of their own group.
func (p *Pages) dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	actor := middleware.Actor(c)
	page := dashboardPage{Title: "Dashboard", Actor: actor, Categories: p.Ledger.Categories()}

	var err error
	if page.Summary, err = p.Ledger.Summary(ctx, actor); err != nil {
		renderError(c, err)
		return
	}
	firstPage := store.NewPage(1, store.MaxPageSize)
	assets, err := p.Ledger.List(ctx, actor, domain.ItemAsset, firstPage)
	if err != nil {
		renderError(c, err)
		return
	}
	liabilities, err := p.Ledger.List(ctx, actor, domain.ItemLiability, firstPage)
	if err != nil {
		renderError(c, err)
		return
	}
	page.Assets, page.Liabilities = assets.Items, liabilities.Items

	switch {
	case actor.IsSuperuser():
		if page.Groups, _, err = p.Store.ListGroups(ctx, firstPage); err != nil {
			renderError(c, err)
			return
		}
		if page.Users, _, err = p.Store.ListUsers(ctx, firstPage); err != nil {
			renderError(c, err)
			return
		}
	case actor.HasGroup():
		if page.Members, err = p.Store.ListGroupMembers(ctx, *actor.GroupID); err != nil {
			renderError(c, err)
			return
		}
	}
	c.HTML(http.StatusOK, "dashboard.html", page)
}

type settingsPage struct {
	Title     string
	Actor     *domain.User
	Members   []domain.User
	Invites   []domain.InviteLink
	InviteURL func(token string) string
	NewInvite string // URL of an invite created by this request
	Errors    map[string][]string
}

func (p *Pages) groupSettings(c *gin.Context) {
	p.renderSettings(c, http.StatusOK, "", nil)
}

// createInvite issues an invite and shows it on the settings page
func (p *Pages) createInvite(c *gin.Context) {
	issued, err := p.Invites.Create(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		if verr, ok := domain.AsValidation(err); ok {
			p.renderSettings(c, http.StatusBadRequest, "", verr.Fields)
			return
		}
		renderError(c, err)
		return
	}
	p.renderSettings(c, http.StatusCreated, issued.URL, nil)
}

func (p *Pages) renderSettings(c *gin.Context, status int, newInvite string, errs map[string][]string) {
	ctx := c.Request.Context()
	actor := middleware.Actor(c)
	page := settingsPage{
		Title:     "Group settings",
		Actor:     actor,
		InviteURL: p.Invites.URL,
		NewInvite: newInvite,
		Errors:    errs,
	}
	if actor.HasGroup() {
		var err error
		if page.Members, err = p.Store.ListGroupMembers(ctx, *actor.GroupID); err != nil {
			renderError(c, err)
			return
		}
		if page.Invites, err = p.Invites.ListActive(ctx, actor); err != nil {
			renderError(c, err)
			return
		}
	}
	c.HTML(status, "group_settings.html", page)
}
