package web

import (
	"errors"   // Error classification
	"net/http" // HTTP status codes
	"time"     // Token lifetime

	"wealthwise/internal/domain"     // Domain models
	"wealthwise/internal/middleware" // Session handling
	"wealthwise/internal/service"    // Account service
	"wealthwise/internal/utils"      // Revocation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// badForm is shown when the submitted body cannot be decoded
var badForm = map[string][]string{domain.NonFieldErrors: {"The submitted form could not be read."}}

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type registerForm struct {
	Username    string `form:"username"`
	Password    string `form:"password"`
	InviteToken string `form:"invite_token"`
}

// authPage is the data of the login and register templates
type authPage struct {
	Title       string
	Actor       *domain.User // always nil; the header shows login links
	Username    string
	InviteToken string
	GroupName   string // group an invite joins
	Errors      map[string][]string
}

func (p *Pages) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", authPage{Title: "Log in"})
}

func (p *Pages) login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		logrus.WithError(err).Debug("Unreadable login form")
		c.HTML(http.StatusBadRequest, "login.html", authPage{Title: "Log in", Errors: badForm})
		return
	}
	user, err := p.Accounts.Authenticate(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.HTML(http.StatusBadRequest, "login.html", authPage{
			Title:    "Log in",
			Username: form.Username,
			Errors:   map[string][]string{domain.NonFieldErrors: {"Invalid username or password."}},
		})
		return
	}
	if err != nil {
		renderError(c, err)
		return
	}
	if err := p.startSession(c, user); err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

// registerPage shows the sign-up form. Under /register/:token/ the invite
// is checked first and its group named on the page.
func (p *Pages) registerPage(c *gin.Context) {
	page := authPage{Title: "Register", InviteToken: c.Param("token")}
	if page.InviteToken == "" {
		c.HTML(http.StatusOK, "register.html", page)
		return
	}
	invite, err := p.Invites.Lookup(c.Request.Context(), page.InviteToken)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Title": "Invalid invite", "Message": "This invite link is invalid."})
		return
	case err != nil:
		if verr, ok := domain.AsValidation(err); ok {
			c.HTML(http.StatusBadRequest, "error.html", gin.H{"Title": "Invalid invite", "Message": verr.Fields["invite_token"][0]})
			return
		}
		renderError(c, err)
		return
	}
	if invite.Group != nil {
		page.GroupName = invite.Group.Name
	}
	c.HTML(http.StatusOK, "register.html", page)
}

func (p *Pages) register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		logrus.WithError(err).Debug("Unreadable registration form")
		c.HTML(http.StatusBadRequest, "register.html", authPage{Title: "Register", Errors: badForm})
		return
	}
	user, err := p.Accounts.Register(c.Request.Context(), service.Registration{
		Username:    form.Username,
		Password:    form.Password,
		InviteToken: form.InviteToken,
	})
	if err != nil {
		page := authPage{Title: "Register", Username: form.Username, InviteToken: form.InviteToken}
		switch verr, ok := domain.AsValidation(err); {
		case ok:
			page.Errors = verr.Fields
		case errors.Is(err, domain.ErrConflict):
			page.Errors = map[string][]string{"invite_token": {domain.ErrConflict.Error()}}
		case errors.Is(err, domain.ErrNotFound):
			page.Errors = map[string][]string{"invite_token": {"This invite link is invalid."}}
		default:
			renderError(c, err)
			return
		}
		c.HTML(http.StatusBadRequest, "register.html", page)
		return
	}
	if err := p.startSession(c, user); err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

// logout revokes the session token, when there is one, and clears the cookie
func (p *Pages) logout(c *gin.Context) {
	if ck, err := c.Cookie(middleware.SessionCookie); err == nil && p.Redis != nil {
		if claims, err := utils.ParseJWT(ck, p.Secret); err == nil {
			if err := utils.RevokeToken(c.Request.Context(), p.Redis, claims.ID, claims.TTL(time.Now())); err != nil {
				logrus.WithError(err).Warn("Failed to revoke session token")
			}
		}
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", p.SecureCookie, true)
	c.Redirect(http.StatusFound, "/login")
}
