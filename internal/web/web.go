// Package web serves the server-rendered pages. Sessions are the same JWTs
// the API issues, carried in an HttpOnly cookie.
package web

import (
	"embed"         // Embedded templates
	"html/template" // Page templates
	"net/http"      // HTTP status codes
	"time"          // Cookie lifetime

	"wealthwise/internal/domain"     // Domain models
	"wealthwise/internal/middleware" // Session handling
	"wealthwise/internal/service"    // Services
	"wealthwise/internal/store"      // Repository
	"wealthwise/internal/utils"      // JWT helpers

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Money formatting
	"github.com/sirupsen/logrus"    // Logging
)

//go:embed templates/*.html
var templateFS embed.FS

// Pages holds the collaborators of the HTML handlers
type Pages struct {
	Accounts     *service.Accounts
	Invites      *service.Invites
	Ledger       *service.Ledger
	Store        *store.Store
	Auth         *middleware.Auth
	Secret       string
	TTL          time.Duration
	Redis        redis.Cmdable // nil disables revocation on logout
	SecureCookie bool
}

// Templates parses the embedded page templates
func Templates() *template.Template {
	funcs := template.FuncMap{
		"money": func(d decimal.Decimal) string { return d.StringFixed(domain.ValueDecimalPlaces) },
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

// RegisterRoutes mounts the pages on r and installs their templates
func (p *Pages) RegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(Templates())

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/dashboard") })
	r.GET("/login", p.loginPage)
	r.POST("/login", p.login)
	r.GET("/register", p.registerPage)
	r.GET("/register/:token/", p.registerPage)
	r.POST("/register", p.register)
	r.POST("/logout", p.logout)

	session := r.Group("", middleware.SessionMiddleware(p.Auth))
	session.GET("/dashboard", p.dashboard)
	session.GET("/group/settings", p.groupSettings)
	session.POST("/group/invites", p.createInvite)
}

// startSession issues a token for user and stores it in the session cookie
func (p *Pages) startSession(c *gin.Context, user *domain.User) error {
	token, _, err := utils.GenerateJWT(user.ID, p.Secret, p.TTL)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(p.TTL.Seconds()), "/", "", p.SecureCookie, true)
	return nil
}

// renderError shows a generic failure page for unexpected errors
func renderError(c *gin.Context, err error) {
	logrus.WithFields(logrus.Fields{
		"path":  c.Request.URL.Path,
		"error": err.Error(),
	}).Error("Page failed")
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Title": "Error", "Message": "Something went wrong. Please try again."})
}
