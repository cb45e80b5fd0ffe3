package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"wealthwise/internal/db/testdb"
	"wealthwise/internal/domain"
	"wealthwise/internal/middleware"
	"wealthwise/internal/service"
	"wealthwise/internal/store"
	"wealthwise/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type site struct {
	router *gin.Engine
	pages  *Pages
}

func newSite(t *testing.T) *site {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := store.New(testdb.New(t))
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	invites := service.NewInvites(st, "http://test.local")
	accounts := service.NewAccounts(st, invites)
	accounts.HashCost = bcrypt.MinCost
	p := &Pages{
		Accounts: accounts,
		Invites:  invites,
		Ledger:   service.NewLedger(st, nil),
		Store:    st,
		Auth:     &middleware.Auth{Secret: "s", Store: st, Redis: rdb},
		Secret:   "s",
		TTL:      time.Hour,
		Redis:    rdb,
	}
	r := gin.New()
	p.RegisterRoutes(r)
	return &site{router: r, pages: p}
}

func (s *site) get(path string, session *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if session != nil {
		req.AddCookie(session)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *site) post(path string, form url.Values, session *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if session != nil {
		req.AddCookie(session)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			return ck
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

func (s *site) signUp(t *testing.T, username, token string) *http.Cookie {
	t.Helper()
	w := s.post("/register", url.Values{"username": {username}, "password": {"password123"}, "invite_token": {token}}, nil)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	ck := sessionCookie(t, w)
	assert.True(t, ck.HttpOnly)
	return ck
}

func TestTemplatesParse(t *testing.T) {
	tmpl := Templates()
	for _, name := range []string{"login.html", "register.html", "dashboard.html", "group_settings.html", "error.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestPublicPages(t *testing.T) {
	s := newSite(t)
	w := s.get("/login", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/login"`)

	w = s.get("/register", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "creates a new group")

	w = s.get("/dashboard", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRegisterAndDashboard(t *testing.T) {
	s := newSite(t)
	session := s.signUp(t, "alice", "")

	user, err := s.pages.Store.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	_, err = s.pages.Ledger.Create(context.Background(), user, service.ItemInput{
		ItemType:      domain.ItemAsset,
		Name:          ptr("Emergency Fund"),
		Value:         ptr(decimal.RequireFromString("10000")),
		AssetCategory: ptr("SAVINGS"),
	})
	require.NoError(t, err)

	w := s.get("/dashboard", session)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "alice&#39;s Group")
	assert.Contains(t, body, "Emergency Fund")
	assert.Contains(t, body, "10000.00")
	assert.Contains(t, body, "Savings")
	assert.Contains(t, body, "Group Admin")
}

func TestRegisterErrorsRerenderForm(t *testing.T) {
	s := newSite(t)
	w := s.post("/register", url.Values{"username": {"bad name!"}, "password": {"short"}}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "username:")
	assert.Contains(t, w.Body.String(), "password:")
}

func TestLoginAndLogout(t *testing.T) {
	s := newSite(t)
	s.signUp(t, "alice", "")

	w := s.post("/login", url.Values{"username": {"alice"}, "password": {"nope-nope"}}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid username or password.")

	w = s.post("/login", url.Values{"username": {"alice"}, "password": {"password123"}}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	session := sessionCookie(t, w)
	assert.Equal(t, http.StatusOK, s.get("/dashboard", session).Code)

	w = s.post("/logout", nil, session)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, "", sessionCookie(t, w).Value)

	// the old token is revoked even if the browser keeps it
	assert.Equal(t, http.StatusFound, s.get("/dashboard", session).Code)
}

func TestLogoutRequiresPost(t *testing.T) {
	s := newSite(t)
	session := s.signUp(t, "alice", "")

	w := s.get("/logout", session)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, http.StatusOK, s.get("/dashboard", session).Code)
}

func TestUnreadableFormsRerender(t *testing.T) {
	s := newSite(t)
	for path, view := range map[string]string{"/login": `action="/login"`, "/register": "creates a new group"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Contains(t, w.Body.String(), "The submitted form could not be read.", path)
		assert.Contains(t, w.Body.String(), view, path)
	}
	_, total, err := s.pages.Store.ListUsers(context.Background(), store.NewPage(1, 1))
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestInviteJoinFlow(t *testing.T) {
	s := newSite(t)
	owner := s.signUp(t, "owner", "")

	w := s.post("/group/invites", nil, owner)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "http://test.local/register/")

	w = s.get("/group/settings", owner)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "owner")

	claims := currentUser(t, s, owner)
	invites, err := s.pages.Invites.ListActive(context.Background(), claims)
	require.NoError(t, err)
	require.Len(t, invites, 1)
	token := invites[0].Token

	w = s.get("/register/"+token+"/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "owner&#39;s Group")
	assert.Contains(t, w.Body.String(), token)

	member := s.signUp(t, "member", token)
	w = s.get("/dashboard", member)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "owner&#39;s Group")

	w = s.get("/register/"+token+"/", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.get("/register/unknown/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.post("/register", url.Values{"username": {"late"}, "password": {"password123"}, "invite_token": {token}}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuperuserDashboardListsGroups(t *testing.T) {
	s := newSite(t)
	s.signUp(t, "alice", "")
	s.signUp(t, "bob", "")
	root := &domain.User{Username: "root", Password: "x", Role: domain.RoleSuperuser}
	require.NoError(t, s.pages.Store.CreateUser(context.Background(), root))
	token, _, err := utils.GenerateJWT(root.ID, "s", time.Hour)
	require.NoError(t, err)

	w := s.get("/dashboard", &http.Cookie{Name: middleware.SessionCookie, Value: token})
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "All groups")
	assert.Contains(t, body, "alice&#39;s Group")
	assert.Contains(t, body, "bob&#39;s Group")
}

func currentUser(t *testing.T, s *site, session *http.Cookie) *domain.User {
	t.Helper()
	claims, err := utils.ParseJWT(session.Value, "s")
	require.NoError(t, err)
	u, err := s.pages.Store.GetUser(context.Background(), claims.UserID)
	require.NoError(t, err)
	return u
}

func ptr[T any](v T) *T { return &v }
