package handlers_test

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"sqmcc/internal/db"
	"sqmcc/internal/middleware"
	"sqmcc/internal/models"
	"sqmcc/internal/router"
	"sqmcc/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Stand-in templates so handler tests exercise routing, sessions and data
// loading without dragging in the real layout.
const testTemplateSrc = `
{{define "index.html"}}index;posts:{{len .Posts}};produtos:{{len .Products}}{{with .CurrentUser}};sessao:{{.Email}}{{end}}{{end}}
{{define "post.html"}}post:{{.Post.Title}};comments:{{len .Comments}}{{end}}
{{define "forum.html"}}forum;topics:{{len .Topics}}{{if .Submitted}};submitted{{end}}{{end}}
{{define "topic.html"}}topic:{{.Topic.Title}};comments:{{len .Comments}}{{end}}
{{define "login.html"}}login{{with .Error}};{{.}}{{end}}{{end}}
{{define "register.html"}}register{{with .Error}};{{.}}{{end}}{{end}}
{{define "settings.html"}}settings{{if .Success}};ok{{end}}{{with .Error}};{{.}}{{end}}{{end}}
{{define "profile.html"}}profile:{{.ProfileUser.Email}}{{with .Topics}};topics:{{len .}}{{end}}{{end}}
{{define "new-post.html"}}new-post{{with .Error}};{{.}}{{end}}{{end}}
{{define "error.html"}}erro:{{.Error}}{{end}}
{{define "admin/moderation.html"}}moderation:{{.Tab}}{{end}}
`

func setupServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))

	// The page cache is a process-wide singleton; drop anything a previous
	// test left behind.
	utils.GetCache().Delete("posts:index")

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("").Parse(testTemplateSrc)))
	r.Use(sessions.Sessions("sqmcc_session", cookie.NewStore([]byte("test-secret"))))
	r.Use(middleware.LoadUser(database))
	router.RegisterRoutes(r, database)
	return r, database
}

func doGET(r *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doPOST(r *gin.Engine, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// registerAccount signs up through the real form and returns the session
// cookies. The first account ever created becomes the administrator.
func registerAccount(t *testing.T, r *gin.Engine, email, password string) []*http.Cookie {
	t.Helper()
	w := doPOST(r, "/register", url.Values{"email": {email}, "password": {password}}, nil)
	require.Equal(t, http.StatusFound, w.Code, "register %s: %s", email, w.Body.String())
	return w.Result().Cookies()
}

// seedUser inserts a profile directly, bypassing the first-user-is-admin
// rule, so tests can control who holds which role.
func seedUser(t *testing.T, database *gorm.DB, email, password, role string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	user := &models.User{Email: email, PasswordHash: hash, Role: role}
	require.NoError(t, database.Create(user).Error)
	return user
}

func loginAccount(t *testing.T, r *gin.Engine, email, password string) []*http.Cookie {
	t.Helper()
	w := doPOST(r, "/login", url.Values{"email": {email}, "password": {password}}, nil)
	require.Equal(t, http.StatusFound, w.Code, "login %s: %s", email, w.Body.String())
	return w.Result().Cookies()
}

// freshFormTs is a render timestamp old enough to pass the timing check.
func freshFormTs() string {
	return strconv.FormatInt(time.Now().Add(-3*time.Second).UnixMilli(), 10)
}

func nowMilli() int64 {
	return time.Now().UnixMilli()
}
