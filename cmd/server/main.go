package main

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"sqmcc/internal/db"
	"sqmcc/internal/handlers"
	"sqmcc/internal/middleware"
	"sqmcc/internal/router"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading env vars from system")
	}

	database := db.Init()

	handlers.InitGoogleOAuth()

	r := gin.Default()

	// Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("sqmcc_session", store))

	r.HTMLRender = loadTemplates("./web/templates")
	r.Static("/static", "./web/static")

	r.Use(middleware.LoadUser(database))

	router.RegisterRoutes(r, database)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("SQMCC rodando em http://localhost:%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func loadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts := []string{templatesDir + "/layouts/base.html"}

	assemble := func(view string) []string {
		files := make([]string, 0, len(layouts)+1)
		files = append(files, layouts...)
		files = append(files, templatesDir+"/views/"+view)
		return files
	}

	funcMap := template.FuncMap{
		"timeAgo": func(t time.Time) string {
			seconds := int(time.Since(t).Seconds())
			switch {
			case seconds < 60:
				return "agora mesmo"
			case seconds < 3600:
				return fmt.Sprintf("há %d min", seconds/60)
			case seconds < 86400:
				return fmt.Sprintf("há %d h", seconds/3600)
			default:
				return fmt.Sprintf("há %d dias", seconds/86400)
			}
		},
		"join": func(items []string) string {
			return strings.Join(items, ", ")
		},
		"dateFmt": func(t time.Time) string {
			return t.Format("02/01/2006 15:04")
		},
	}

	views := []string{
		"index.html",
		"post.html",
		"forum.html",
		"topic.html",
		"new-post.html",
		"login.html",
		"register.html",
		"settings.html",
		"profile.html",
		"admin/moderation.html",
		"error.html",
	}
	for _, view := range views {
		r.AddFromFilesFuncs(view, funcMap, assemble(view)...)
	}

	return r
}
