package router

import (
	"sqmcc/internal/handlers"
	"sqmcc/internal/middleware"
	"sqmcc/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterRoutes wires every handler onto the engine.
func RegisterRoutes(r *gin.Engine, db *gorm.DB) {
	// One comment limiter for the whole site: the per-IP quota covers topic
	// comments and post comments together.
	commentLimiter := services.NewRateLimiter(services.CommentRateLimit, services.RateWindow)

	authHandler := handlers.NewAuthHandler(db)
	postHandler := handlers.NewPostHandler(db, commentLimiter)
	forumHandler := handlers.NewForumHandler(db, commentLimiter)
	profileHandler := handlers.NewProfileHandler(db)
	adminHandler := handlers.NewAdminHandler(db)

	// Public routes
	r.GET("/", postHandler.Index)
	r.GET("/p/:slug", postHandler.ShowPost)
	r.POST("/p/:slug/comment", postHandler.CreateComment)
	r.GET("/forum", forumHandler.List)
	r.POST("/forum/new", forumHandler.CreateTopic)
	r.GET("/t/:id", forumHandler.ShowTopic)
	r.POST("/t/:id/comment", forumHandler.CreateComment)
	r.GET("/u/:id", profileHandler.Profile)

	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.GET("/register", authHandler.ShowRegister)
	r.POST("/register", authHandler.Register)
	r.POST("/logout", authHandler.Logout)
	r.GET("/auth/google", authHandler.GoogleLogin)
	r.GET("/auth/google/callback", authHandler.GoogleCallback)

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/settings", profileHandler.ShowSettings)
		authorized.POST("/settings", profileHandler.UpdateSettings)
	}

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/moderation", adminHandler.Moderation)
		admin.POST("/topics/:id/approve", adminHandler.ApproveTopic)
		admin.POST("/topics/:id/hide", adminHandler.HideTopic)
		admin.POST("/topics/:id/delete", adminHandler.DeleteTopic)
		admin.POST("/comments/:id/delete", adminHandler.DeleteComment)
		admin.POST("/users/:id/ban", adminHandler.BanUser)
		admin.POST("/users/:id/promote", adminHandler.PromoteUser)

		admin.GET("/new-post", postHandler.ShowNewPost)
		admin.POST("/new-post", postHandler.CreatePost)
	}
}
