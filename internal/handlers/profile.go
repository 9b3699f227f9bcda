package handlers

import (
	"net/http"

	"sqmcc/internal/middleware"
	"sqmcc/internal/models"
	"sqmcc/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProfileHandler struct {
	db       *gorm.DB
	identity *services.IdentityService
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db, identity: services.NewIdentityService(db)}
}

// Profile is the public page /u/:id with a topics tab and a comments tab.
func (h *ProfileHandler) Profile(c *gin.Context) {
	userID := c.Param("id")

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Usuário não encontrado.")
		return
	}

	var topicCount, commentCount int64
	h.db.Model(&models.Topic{}).Where("author_id = ?", user.ID).Count(&topicCount)
	h.db.Model(&models.Comment{}).Where("author_id = ?", user.ID).Count(&commentCount)

	tab := c.DefaultQuery("tab", "topics")
	data := gin.H{
		"Title":        user.DisplayName(),
		"ProfileUser":  user,
		"Tab":          tab,
		"TopicCount":   topicCount,
		"CommentCount": commentCount,
	}

	if tab == "comments" {
		var comments []models.Comment
		h.db.Where("author_id = ?", user.ID).Order("created_at DESC").Limit(20).Find(&comments)
		data["Comments"] = comments
	} else {
		data["Tab"] = "topics"
		query := h.db.Where("author_id = ?", user.ID)
		// Only the profile owner and admins see non-approved topics.
		current := middleware.CurrentUser(c)
		if !current.IsAdmin() && (current == nil || current.ID != user.ID) {
			query = query.Where("status = ?", models.TopicApproved)
		}
		var topics []models.Topic
		query.Order("created_at DESC").Limit(20).Find(&topics)
		data["Topics"] = topics
	}

	Render(c, http.StatusOK, "profile.html", data)
}

// ShowSettings renders the profile edit form for the session user.
func (h *ProfileHandler) ShowSettings(c *gin.Context) {
	Render(c, http.StatusOK, "settings.html", gin.H{"Title": "Configurações"})
}

// UpdateSettings saves the session user's display name and bio.
func (h *ProfileHandler) UpdateSettings(c *gin.Context) {
	user := middleware.CurrentUser(c)

	err := h.identity.UpdateProfile(user.ID, c.PostForm("name"), c.PostForm("bio"))
	if err != nil {
		Render(c, statusFor(err), "settings.html", gin.H{"Error": userMessage(err)})
		return
	}

	Render(c, http.StatusOK, "settings.html", gin.H{"Success": true})
}
