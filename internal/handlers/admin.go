package handlers

import (
	"net/http"

	"sqmcc/internal/models"
	"sqmcc/internal/services"
	"sqmcc/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler serves the moderation panel. Every route here sits behind
// the AdminRequired middleware; the services only apply the transitions.
type AdminHandler struct {
	db         *gorm.DB
	moderation *services.ModerationService
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db, moderation: services.NewModerationService(db)}
}

// Moderation renders the panel with one of three tabs: topics, comments or
// users.
func (h *AdminHandler) Moderation(c *gin.Context) {
	tab := c.DefaultQuery("tab", "topics")

	data := gin.H{"Title": "Moderação", "Tab": tab}
	switch tab {
	case "comments":
		var comments []models.Comment
		h.db.Preload("Author").Order("created_at DESC").Limit(50).Find(&comments)
		data["Comments"] = comments
	case "users":
		var users []models.User
		h.db.Order("created_at DESC").Limit(50).Find(&users)
		data["Users"] = users
	default:
		data["Tab"] = "topics"
		var topics []models.Topic
		h.db.Preload("Author").Order("created_at DESC").Limit(50).Find(&topics)
		data["Topics"] = topics
	}

	Render(c, http.StatusOK, "admin/moderation.html", data)
}

func (h *AdminHandler) ApproveTopic(c *gin.Context) {
	h.applyTopic(c, h.moderation.ApproveTopic)
}

func (h *AdminHandler) HideTopic(c *gin.Context) {
	h.applyTopic(c, h.moderation.HideTopic)
}

func (h *AdminHandler) DeleteTopic(c *gin.Context) {
	h.applyTopic(c, h.moderation.DeleteTopic)
}

func (h *AdminHandler) applyTopic(c *gin.Context, op func(uint) error) {
	id := utils.StringToUint(c.Param("id"))
	if err := op(id); err != nil {
		RenderError(c, statusFor(err), userMessage(err))
		return
	}
	c.Redirect(http.StatusFound, "/admin/moderation?tab=topics")
}

func (h *AdminHandler) DeleteComment(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))
	if err := h.moderation.DeleteComment(id); err != nil {
		RenderError(c, statusFor(err), userMessage(err))
		return
	}
	c.Redirect(http.StatusFound, "/admin/moderation?tab=comments")
}

func (h *AdminHandler) BanUser(c *gin.Context) {
	h.applyUser(c, h.moderation.BanUser)
}

func (h *AdminHandler) PromoteUser(c *gin.Context) {
	h.applyUser(c, h.moderation.PromoteUser)
}

func (h *AdminHandler) applyUser(c *gin.Context, op func(uint) error) {
	id := utils.StringToUint(c.Param("id"))
	if err := op(id); err != nil {
		RenderError(c, statusFor(err), userMessage(err))
		return
	}
	c.Redirect(http.StatusFound, "/admin/moderation?tab=users")
}
