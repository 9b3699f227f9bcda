package handlers

import (
	"html/template"
	"net/http"
	"os"
	"time"

	"sqmcc/internal/middleware"
	"sqmcc/internal/models"
	"sqmcc/internal/services"
	"sqmcc/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ForumHandler struct {
	db           *gorm.DB
	submission   *services.SubmissionService
	topicLimiter *services.RateLimiter
	commentLimit *services.RateLimiter
	guestMode    bool
}

// NewForumHandler builds the handler. The comment limiter comes in shared:
// topic comments and post comments draw from the same per-IP quota.
func NewForumHandler(db *gorm.DB, commentLimit *services.RateLimiter) *ForumHandler {
	return &ForumHandler{
		db:           db,
		submission:   services.NewSubmissionService(db),
		topicLimiter: services.NewRateLimiter(services.TopicRateLimit, services.RateWindow),
		commentLimit: commentLimit,
		guestMode:    os.Getenv("GUEST_POSTING") == "1",
	}
}

// resolveAuthor picks the submission identity: the session user when one is
// present, otherwise a guest name/email pair when guest posting is enabled.
// The second return is false when the request must authenticate first.
func resolveAuthor(c *gin.Context, guestMode bool) (services.Author, bool) {
	if user := middleware.CurrentUser(c); user != nil {
		return services.RegisteredAuthor(user), true
	}
	if guestMode {
		return services.GuestAuthor(c.PostForm("author_name"), c.PostForm("author_email")), true
	}
	return services.Author{}, false
}

// guestGate applies the anti-abuse checks to a guest submission: honeypot
// and timing first (they are free), then the rate limiter, so bot traffic
// never consumes quota.
func guestGate(c *gin.Context, limiter *services.RateLimiter) error {
	if err := services.CheckSpam(c.PostForm(services.HoneypotField), c.PostForm("form_ts"), time.Now()); err != nil {
		return err
	}
	if !limiter.Allow(c.ClientIP()) {
		return services.ErrThrottled
	}
	return nil
}

// fillTopicCommentCounts batch-loads comment counts for a topic listing.
func fillTopicCommentCounts(db *gorm.DB, topics []models.Topic) {
	if len(topics) == 0 {
		return
	}
	ids := make([]uint, len(topics))
	for i, t := range topics {
		ids[i] = t.ID
	}

	type countRow struct {
		ParentID uint
		Count    int
	}
	var rows []countRow
	db.Model(&models.Comment{}).
		Select("parent_id, COUNT(*) as count").
		Where("parent_type = ? AND parent_id IN ?", models.ParentTopic, ids).
		Group("parent_id").
		Scan(&rows)

	counts := make(map[uint]int, len(rows))
	for _, r := range rows {
		counts[r.ParentID] = r.Count
	}
	for i := range topics {
		topics[i].CommentCount = counts[topics[i].ID]
	}
}

// List shows the 50 newest topics visible to the requester. Administrators
// see every topic regardless of status.
func (h *ForumHandler) List(c *gin.Context) {
	query := h.db.Preload("Author").Order("created_at DESC").Limit(50)
	if !middleware.IsAdmin(c) {
		query = query.Where("status = ?", models.TopicApproved)
	}

	var topics []models.Topic
	query.Find(&topics)
	fillTopicCommentCounts(h.db, topics)

	Render(c, http.StatusOK, "forum.html", gin.H{
		"Title":     "Fórum",
		"Topics":    topics,
		"GuestMode": h.guestMode,
		"Submitted": c.Query("submitted") == "1",
		"FormTs":    time.Now().UnixMilli(),
	})
}

// ShowTopic renders one topic with its comments. Pending and hidden topics
// look like missing ones to everyone but administrators.
func (h *ForumHandler) ShowTopic(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	var topic models.Topic
	if err := h.db.Preload("Author").First(&topic, id).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Tópico não encontrado.")
		return
	}
	if topic.Status != models.TopicApproved && !middleware.IsAdmin(c) {
		RenderError(c, http.StatusNotFound, "Tópico não encontrado.")
		return
	}

	var comments []models.Comment
	h.db.Preload("Author").
		Where("parent_type = ? AND parent_id = ?", models.ParentTopic, topic.ID).
		Order("created_at ASC").
		Find(&comments)

	type renderedComment struct {
		models.Comment
		BodyHTML template.HTML
	}
	rendered := make([]renderedComment, len(comments))
	for i, com := range comments {
		rendered[i] = renderedComment{Comment: com, BodyHTML: utils.RenderMarkdown(com.Body)}
	}

	Render(c, http.StatusOK, "topic.html", gin.H{
		"Title":     topic.Title,
		"Topic":     topic,
		"BodyHTML":  utils.RenderMarkdown(topic.Body),
		"Comments":  rendered,
		"GuestMode": h.guestMode,
		"FormTs":    time.Now().UnixMilli(),
	})
}

// CreateTopic handles the forum submission form. Guest submissions pass the
// anti-abuse gate and start as pending; submissions from a session user are
// approved immediately.
func (h *ForumHandler) CreateTopic(c *gin.Context) {
	author, ok := resolveAuthor(c, h.guestMode)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if !author.Registered() {
		if err := guestGate(c, h.topicLimiter); err != nil {
			RenderError(c, statusFor(err), userMessage(err))
			return
		}
	}

	topic, err := h.submission.CreateTopic(author, services.TopicInput{
		Category: c.PostForm("category"),
		Title:    c.PostForm("title"),
		Body:     c.PostForm("body"),
	})
	if err != nil {
		RenderError(c, statusFor(err), userMessage(err))
		return
	}

	if topic.Status == models.TopicPending {
		c.Redirect(http.StatusFound, "/forum?submitted=1")
		return
	}
	c.Redirect(http.StatusFound, "/t/"+utils.UintToString(topic.ID))
}

// CreateComment posts a comment under a topic.
func (h *ForumHandler) CreateComment(c *gin.Context) {
	author, ok := resolveAuthor(c, h.guestMode)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if !author.Registered() {
		if err := guestGate(c, h.commentLimit); err != nil {
			c.String(statusFor(err), userMessage(err))
			return
		}
	}

	id := utils.StringToUint(c.Param("id"))
	_, err := h.submission.CommentOnTopic(author, id, services.CommentInput{
		Body: c.PostForm("body"),
	})
	if err != nil {
		c.String(statusFor(err), userMessage(err))
		return
	}

	c.Redirect(http.StatusFound, "/t/"+c.Param("id"))
}
