package handlers

import (
	"fmt"
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

type PostHandler struct {
	db           *gorm.DB
	submission   *services.SubmissionService
	commentLimit *services.RateLimiter
	guestMode    bool
}

// NewPostHandler builds the handler. The comment limiter is shared with the
// forum handler so the per-IP comment quota covers both surfaces.
func NewPostHandler(db *gorm.DB, commentLimit *services.RateLimiter) *PostHandler {
	return &PostHandler{
		db:           db,
		submission:   services.NewSubmissionService(db),
		commentLimit: commentLimit,
		guestMode:    os.Getenv("GUEST_POSTING") == "1",
	}
}

// product is a demo shop entry rendered on the index page. The catalog is
// static; there is no checkout.
type product struct {
	ID      string
	Name    string
	Price   string
	Summary string
	Details string
}

var catalog = []product{
	{
		ID:      "spray-nasal",
		Name:    "Spray nasal hipoalergênico",
		Price:   "R$ 39,90",
		Summary: "Ajuda no conforto respiratório diário (demo).",
		Details: "Fórmula suave, sem fragrância e sem álcool. Indicado para uso diário em ambientes secos.",
	},
	{
		ID:      "vitamina-d3-k2",
		Name:    "Vitamina D3 + K2",
		Price:   "R$ 58,90",
		Summary: "Suporte básico para rotina de suplementação (demo).",
		Details: "Cápsulas de fácil digestão. Consulte orientação profissional antes de iniciar.",
	},
	{
		ID:      "detergente-neutro",
		Name:    "Detergente neutro sem perfume",
		Price:   "R$ 22,90",
		Summary: "Limpeza leve para peles e vias sensíveis (demo).",
		Details: "Sem corantes e sem fragrância. Ideal para rotina doméstica com sensibilidade.",
	},
	{
		ID:      "mascara-reutilizavel",
		Name:    "Máscara reutilizável com filtro",
		Price:   "R$ 29,90",
		Summary: "Proteção confortável para o dia a dia (demo).",
		Details: "Material respirável e ajuste ergonômico. Troque o filtro regularmente.",
	},
}

type categoryCount struct {
	Category string
	N        int
}

// indexPayload is what the page cache holds for the index: only data that is
// identical for every requester. Render mutates the map it receives with
// per-request values (current user, path), so the cached payload never goes
// to Render directly; renderIndex builds a fresh map each time.
type indexPayload struct {
	Posts      []models.Post
	Categories []categoryCount
}

// Index lists recent posts with search, category filter, the category
// rollup and the demo catalog. The unfiltered first page is cached briefly.
func (h *PostHandler) Index(c *gin.Context) {
	q := c.Query("q")
	cat := c.Query("cat")

	cacheable := q == "" && cat == ""
	cacheKey := "posts:index"
	if cacheable {
		if cached := utils.GetCache().Get(cacheKey); cached != nil {
			if payload, ok := cached.(indexPayload); ok {
				h.renderIndex(c, payload, q, cat)
				return
			}
		}
	}

	query := h.db.Preload("Author").Order("created_at DESC").Limit(24)
	if cat != "" {
		query = query.Where("category = ?", cat)
	}
	if q != "" {
		pattern := "%" + q + "%"
		query = query.Where("title ILIKE ? OR excerpt ILIKE ? OR content ILIKE ?", pattern, pattern, pattern)
	}

	var posts []models.Post
	query.Find(&posts)

	var categories []categoryCount
	h.db.Model(&models.Post{}).
		Select("category, COUNT(*) as n").
		Group("category").
		Order("n DESC, category ASC").
		Scan(&categories)

	payload := indexPayload{Posts: posts, Categories: categories}
	if cacheable {
		utils.GetCache().Set(cacheKey, payload, 1*time.Minute)
	}
	h.renderIndex(c, payload, q, cat)
}

func (h *PostHandler) renderIndex(c *gin.Context, payload indexPayload, q, cat string) {
	Render(c, http.StatusOK, "index.html", gin.H{
		"Title":      "SQMCC",
		"Posts":      payload.Posts,
		"Categories": payload.Categories,
		"Query":      q,
		"Cat":        cat,
		"Products":   catalog,
	})
}

// ShowPost renders one article with its comments and the guest comment form.
func (h *PostHandler) ShowPost(c *gin.Context) {
	slug := c.Param("slug")

	var post models.Post
	if err := h.db.Preload("Author").Where("slug = ?", slug).First(&post).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Post não encontrado.")
		return
	}

	var comments []models.Comment
	h.db.Preload("Author").
		Where("parent_type = ? AND parent_id = ?", models.ParentPost, post.ID).
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

	Render(c, http.StatusOK, "post.html", gin.H{
		"Title":       post.Title,
		"Post":        post,
		"ContentHTML": utils.RenderMarkdown(post.Content),
		"Comments":    rendered,
		"GuestMode":   h.guestMode,
		"FormTs":      time.Now().UnixMilli(),
	})
}

// CreateComment posts a comment under an article.
func (h *PostHandler) CreateComment(c *gin.Context) {
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

	slug := c.Param("slug")
	_, err := h.submission.CommentOnPost(author, slug, services.CommentInput{
		Body: c.PostForm("body"),
	})
	if err != nil {
		c.String(statusFor(err), userMessage(err))
		return
	}

	utils.GetCache().Delete("posts:index")
	c.Redirect(http.StatusFound, "/p/"+slug)
}

// ShowNewPost renders the admin article form.
func (h *PostHandler) ShowNewPost(c *gin.Context) {
	Render(c, http.StatusOK, "new-post.html", nil)
}

// CreatePost publishes an article. The route is behind AdminRequired; the
// submission service checks the capability again.
func (h *PostHandler) CreatePost(c *gin.Context) {
	admin := middleware.CurrentUser(c)

	post, err := h.submission.CreatePost(admin, services.PostInput{
		Title:     c.PostForm("title"),
		Excerpt:   c.PostForm("excerpt"),
		Content:   c.PostForm("content"),
		Category:  c.PostForm("category"),
		Tags:      services.ParseTags(c.PostForm("tags")),
		SourceURL: c.PostForm("source_url"),
	})
	if err != nil {
		Render(c, statusFor(err), "new-post.html", gin.H{
			"Error": fmt.Sprintf("Dados inválidos: %s", userMessage(err)),
		})
		return
	}

	utils.GetCache().Delete("posts:index")
	c.Redirect(http.StatusFound, "/p/"+post.Slug)
}
