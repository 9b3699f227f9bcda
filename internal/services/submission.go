package services

import (
	"errors"
	"fmt"
	"strings"

	"sqmcc/internal/models"

	"gorm.io/gorm"
)

// Author is the effective identity of a submission: either a registered
// user (by reference) or a guest name/email pair. Exactly one of the two
// forms is populated.
type Author struct {
	User       *models.User
	GuestName  string
	GuestEmail string
}

func RegisteredAuthor(u *models.User) Author {
	return Author{User: u}
}

func GuestAuthor(name, email string) Author {
	return Author{GuestName: strings.TrimSpace(name), GuestEmail: strings.TrimSpace(email)}
}

func (a Author) Registered() bool {
	return a.User != nil
}

func (a Author) isAdmin() bool {
	return a.User.IsAdmin()
}

type guestFields struct {
	Name  string `validate:"required,min=2,max=60"`
	Email string `validate:"omitempty,email"`
}

// check validates the author itself: banned users cannot submit, guest
// identities need a plausible name and a well-formed (or empty) email.
func (a Author) check() error {
	if a.Registered() {
		if a.User.IsBanned() {
			return ErrForbidden
		}
		return nil
	}
	return checkStruct(guestFields{Name: a.GuestName, Email: a.GuestEmail})
}

type TopicInput struct {
	Category string `validate:"omitempty,min=2,max=40"`
	Title    string `validate:"required,min=5,max=160"`
	Body     string `validate:"required,min=10,max=5000"`
}

type CommentInput struct {
	Body string `validate:"required,min=1,max=2000"`
}

type PostInput struct {
	Title     string `validate:"required,min=5,max=160"`
	Excerpt   string `validate:"required,min=10,max=220"`
	Content   string `validate:"required,min=30,max=20000"`
	Category  string `validate:"omitempty,min=2,max=40"`
	Tags      []string
	SourceURL string `validate:"omitempty,url"`
}

// SubmissionService validates payloads, resolves the effective author
// identity, assigns initial visibility and persists exactly one row per
// successful call.
type SubmissionService struct {
	db *gorm.DB
}

func NewSubmissionService(db *gorm.DB) *SubmissionService {
	return &SubmissionService{db: db}
}

// CreateTopic persists a forum topic. Guest topics start as pending and stay
// invisible until approved; topics from an authenticated user are visible
// immediately.
func (s *SubmissionService) CreateTopic(author Author, in TopicInput) (*models.Topic, error) {
	if err := author.check(); err != nil {
		return nil, err
	}
	if err := checkStruct(in); err != nil {
		return nil, err
	}

	topic := models.Topic{
		Category: defaultCategory(in.Category),
		Title:    strings.TrimSpace(in.Title),
		Body:     in.Body,
		Status:   models.TopicApproved,
	}
	if author.Registered() {
		topic.AuthorID = &author.User.ID
	} else {
		topic.GuestName = author.GuestName
		topic.GuestEmail = author.GuestEmail
		topic.Status = models.TopicPending
	}

	if err := s.db.Create(&topic).Error; err != nil {
		return nil, upstream(err)
	}
	return &topic, nil
}

// CommentOnTopic persists a comment under a topic. The parent must exist and
// be visible to the requester: non-admins can only comment on approved
// topics, and a hidden or pending parent looks like a missing one to them.
func (s *SubmissionService) CommentOnTopic(author Author, topicID uint, in CommentInput) (*models.Comment, error) {
	if err := author.check(); err != nil {
		return nil, err
	}

	var topic models.Topic
	if err := s.db.First(&topic, topicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, upstream(err)
	}
	if topic.Status != models.TopicApproved && !author.isAdmin() {
		return nil, ErrNotFound
	}

	return s.createComment(author, models.ParentTopic, topic.ID, in)
}

// CommentOnPost persists a comment under an editorial post, located by slug.
func (s *SubmissionService) CommentOnPost(author Author, slug string, in CommentInput) (*models.Comment, error) {
	if err := author.check(); err != nil {
		return nil, err
	}

	var post models.Post
	if err := s.db.Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, upstream(err)
	}

	return s.createComment(author, models.ParentPost, post.ID, in)
}

func (s *SubmissionService) createComment(author Author, parentType string, parentID uint, in CommentInput) (*models.Comment, error) {
	if err := checkStruct(in); err != nil {
		return nil, err
	}

	comment := models.Comment{
		ParentType: parentType,
		ParentID:   parentID,
		Body:       in.Body,
	}
	if author.Registered() {
		comment.AuthorID = &author.User.ID
	} else {
		comment.GuestName = author.GuestName
		comment.GuestEmail = author.GuestEmail
	}

	if err := s.db.Create(&comment).Error; err != nil {
		return nil, upstream(err)
	}
	return &comment, nil
}

// CreatePost publishes an editorial article. Administrator-only. The slug is
// derived from the title; on collision a numeric suffix is appended until
// free. That loop is a fast path: the unique index on posts.slug is what
// actually guarantees uniqueness under concurrent identical titles.
func (s *SubmissionService) CreatePost(admin *models.User, in PostInput) (*models.Post, error) {
	if !admin.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := checkStruct(in); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(Slugify(in.Title))
	if err != nil {
		return nil, err
	}

	post := models.Post{
		Slug:       slug,
		Title:      strings.TrimSpace(in.Title),
		Excerpt:    in.Excerpt,
		Content:    in.Content,
		Category:   defaultCategory(in.Category),
		Tags:       in.Tags,
		SourceURL:  in.SourceURL,
		AuthorID:   &admin.ID,
		AuthorName: admin.Name,
	}

	if err := s.db.Create(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, upstream(err)
	}
	return &post, nil
}

func (s *SubmissionService) uniqueSlug(base string) (string, error) {
	slug := base
	for i := 2; ; i++ {
		var count int64
		if err := s.db.Model(&models.Post{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", upstream(err)
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func defaultCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return "Geral"
	}
	return category
}

// Slugify lowercases the title and collapses every non-alphanumeric run into
// a single hyphen.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "post"
	}
	return slug
}

// ParseTags splits a comma-separated tag list, dropping blanks.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
