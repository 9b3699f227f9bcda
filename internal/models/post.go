package models

import (
	"time"
)

// Post is an editorial article, created only by administrators.
type Post struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	Slug     string   `gorm:"uniqueIndex;size:200;not null" json:"slug"`
	Title    string   `gorm:"not null" json:"title"`
	Excerpt  string   `gorm:"size:220;not null" json:"excerpt"`
	Content  string   `gorm:"type:text;not null" json:"content"`
	Category string   `gorm:"size:40;not null;default:'Geral';index" json:"category"`
	Tags     []string `gorm:"serializer:json" json:"tags"`

	SourceURL string `gorm:"size:500" json:"source_url"`

	AuthorID    *uint  `gorm:"index" json:"author_id"`
	Author      *User  `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL;" json:"author"`
	AuthorName  string `gorm:"size:60" json:"author_name"`
	AuthorEmail string `gorm:"size:160" json:"author_email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Post) AuthorDisplay() string {
	if p.AuthorName != "" {
		return p.AuthorName
	}
	if p.Author != nil {
		return p.Author.DisplayName()
	}
	if p.AuthorEmail != "" {
		return p.AuthorEmail
	}
	return "Anônimo"
}
