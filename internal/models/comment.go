package models

import (
	"time"
)

// Comment parent kinds. There is no foreign key from comments to posts or
// topics in the schema, so deleting a topic must delete its comments first.
const (
	ParentPost  = "post"
	ParentTopic = "topic"
)

type Comment struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ParentType string `gorm:"size:10;not null;index:idx_comments_parent" json:"parent_type"`
	ParentID   uint   `gorm:"not null;index:idx_comments_parent" json:"parent_id"`
	Body       string `gorm:"type:text;not null" json:"body"`

	AuthorID   *uint  `gorm:"index" json:"author_id"`
	Author     *User  `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL;" json:"author"`
	GuestName  string `gorm:"size:60" json:"guest_name"`
	GuestEmail string `gorm:"size:160" json:"guest_email"`

	CreatedAt time.Time `json:"created_at"`
}

func (c *Comment) AuthorDisplay() string {
	if c.Author != nil {
		return c.Author.DisplayName()
	}
	if c.GuestName != "" {
		return c.GuestName
	}
	return "Anônimo"
}
