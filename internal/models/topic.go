package models

import (
	"time"
)

// Topic visibility states. Guest submissions start as pending and stay
// invisible to anonymous readers until an administrator approves them.
const (
	TopicPending  = "pending"
	TopicApproved = "approved"
	TopicHidden   = "hidden"
)

type Topic struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Category string `gorm:"size:40;not null;default:'Geral'" json:"category"`
	Title    string `gorm:"not null" json:"title"`
	Body     string `gorm:"type:text;not null" json:"body"`

	// Either a registered author reference or a denormalized guest pair.
	// AuthorID is nullable so deleting a user keeps their topics.
	AuthorID   *uint  `gorm:"index" json:"author_id"`
	Author     *User  `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL;" json:"author"`
	GuestName  string `gorm:"size:60" json:"guest_name"`
	GuestEmail string `gorm:"size:160" json:"guest_email"`

	Status    string    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CreatedAt time.Time `json:"created_at"`

	// Filled by queries, not a column.
	CommentCount int `gorm:"-" json:"comment_count"`
}

func (t *Topic) AuthorDisplay() string {
	if t.Author != nil {
		return t.Author.DisplayName()
	}
	if t.GuestName != "" {
		return t.GuestName
	}
	return "Anônimo"
}
