package models

import (
	"time"
)

// Roles assigned to local profiles. The very first profile ever created
// becomes the administrator.
const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleBanned = "banned"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `json:"-"`                         // empty for OAuth-only accounts
	AuthUserID   string    `gorm:"index" json:"auth_user_id"` // external auth subject (Google)
	Name         string    `gorm:"size:50" json:"name"`
	Bio          string    `gorm:"size:500" json:"bio"`
	Role         string    `gorm:"size:20;default:'user';not null" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) IsBanned() bool {
	return u != nil && u.Role == RoleBanned
}

// DisplayName is what templates show next to content authored by this user.
func (u *User) DisplayName() string {
	if u == nil {
		return "Anônimo"
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
