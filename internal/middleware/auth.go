package middleware

import (
	"net/http"

	"sqmcc/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const CheckUserKey = "user"

// LoadUser retrieves the session user and sets it on the context. The role
// is re-read from storage on every request, so a ban takes effect on the
// banned user's next request even though their cookie stays valid.
func LoadUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID != nil {
			var user models.User
			if err := db.First(&user, userID).Error; err == nil {
				c.Set(CheckUserKey, &user)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the loaded session user, or nil for anonymous
// requests.
func CurrentUser(c *gin.Context) *models.User {
	if u, exists := c.Get(CheckUserKey); exists {
		return u.(*models.User)
	}
	return nil
}

// IsAdmin is the capability check guarding every moderation route. It only
// looks at the loaded profile, never at how the session was established.
func IsAdmin(c *gin.Context) bool {
	return CurrentUser(c).IsAdmin()
}

// AuthRequired ensures a user is logged in.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired ensures the requester holds the admin capability. Anonymous
// requesters are sent to login; authenticated non-admins get a bare 403.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
