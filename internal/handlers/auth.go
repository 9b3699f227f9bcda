package handlers

import (
	"net/http"

	"sqmcc/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	identity *services.IdentityService
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{identity: services.NewIdentityService(db)}
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "login.html", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := h.identity.Authenticate(email, password)
	if err != nil {
		msg := "Credenciais incorretas."
		if err == services.ErrForbidden {
			msg = "Sua conta está suspensa."
		}
		Render(c, http.StatusUnauthorized, "login.html", gin.H{"Error": msg})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, http.StatusOK, "register.html", nil)
}

func (h *AuthHandler) Register(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := h.identity.Register(email, password)
	if err != nil {
		if err == services.ErrConflict {
			Render(c, http.StatusConflict, "register.html", gin.H{"Error": "Email já cadastrado."})
			return
		}
		Render(c, statusFor(err), "register.html", gin.H{"Error": userMessage(err)})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/")
}
