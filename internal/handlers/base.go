package handlers

import (
	"errors"
	"log"
	"net/http"

	"sqmcc/internal/middleware"
	"sqmcc/internal/services"

	"github.com/gin-gonic/gin"
)

// Render injects common variables (current user, current path) before
// handing off to the template.
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}
	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
	}
	obj["CurrentPath"] = c.Request.URL.Path
	c.HTML(code, name, obj)
}

// RenderError shows the error page with a user-facing message.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case services.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrSpamRejected):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrThrottled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// userMessage returns the message safe to show the requester. Upstream
// failures keep their detail in the server log only.
func userMessage(err error) string {
	if errors.Is(err, services.ErrUpstream) {
		log.Printf("upstream error: %v", err)
		return "Ocorreu um erro interno no servidor."
	}
	if statusFor(err) == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		return "Ocorreu um erro interno no servidor."
	}
	return err.Error()
}
