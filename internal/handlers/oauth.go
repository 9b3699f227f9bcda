package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"sqmcc/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var googleOauthConfig *oauth2.Config

// InitGoogleOAuth wires the Google OAuth client from the environment.
func InitGoogleOAuth() {
	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = "http://localhost:8080"
	}

	googleOauthConfig = &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  siteURL + "/auth/google/callback",
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// googleUserInfo is the subset of the userinfo response we consume.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func generateStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// GoogleLogin starts the OAuth round trip.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state, err := generateStateToken()
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Falha ao iniciar login com Google.")
		return
	}

	session := sessions.Default(c)
	session.Set("oauth_state", state)
	session.Save()

	url := googleOauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback exchanges the authorization code, fetches the verified
// identity and resolves it to a local profile.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	session := sessions.Default(c)
	savedState := session.Get("oauth_state")

	if savedState == nil || c.Query("state") != savedState.(string) {
		Render(c, http.StatusBadRequest, "login.html", gin.H{"Error": "Parâmetro de estado inválido."})
		return
	}
	session.Delete("oauth_state")
	session.Save()

	code := c.Query("code")
	if code == "" {
		Render(c, http.StatusBadRequest, "login.html", gin.H{"Error": "Código de autorização ausente."})
		return
	}

	token, err := googleOauthConfig.Exchange(context.Background(), code)
	if err != nil {
		Render(c, http.StatusInternalServerError, "login.html", gin.H{"Error": "Falha ao validar login com Google."})
		return
	}

	info, err := fetchGoogleUserInfo(token.AccessToken)
	if err != nil {
		Render(c, http.StatusInternalServerError, "login.html", gin.H{"Error": "Falha ao obter dados do Google."})
		return
	}
	if !info.VerifiedEmail {
		Render(c, http.StatusBadRequest, "login.html", gin.H{"Error": "Email do Google não verificado."})
		return
	}

	user, err := h.identity.ResolveExternal(services.ExternalIdentity{
		Subject: info.ID,
		Email:   info.Email,
		Name:    info.Name,
	})
	if err != nil {
		Render(c, statusFor(err), "login.html", gin.H{"Error": userMessage(err)})
		return
	}
	if user.IsBanned() {
		Render(c, http.StatusForbidden, "login.html", gin.H{"Error": "Sua conta está suspensa."})
		return
	}

	session.Set("user_id", user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

func fetchGoogleUserInfo(accessToken string) (*googleUserInfo, error) {
	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + accessToken)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var info googleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
