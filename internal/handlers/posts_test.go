package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"sqmcc/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPostForm() url.Values {
	return url.Values{
		"title":    {"Xilitol e saúde bucal"},
		"excerpt":  {"O que a pesquisa diz sobre gomas de xilitol."},
		"content":  {strings.Repeat("Conteúdo do artigo sobre xilitol. ", 5)},
		"category": {"Saúde"},
		"tags":     {"xilitol, pesquisa"},
	}
}

func TestIndexShowsPostsAndCatalog(t *testing.T) {
	r, database := setupServer(t)
	require.NoError(t, database.Create(&models.Post{
		Slug: "primeiro", Title: "Primeiro artigo",
		Excerpt: "Resumo do primeiro artigo.", Content: strings.Repeat("x", 30),
		Category: "Geral",
	}).Error)

	w := doGET(r, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "posts:1")
	assert.Contains(t, w.Body.String(), "produtos:4")
}

func TestIndexCacheKeepsSessionsApart(t *testing.T) {
	r, database := setupServer(t)
	seedUser(t, database, "ana@example.com", "segredo1", models.RoleUser)

	// A logged-in visitor primes the cache...
	cookies := loginAccount(t, r, "ana@example.com", "segredo1")
	w := doGET(r, "/", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sessao:ana@example.com")

	// ...and an anonymous visitor hitting the cached entry must not inherit
	// that session's identity.
	w = doGET(r, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "sessao:")

	// Nor the other way around: a second user gets their own identity, not
	// the primer's.
	seedUser(t, database, "bia@example.com", "segredo2", models.RoleUser)
	biaCookies := loginAccount(t, r, "bia@example.com", "segredo2")
	w = doGET(r, "/", biaCookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sessao:bia@example.com")
	assert.NotContains(t, w.Body.String(), "ana@example.com")
}

func TestIndexCategoryFilter(t *testing.T) {
	r, database := setupServer(t)
	require.NoError(t, database.Create(&models.Post{
		Slug: "um", Title: "Um", Excerpt: "Resumo de um artigo.",
		Content: strings.Repeat("x", 30), Category: "Saúde",
	}).Error)
	require.NoError(t, database.Create(&models.Post{
		Slug: "dois", Title: "Dois", Excerpt: "Resumo de outro artigo.",
		Content: strings.Repeat("x", 30), Category: "Trabalho",
	}).Error)

	w := doGET(r, "/?cat=Sa%C3%BAde", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "posts:1")
}

func TestShowPost(t *testing.T) {
	r, database := setupServer(t)
	require.NoError(t, database.Create(&models.Post{
		Slug: "meu-artigo", Title: "Meu artigo",
		Excerpt: "Resumo do meu artigo.", Content: strings.Repeat("x", 30),
		Category: "Geral",
	}).Error)

	w := doGET(r, "/p/meu-artigo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "post:Meu artigo")

	w = doGET(r, "/p/nao-existe", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Post não encontrado.")
}

func TestCreatePostAdminOnly(t *testing.T) {
	r, database := setupServer(t)
	seedUser(t, database, "adm@example.com", "segredo1", models.RoleAdmin)
	seedUser(t, database, "ana@example.com", "segredo1", models.RoleUser)

	userCookies := loginAccount(t, r, "ana@example.com", "segredo1")
	w := doPOST(r, "/admin/new-post", validPostForm(), userCookies)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminCookies := loginAccount(t, r, "adm@example.com", "segredo1")
	w = doPOST(r, "/admin/new-post", validPostForm(), adminCookies)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/p/xilitol-e-sa-de-bucal", w.Header().Get("Location"))

	var post models.Post
	require.NoError(t, database.First(&post).Error)
	assert.Equal(t, "Saúde", post.Category)
	assert.Equal(t, []string{"xilitol", "pesquisa"}, post.Tags)
}

func TestCreatePostValidation(t *testing.T) {
	r, database := setupServer(t)
	seedUser(t, database, "adm@example.com", "segredo1", models.RoleAdmin)
	cookies := loginAccount(t, r, "adm@example.com", "segredo1")

	form := validPostForm()
	form.Set("excerpt", "curto")
	w := doPOST(r, "/admin/new-post", form, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Dados inválidos")
}

func TestGuestCommentOnPost(t *testing.T) {
	t.Setenv("GUEST_POSTING", "1")
	r, database := setupServer(t)
	require.NoError(t, database.Create(&models.Post{
		Slug: "meu-artigo", Title: "Meu artigo",
		Excerpt: "Resumo do meu artigo.", Content: strings.Repeat("x", 30),
		Category: "Geral",
	}).Error)

	form := url.Values{
		"author_name": {"Ana"},
		"body":        {"Ótimo texto."},
		"form_ts":     {freshFormTs()},
	}
	w := doPOST(r, "/p/meu-artigo/comment", form, nil)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/p/meu-artigo", w.Header().Get("Location"))

	// Honeypot traffic gets the generic rejection.
	form.Set("website", "http://spam.example")
	w = doPOST(r, "/p/meu-artigo/comment", form, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "envio inválido")
}

func TestProfilePage(t *testing.T) {
	r, database := setupServer(t)
	user := seedUser(t, database, "ana@example.com", "segredo1", models.RoleUser)

	require.NoError(t, database.Create(&models.Topic{
		Category: "Geral", Title: "Tópico aprovado", Body: "Corpo do tópico aprovado.",
		Status: models.TopicApproved, AuthorID: &user.ID,
	}).Error)
	require.NoError(t, database.Create(&models.Topic{
		Category: "Geral", Title: "Tópico pendente", Body: "Aguardando moderação aqui.",
		Status: models.TopicPending, AuthorID: &user.ID,
	}).Error)

	// Visitors only see the approved topic; the owner sees both.
	w := doGET(r, "/u/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "profile:ana@example.com")
	assert.Contains(t, w.Body.String(), "topics:1")

	cookies := loginAccount(t, r, "ana@example.com", "segredo1")
	w = doGET(r, "/u/1", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "topics:2")

	w = doGET(r, "/u/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
