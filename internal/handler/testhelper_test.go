package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ba5maa/FileBlogSystem/internal/auth"
	"github.com/ba5maa/FileBlogSystem/internal/domain"
	"github.com/ba5maa/FileBlogSystem/internal/middleware"
	"github.com/ba5maa/FileBlogSystem/internal/repository"
	"github.com/ba5maa/FileBlogSystem/internal/site"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testAPI is a router backed by file stores in a temporary content root.
type testAPI struct {
	router *gin.Engine
	root   *repository.ContentRoot
	users  *repository.FileUserRepository
	tokens *auth.TokenService
	now    time.Time
}

type apiOption func(*Dependencies)

func withSite(cfg site.Config) apiOption {
	return func(d *Dependencies) { d.Site = site.Static(cfg) }
}

func withLoginLimiter(rl *middleware.RateLimiter) apiOption {
	return func(d *Dependencies) { d.LoginLimiter = rl }
}

func withPosts(posts repository.PostRepository) apiOption {
	return func(d *Dependencies) { d.Posts = posts }
}

func setupAPI(t *testing.T, opts ...apiOption) *testAPI {
	t.Helper()

	root, err := repository.NewContentRoot(t.TempDir())
	require.NoError(t, err)

	api := &testAPI{
		root: root,
		now:  time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
	}
	api.users = repository.NewFileUserRepository(root)
	api.tokens = auth.NewTokenService(auth.TokenConfig{
		Secret:   "handler-test-secret",
		Issuer:   "FileBlogSystem",
		Audience: "FileBlogSystemUsers",
		TTL:      time.Hour,
	})

	deps := Dependencies{
		Posts:      repository.NewFilePostRepository(root, func() time.Time { return api.now }),
		Categories: repository.NewFileCategoryRepository(root),
		Tags:       repository.NewFileTagRepository(root),
		Users:      api.users,
		Tokens:     api.tokens,
		Site:       site.Static(site.Default()),
		Content:    root,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	api.router = NewRouter(deps)
	return api
}

// token issues a bearer token without touching the user store.
func (a *testAPI) token(t *testing.T, username string, roles ...string) string {
	t.Helper()
	token, _, err := a.tokens.Issue(&domain.User{Username: username, Roles: roles})
	require.NoError(t, err)
	return token
}

func (a *testAPI) seedUser(t *testing.T, username, password string, roles ...string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	_, err = a.users.Create(context.Background(), domain.CreateUserRequest{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: hash,
		Roles:          roles,
	})
	require.NoError(t, err)
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// removeContent deletes the content file of a post folder, leaving meta.json.
func removeContent(a *testAPI, folder string) error {
	return os.Remove(filepath.Join(a.root.Dir(repository.PostsDir), folder, repository.ContentFilename))
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
