package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ba5maa/FileBlogSystem/internal/domain"
)

func TestCategoryHandler(t *testing.T) {
	api := setupAPI(t)
	admin := api.token(t, "root", domain.RoleAdmin)
	author := api.token(t, "writer", domain.RoleAuthor)

	t.Run("authors cannot create", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/categories", author, domain.CreateCategoryRequest{Name: "Tech"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"error":"forbidden"}`, w.Body.String())
	})

	t.Run("create", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/categories", admin, domain.CreateCategoryRequest{
			Name:        "Tech News",
			Description: strPtr("All things tech"),
		})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp := decode[CategoryResponse](t, w)
		assert.Equal(t, "Tech News", resp.Name)
		assert.Equal(t, "tech-news", resp.Slug)
		require.NotNil(t, resp.Description)
		assert.Equal(t, "All things tech", *resp.Description)
	})

	t.Run("duplicate", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/categories", admin, domain.CreateCategoryRequest{Name: "tech news"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("invalid name", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/categories", admin, domain.CreateCategoryRequest{Name: "***"})

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode[ValidationErrorResponse](t, w)
		require.Len(t, resp.Details, 1)
		assert.Equal(t, "name", resp.Details[0].Field)
	})

	t.Run("list is public", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/categories", "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		list := decode[[]CategoryResponse](t, w)
		require.Len(t, list, 1)
		assert.Equal(t, "tech-news", list[0].Slug)
	})

	t.Run("update", func(t *testing.T) {
		w := api.do(t, http.MethodPut, "/api/categories/Tech%20News", admin, domain.UpdateCategoryRequest{NewName: "Science"})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decode[CategoryResponse](t, w)
		assert.Equal(t, "science", resp.Slug)
		assert.Nil(t, resp.Description)
	})

	t.Run("update missing", func(t *testing.T) {
		w := api.do(t, http.MethodPut, "/api/categories/Tech%20News", admin, domain.UpdateCategoryRequest{NewName: "Other"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, "/api/categories/science", admin, nil).Code)
		assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodDelete, "/api/categories/science", admin, nil).Code)
	})
}

func TestTagHandler(t *testing.T) {
	api := setupAPI(t)
	author := api.token(t, "writer", domain.RoleAuthor)

	t.Run("anonymous create is rejected", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/tags", "", domain.CreateTagRequest{Name: "go"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("authors manage tags", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/tags", author, domain.CreateTagRequest{Name: "Golang"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, TagResponse{Name: "Golang", Slug: "golang"}, decode[TagResponse](t, w))

		w = api.do(t, http.MethodPost, "/api/tags", author, domain.CreateTagRequest{Name: "golang"})
		assert.Equal(t, http.StatusConflict, w.Code)

		w = api.do(t, http.MethodPut, "/api/tags/golang", author, domain.UpdateTagRequest{NewName: "Go"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "go", decode[TagResponse](t, w).Slug)

		w = api.do(t, http.MethodGet, "/api/tags", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []TagResponse{{Name: "Go", Slug: "go"}}, decode[[]TagResponse](t, w))

		assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, "/api/tags/Go", author, nil).Code)
	})

	t.Run("empty new name", func(t *testing.T) {
		w := api.do(t, http.MethodPut, "/api/tags/go", author, domain.UpdateTagRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete missing", func(t *testing.T) {
		w := api.do(t, http.MethodDelete, "/api/tags/nope", author, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
