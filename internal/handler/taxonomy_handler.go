package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ba5maa/FileBlogSystem/internal/domain"
	"github.com/ba5maa/FileBlogSystem/internal/repository"
	"github.com/ba5maa/FileBlogSystem/internal/validator"
)

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

// TagResponse represents a tag in API responses.
type TagResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func toCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{Name: c.Name, Slug: c.Slug, Description: c.Description}
}

func toTagResponse(t *domain.Tag) TagResponse {
	return TagResponse{Name: t.Name, Slug: t.Slug}
}

// CategoryHandler handles category requests. Categories are addressed by
// name in the path.
type CategoryHandler struct {
	categories repository.CategoryRepository
	validator  *validator.Validator
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categories repository.CategoryRepository, v *validator.Validator) *CategoryHandler {
	return &CategoryHandler{categories: categories, validator: v}
}

// List handles GET /api/categories.
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, toCategoryResponse(&categories[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Create handles POST /api/categories.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req domain.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.validator.ValidateCategoryCreate(&req); err != nil {
		respondValidation(c, err)
		return
	}

	category, err := h.categories.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// Update handles PUT /api/categories/:name.
func (h *CategoryHandler) Update(c *gin.Context) {
	var req domain.UpdateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.validator.ValidateCategoryUpdate(&req); err != nil {
		respondValidation(c, err)
		return
	}

	category, err := h.categories.Update(c.Request.Context(), c.Param("name"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryResponse(category))
}

// Delete handles DELETE /api/categories/:name.
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categories.Delete(c.Request.Context(), c.Param("name")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TagHandler handles tag requests.
type TagHandler struct {
	tags      repository.TagRepository
	validator *validator.Validator
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tags repository.TagRepository, v *validator.Validator) *TagHandler {
	return &TagHandler{tags: tags, validator: v}
}

// List handles GET /api/tags.
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.tags.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]TagResponse, 0, len(tags))
	for i := range tags {
		out = append(out, toTagResponse(&tags[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Create handles POST /api/tags.
func (h *TagHandler) Create(c *gin.Context) {
	var req domain.CreateTagRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.validator.ValidateTagCreate(&req); err != nil {
		respondValidation(c, err)
		return
	}

	tag, err := h.tags.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTagResponse(tag))
}

// Update handles PUT /api/tags/:name.
func (h *TagHandler) Update(c *gin.Context) {
	var req domain.UpdateTagRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.validator.ValidateTagUpdate(&req); err != nil {
		respondValidation(c, err)
		return
	}

	tag, err := h.tags.Update(c.Request.Context(), c.Param("name"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTagResponse(tag))
}

// Delete handles DELETE /api/tags/:name.
func (h *TagHandler) Delete(c *gin.Context) {
	if err := h.tags.Delete(c.Request.Context(), c.Param("name")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
