package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ba5maa/FileBlogSystem/internal/domain"
	"github.com/ba5maa/FileBlogSystem/internal/logger"
	"github.com/ba5maa/FileBlogSystem/internal/middleware"
	"github.com/ba5maa/FileBlogSystem/internal/render"
	"github.com/ba5maa/FileBlogSystem/internal/repository"
	"github.com/ba5maa/FileBlogSystem/internal/site"
	"github.com/ba5maa/FileBlogSystem/internal/validator"
)

// TotalCountHeader carries the number of posts matching a list request
// before pagination.
const TotalCountHeader = "X-Total-Count"

// SiteSettings provides the settings currently in effect.
type SiteSettings interface {
	Current() site.Config
}

// PostHandler handles blog post requests.
type PostHandler struct {
	posts     repository.PostRepository
	site      SiteSettings
	validator *validator.Validator
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(posts repository.PostRepository, settings SiteSettings, v *validator.Validator) *PostHandler {
	return &PostHandler{posts: posts, site: settings, validator: v}
}

// PostResponse represents post metadata in API responses.
type PostResponse struct {
	Slug             string   `json:"slug"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	PublishedDate    string   `json:"published_date"`
	ModificationDate string   `json:"modification_date"`
	Tags             []string `json:"tags"`
	Categories       []string `json:"categories"`
	CustomURL        *string  `json:"custom_url"`
	IsDraft          bool     `json:"is_draft"`
}

// PostDetailResponse is a post with its body. HTML is set only for
// ?format=html.
type PostDetailResponse struct {
	PostResponse
	Content string `json:"content"`
	HTML    string `json:"html,omitempty"`
}

func toPostResponse(p *domain.PostMeta) PostResponse {
	tags, categories := p.Tags, p.Categories
	if tags == nil {
		tags = []string{}
	}
	if categories == nil {
		categories = []string{}
	}
	return PostResponse{
		Slug:             p.Slug,
		Title:            p.Title,
		Description:      p.Description,
		PublishedDate:    p.PublishedDate.UTC().Format(TimeFormat),
		ModificationDate: p.ModificationDate.UTC().Format(TimeFormat),
		Tags:             tags,
		Categories:       categories,
		CustomURL:        p.CustomURL,
		IsDraft:          p.IsDraft,
	}
}

// List handles GET /api/posts.
//
// Drafts are visible to authenticated callers only. ?tag= and ?category=
// filter case-insensitively; ?page=N returns one page of the site's
// posts_per_page size.
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	anonymous := middleware.GetPrincipal(c) == nil
	tag := strings.TrimSpace(c.Query("tag"))
	category := strings.TrimSpace(c.Query("category"))

	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		if anonymous && p.IsDraft {
			continue
		}
		if tag != "" && !containsFold(p.Tags, tag) {
			continue
		}
		if category != "" && !containsFold(p.Categories, category) {
			continue
		}
		out = append(out, toPostResponse(p))
	}

	total := len(out)
	if raw, ok := c.GetQuery("page"); ok {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a positive integer"})
			return
		}
		out = paginate(out, page, h.site.Current().PostsPerPage)
	}

	c.Header(TotalCountHeader, strconv.Itoa(total))
	c.JSON(http.StatusOK, out)
}

// Get handles GET /api/posts/:slug.
func (h *PostHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	format := c.DefaultQuery("format", "markdown")
	if format != "markdown" && format != "html" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: markdown, html"})
		return
	}

	meta, err := h.posts.GetBySlug(ctx, slug)
	if err != nil {
		respondError(c, err)
		return
	}
	if meta == nil || (meta.IsDraft && middleware.GetPrincipal(c) == nil) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("post %q not found", slug)})
		return
	}

	content, found, err := h.posts.GetContent(ctx, meta.FolderPath)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		logger.WithRequestID(middleware.GetRequestID(c)).Error("Post has no content file",
			slog.String("slug", meta.Slug),
			slog.String("path", meta.FolderPath))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "post content is missing"})
		return
	}

	resp := PostDetailResponse{PostResponse: toPostResponse(meta), Content: content}
	if format == "html" {
		html, err := render.Markdown(content)
		if err != nil {
			respondError(c, err)
			return
		}
		resp.HTML = html
	}

	c.JSON(http.StatusOK, resp)
}

// Create handles POST /api/posts.
func (h *PostHandler) Create(c *gin.Context) {
	var req domain.PostRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.validator.ValidatePost(&req); err != nil {
		respondValidation(c, err)
		return
	}

	post, err := h.posts.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Location", "/api/posts/"+post.Slug)
	c.JSON(http.StatusCreated, PostDetailResponse{PostResponse: toPostResponse(post), Content: req.Content})
}

// Update handles PUT /api/posts/:slug.
func (h *PostHandler) Update(c *gin.Context) {
	var req domain.PostRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.validator.ValidatePost(&req); err != nil {
		respondValidation(c, err)
		return
	}

	post, err := h.posts.Update(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, PostDetailResponse{PostResponse: toPostResponse(post), Content: req.Content})
}

// Delete handles DELETE /api/posts/:slug.
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func paginate(posts []PostResponse, page, perPage int) []PostResponse {
	if perPage < 1 {
		perPage = site.DefaultPostsPerPage
	}
	if page-1 > len(posts)/perPage {
		return []PostResponse{}
	}
	start := (page - 1) * perPage
	if start >= len(posts) {
		return []PostResponse{}
	}
	end := min(start+perPage, len(posts))
	return posts[start:end]
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), want) {
			return true
		}
	}
	return false
}
