package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ba5maa/FileBlogSystem/internal/auth"
	"github.com/ba5maa/FileBlogSystem/internal/domain"
	"github.com/ba5maa/FileBlogSystem/internal/middleware"
	"github.com/ba5maa/FileBlogSystem/internal/repository"
	"github.com/ba5maa/FileBlogSystem/internal/service"
	"github.com/ba5maa/FileBlogSystem/internal/validator"
)

// Version is reported by /health.
var Version = "dev"

// Dependencies are the collaborators wired into the router.
type Dependencies struct {
	Posts      repository.PostRepository
	Categories repository.CategoryRepository
	Tags       repository.TagRepository
	Users      repository.UserRepository
	Tokens     *auth.TokenService
	Site       SiteSettings
	Content    ContentChecker
	// LoginLimiter throttles POST /api/auth/login per client IP when set.
	LoginLimiter *middleware.RateLimiter
	// HashPassword defaults to auth.HashPassword.
	HashPassword PasswordHasher
}

// NewRouter builds the gin engine with every API route.
func NewRouter(deps Dependencies) *gin.Engine {
	v := validator.NewValidator()
	hash := deps.HashPassword
	if hash == nil {
		hash = auth.HashPassword
	}

	posts := NewPostHandler(deps.Posts, deps.Site, v)
	categories := NewCategoryHandler(deps.Categories, v)
	tags := NewTagHandler(deps.Tags, v)
	users := NewUserHandler(deps.Users, v, hash)
	authHandler := NewAuthHandler(deps.Users, deps.Tokens, v)
	siteHandler := NewSiteHandler(deps.Site)
	health := NewHealthHandler(deps.Content, Version)
	export := NewExportHandler(service.NewExportService(deps.Posts, deps.Categories, deps.Tags, deps.Users), v)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(middleware.AccessLog())

	router.GET("/health", health.Health)
	router.GET("/ready", health.Ready)
	router.GET("/live", health.Live)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.RequireAuth(deps.Tokens)
	optionalAuth := middleware.OptionalAuth(deps.Tokens)
	writers := middleware.RequireRole(domain.RoleAdmin, domain.RoleAuthor)
	admins := middleware.RequireRole(domain.RoleAdmin)

	api := router.Group("/api")
	{
		api.GET("/site", siteHandler.Get)
		api.GET("/export", requireAuth, admins, export.StreamExport)

		authGroup := api.Group("/auth")
		{
			login := []gin.HandlerFunc{}
			if deps.LoginLimiter != nil {
				login = append(login, deps.LoginLimiter.Limit())
			}
			authGroup.POST("/login", append(login, authHandler.Login)...)
			authGroup.GET("/me", requireAuth, authHandler.Me)
		}

		postGroup := api.Group("/posts")
		{
			postGroup.GET("", optionalAuth, posts.List)
			postGroup.GET("/:slug", optionalAuth, posts.Get)
			postGroup.POST("", requireAuth, writers, posts.Create)
			postGroup.PUT("/:slug", requireAuth, writers, posts.Update)
			postGroup.DELETE("/:slug", requireAuth, writers, posts.Delete)
		}

		categoryGroup := api.Group("/categories")
		{
			categoryGroup.GET("", categories.List)
			categoryGroup.POST("", requireAuth, admins, categories.Create)
			categoryGroup.PUT("/:name", requireAuth, admins, categories.Update)
			categoryGroup.DELETE("/:name", requireAuth, admins, categories.Delete)
		}

		tagGroup := api.Group("/tags")
		{
			tagGroup.GET("", tags.List)
			tagGroup.POST("", requireAuth, writers, tags.Create)
			tagGroup.PUT("/:name", requireAuth, writers, tags.Update)
			tagGroup.DELETE("/:name", requireAuth, writers, tags.Delete)
		}

		userGroup := api.Group("/users")
		{
			userGroup.GET("", requireAuth, admins, users.List)
			userGroup.GET("/:username", users.Get)
			userGroup.POST("", requireAuth, admins, users.Create)
			userGroup.PUT("/:username", requireAuth, admins, users.Update)
			userGroup.DELETE("/:username", requireAuth, admins, users.Delete)
		}
	}

	return router
}
