package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"

	"github.com/ba5maa/FileBlogSystem/internal/auth"
	"github.com/ba5maa/FileBlogSystem/internal/config"
	"github.com/ba5maa/FileBlogSystem/internal/handler"
	"github.com/ba5maa/FileBlogSystem/internal/logger"
	"github.com/ba5maa/FileBlogSystem/internal/middleware"
	"github.com/ba5maa/FileBlogSystem/internal/repository"
	"github.com/ba5maa/FileBlogSystem/internal/site"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration",
			slog.String("error", err.Error()))
	}

	if err := logger.Configure(os.Stdout, cfg.LogLevel, cfg.LogFormat); err != nil {
		logger.Fatal("Failed to configure logger",
			slog.String("error", err.Error()))
	}

	// Prepare content directories
	root, err := repository.NewContentRoot(cfg.ContentRoot)
	if err != nil {
		logger.Fatal("Failed to prepare content root",
			slog.String("path", cfg.ContentRoot),
			slog.String("error", err.Error()))
	}
	logger.Info("Using content root", slog.String("path", root.Root))

	settings := watchSiteConfig(cfg.SiteConfig)
	defer settings.Close()

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(handler.Dependencies{
		Posts:      repository.NewFilePostRepository(root, time.Now),
		Categories: repository.NewFileCategoryRepository(root),
		Tags:       repository.NewFileTagRepository(root),
		Users:      repository.NewFileUserRepository(root),
		Tokens: auth.NewTokenService(auth.TokenConfig{
			Secret:   cfg.JWTSecret,
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
			TTL:      cfg.JWTTTL,
		}),
		Site:         settings,
		Content:      root,
		LoginLimiter: loginLimiter,
	})

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Location", "X-Request-ID", handler.TotalCountHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      corsHandler(router),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting server",
			slog.String("port", cfg.ServerPort),
			slog.String("version", handler.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server",
				slog.String("error", err.Error()))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error",
			slog.String("error", err.Error()))
	}

	loginLimiter.Close()

	logger.Info("Server exited")
}

// watchSiteConfig starts reloading the site settings file. When the file
// cannot be watched the settings are loaded once, or defaulted.
func watchSiteConfig(path string) *site.Watcher {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Warn("Cannot create site config directory",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}

	w, err := site.NewWatcher(path)
	if err == nil {
		return w
	}
	logger.Warn("Site config will not be reloaded",
		slog.String("path", path),
		slog.String("error", err.Error()))

	cfg, err := site.Load(path)
	if err != nil {
		logger.Warn("Invalid site config, using defaults",
			slog.String("path", path),
			slog.String("error", err.Error()))
		cfg = site.Default()
	}
	return site.Static(cfg)
}
