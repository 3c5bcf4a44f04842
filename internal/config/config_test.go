package config

import (
	"reflect"
	"testing"
	"time"
)

var envVars = []string{
	"SERVER_PORT",
	"HTTP_READ_TIMEOUT",
	"HTTP_WRITE_TIMEOUT",
	"HTTP_IDLE_TIMEOUT",
	"CONTENT_ROOT",
	"SITE_CONFIG",
	"JWT_SECRET",
	"JWT_ISSUER",
	"JWT_AUDIENCE",
	"JWT_TTL",
	"CORS_ALLOWED_ORIGINS",
	"LOGIN_RATE_LIMIT",
	"LOGIN_RATE_WINDOW",
	"LOG_LEVEL",
	"LOG_FORMAT",
}

// clearEnv blanks every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envVars {
		t.Setenv(env, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.ServerPort != "8080" {
			t.Errorf("ServerPort = %v, want 8080", cfg.ServerPort)
		}
		if cfg.ReadTimeout != 15*time.Second {
			t.Errorf("ReadTimeout = %v, want 15s", cfg.ReadTimeout)
		}
		if cfg.IdleTimeout != time.Minute {
			t.Errorf("IdleTimeout = %v, want 1m", cfg.IdleTimeout)
		}
		if cfg.ContentRoot != "./content" {
			t.Errorf("ContentRoot = %v, want ./content", cfg.ContentRoot)
		}
		if cfg.SiteConfig != "./config/site.yaml" {
			t.Errorf("SiteConfig = %v, want ./config/site.yaml", cfg.SiteConfig)
		}
		if cfg.JWTIssuer != "FileBlogSystem" {
			t.Errorf("JWTIssuer = %v, want FileBlogSystem", cfg.JWTIssuer)
		}
		if cfg.JWTAudience != "FileBlogSystemUsers" {
			t.Errorf("JWTAudience = %v, want FileBlogSystemUsers", cfg.JWTAudience)
		}
		if cfg.JWTTTL != time.Hour {
			t.Errorf("JWTTTL = %v, want 1h", cfg.JWTTTL)
		}
		if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"*"}) {
			t.Errorf("CORSAllowedOrigins = %v, want [*]", cfg.CORSAllowedOrigins)
		}
		if cfg.LoginRateLimit != 5 || cfg.LoginRateWindow != time.Minute {
			t.Errorf("login rate = %d per %v, want 5 per 1m", cfg.LoginRateLimit, cfg.LoginRateWindow)
		}
		if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
			t.Errorf("logging = %s/%s, want info/json", cfg.LogLevel, cfg.LogFormat)
		}
	})

	t.Run("missing secret is generated", func(t *testing.T) {
		clearEnv(t)

		first, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		second, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if !first.JWTSecretGenerated {
			t.Error("JWTSecretGenerated = false, want true")
		}
		if first.JWTSecret == "" || first.JWTSecret == second.JWTSecret {
			t.Errorf("generated secrets %q and %q should be non-empty and distinct", first.JWTSecret, second.JWTSecret)
		}
	})

	t.Run("custom values from environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("HTTP_WRITE_TIMEOUT", "30s")
		t.Setenv("CONTENT_ROOT", "/srv/blog")
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("JWT_TTL", "15m")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
		t.Setenv("LOGIN_RATE_LIMIT", "10")
		t.Setenv("LOG_FORMAT", "TEXT")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.ServerPort != "9090" {
			t.Errorf("ServerPort = %v, want 9090", cfg.ServerPort)
		}
		if cfg.WriteTimeout != 30*time.Second {
			t.Errorf("WriteTimeout = %v, want 30s", cfg.WriteTimeout)
		}
		if cfg.ContentRoot != "/srv/blog" {
			t.Errorf("ContentRoot = %v, want /srv/blog", cfg.ContentRoot)
		}
		if cfg.JWTSecret != "s3cret" || cfg.JWTSecretGenerated {
			t.Errorf("JWTSecret = %q (generated %v), want s3cret", cfg.JWTSecret, cfg.JWTSecretGenerated)
		}
		if cfg.JWTTTL != 15*time.Minute {
			t.Errorf("JWTTTL = %v, want 15m", cfg.JWTTTL)
		}
		want := []string{"https://a.example", "https://b.example"}
		if !reflect.DeepEqual(cfg.CORSAllowedOrigins, want) {
			t.Errorf("CORSAllowedOrigins = %v, want %v", cfg.CORSAllowedOrigins, want)
		}
		if cfg.LoginRateLimit != 10 {
			t.Errorf("LoginRateLimit = %v, want 10", cfg.LoginRateLimit)
		}
		if cfg.LogFormat != "text" {
			t.Errorf("LogFormat = %v, want text", cfg.LogFormat)
		}
	})

	t.Run("unparseable numbers fall back to defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JWT_TTL", "soon")
		t.Setenv("LOGIN_RATE_LIMIT", "many")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.JWTTTL != time.Hour {
			t.Errorf("JWTTTL = %v, want 1h", cfg.JWTTTL)
		}
		if cfg.LoginRateLimit != 5 {
			t.Errorf("LoginRateLimit = %v, want 5", cfg.LoginRateLimit)
		}
	})
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"negative ttl", map[string]string{"JWT_TTL": "-1m"}},
		{"zero rate limit", map[string]string{"LOGIN_RATE_LIMIT": "0"}},
		{"zero rate window", map[string]string{"LOGIN_RATE_WINDOW": "0s"}},
		{"unknown log format", map[string]string{"LOG_FORMAT": "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := Load(); err == nil {
				t.Error("Load() error = nil, want error")
			}
		})
	}
}
