// Package site loads the blog-wide settings file and keeps it current.
package site

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults used when the settings file is missing or leaves a field unset.
const (
	DefaultSiteName     = "My File Blog"
	DefaultDescription  = "A lightweight, file-based blog system."
	DefaultPostsPerPage = 5
	maxPostsPerPage     = 100
)

// Config is the content of site.yaml.
type Config struct {
	SiteName     string `yaml:"site_name" json:"site_name"`
	Description  string `yaml:"description" json:"description"`
	PostsPerPage int    `yaml:"posts_per_page" json:"posts_per_page"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		SiteName:     DefaultSiteName,
		Description:  DefaultDescription,
		PostsPerPage: DefaultPostsPerPage,
	}
}

// Load reads path. A missing file yields Default; unset fields are filled
// from Default. Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read site config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML settings and applies defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	var raw Config
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("parse site config: %w", err)
	}

	if s := strings.TrimSpace(raw.SiteName); s != "" {
		cfg.SiteName = s
	}
	if s := strings.TrimSpace(raw.Description); s != "" {
		cfg.Description = s
	}
	switch {
	case raw.PostsPerPage < 0:
		return Config{}, fmt.Errorf("parse site config: posts_per_page must not be negative, got %d", raw.PostsPerPage)
	case raw.PostsPerPage > maxPostsPerPage:
		return Config{}, fmt.Errorf("parse site config: posts_per_page must be at most %d, got %d", maxPostsPerPage, raw.PostsPerPage)
	case raw.PostsPerPage > 0:
		cfg.PostsPerPage = raw.PostsPerPage
	}
	return cfg, nil
}
