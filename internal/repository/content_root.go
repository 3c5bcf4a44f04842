package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ba5maa/FileBlogSystem/internal/domain"
	"github.com/ba5maa/FileBlogSystem/internal/metrics"
)

// Subdirectories of the content root.
const (
	PostsDir      = "posts"
	CategoriesDir = "categories"
	TagsDir       = "tags"
	UsersDir      = "users"

	MetaFilename    = "meta.json"
	ContentFilename = "content.md"
	ProfileFilename = "profile.json"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Clock returns the current time. Stores convert it to UTC.
type Clock func() time.Time

// ContentRoot is the directory holding every store's files.
type ContentRoot struct {
	Root string
}

// NewContentRoot resolves root to an absolute path and creates the posts,
// categories, tags and users directories below it.
func NewContentRoot(root string) (*ContentRoot, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve content root: %w", err)
	}
	for _, dir := range []string{PostsDir, CategoriesDir, TagsDir, UsersDir} {
		if err := os.MkdirAll(filepath.Join(abs, dir), dirPerm); err != nil {
			return nil, fmt.Errorf("create content directory %q: %w", dir, err)
		}
	}
	return &ContentRoot{Root: abs}, nil
}

// Dir returns the absolute path of a content subdirectory.
func (c *ContentRoot) Dir(name string) string {
	return filepath.Join(c.Root, name)
}

// Check reports whether every content subdirectory is reachable.
func (c *ContentRoot) Check() error {
	for _, dir := range []string{PostsDir, CategoriesDir, TagsDir, UsersDir} {
		info, err := os.Stat(c.Dir(dir))
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", c.Dir(dir))
		}
	}
	return nil
}

// exists reports whether path exists. Errors other than "does not exist"
// count as existing so callers never overwrite what they cannot see.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// observe records a store call in the store metrics.
func observe(entity, op string, timer *metrics.Timer, err error) {
	result := metrics.ResultSuccess
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		result = metrics.ResultNotFound
	case errors.Is(err, domain.ErrConflict):
		result = metrics.ResultConflict
	default:
		result = metrics.ResultError
	}
	metrics.ObserveStoreOperation(entity, op, result, timer.Seconds())
}
