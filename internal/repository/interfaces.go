package repository

import (
	"context"

	"github.com/ba5maa/FileBlogSystem/internal/domain"
)

// PostRepository defines methods for blog post storage.
type PostRepository interface {
	List(ctx context.Context) ([]domain.PostMeta, error)
	// GetBySlug returns nil when no post matches.
	GetBySlug(ctx context.Context, slug string) (*domain.PostMeta, error)
	// GetContent returns false when the folder has no content file.
	GetContent(ctx context.Context, folderPath string) (string, bool, error)
	Create(ctx context.Context, req domain.PostRequest) (*domain.PostMeta, error)
	Update(ctx context.Context, originalSlug string, req domain.PostRequest) (*domain.PostMeta, error)
	Delete(ctx context.Context, slug string) error
}

// CategoryRepository defines methods for category storage.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, req domain.CreateCategoryRequest) (*domain.Category, error)
	Update(ctx context.Context, oldName string, req domain.UpdateCategoryRequest) (*domain.Category, error)
	Delete(ctx context.Context, name string) error
}

// TagRepository defines methods for tag storage.
type TagRepository interface {
	List(ctx context.Context) ([]domain.Tag, error)
	Create(ctx context.Context, req domain.CreateTagRequest) (*domain.Tag, error)
	Update(ctx context.Context, oldName string, req domain.UpdateTagRequest) (*domain.Tag, error)
	Delete(ctx context.Context, name string) error
}

// UserRepository defines methods for user profile storage.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	// GetByUsername returns nil when the profile does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	Update(ctx context.Context, username string, req domain.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, username string) error
}
