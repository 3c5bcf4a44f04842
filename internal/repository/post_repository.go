package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ba5maa/FileBlogSystem/internal/domain"
	"github.com/ba5maa/FileBlogSystem/internal/logger"
	"github.com/ba5maa/FileBlogSystem/internal/metrics"
	"github.com/ba5maa/FileBlogSystem/internal/slug"
)

const (
	postEntity = "post"
	dateLayout = "2006-01-02"
)

// FilePostRepository implements PostRepository with one folder per post,
// named {YYYY-MM-DD}-{slug}, holding meta.json and content.md.
//
// Mutations are serialized by mu so concurrent creates or renames of the same
// folder cannot both succeed. Reads take no lock; a listing may mix states of
// a concurrent update.
type FilePostRepository struct {
	dir string
	now Clock
	mu  sync.Mutex
}

// NewFilePostRepository creates a FilePostRepository for the posts directory
// of root. A nil clock uses time.Now.
func NewFilePostRepository(root *ContentRoot, clock Clock) *FilePostRepository {
	if clock == nil {
		clock = time.Now
	}
	return &FilePostRepository{dir: root.Dir(PostsDir), now: clock}
}

// hasDatePrefix reports whether name starts with a YYYY-MM-DD- shape.
func hasDatePrefix(name string) bool {
	return len(name) > 10 && name[4] == '-' && name[7] == '-' && name[10] == '-'
}

// slugFromFolder strips the date prefix from a post folder name. Folder names
// without one are used as the slug unchanged.
func slugFromFolder(name string) string {
	if len(name) > 11 && hasDatePrefix(name) {
		return name[11:]
	}
	return name
}

// List reads every post folder and returns the metadata sorted by
// PublishedDate, newest first. Folders without a readable meta.json are
// skipped.
func (r *FilePostRepository) List(ctx context.Context) (posts []domain.PostMeta, err error) {
	timer := metrics.NewTimer()
	defer func() { observe(postEntity, "list", timer, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.list()
}

func (r *FilePostRepository) list() ([]domain.PostMeta, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Posts directory not found", slog.String("path", r.dir))
			return []domain.PostMeta{}, nil
		}
		logger.Error("Failed to read posts directory",
			slog.String("path", r.dir),
			slog.String("error", err.Error()))
		return nil, domain.NewStorageError(postEntity, "list", r.dir, err)
	}

	posts := make([]domain.PostMeta, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folder := filepath.Join(r.dir, entry.Name())
		meta, found := readRecord[domain.PostMeta](filepath.Join(folder, MetaFilename))
		if !found {
			continue
		}
		meta.Slug = slugFromFolder(entry.Name())
		meta.FolderPath = folder
		posts = append(posts, meta)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishedDate.After(posts[j].PublishedDate)
	})
	return posts, nil
}

// GetBySlug scans all posts for a case-insensitive slug match.
func (r *FilePostRepository) GetBySlug(ctx context.Context, slug string) (post *domain.PostMeta, err error) {
	timer := metrics.NewTimer()
	defer func() { observe(postEntity, "get", timer, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.findBySlug(slug)
}

func (r *FilePostRepository) findBySlug(slug string) (*domain.PostMeta, error) {
	posts, err := r.list()
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if strings.EqualFold(posts[i].Slug, slug) {
			return &posts[i], nil
		}
	}
	return nil, nil
}

// GetContent reads content.md from a post folder.
func (r *FilePostRepository) GetContent(ctx context.Context, folderPath string) (content string, found bool, err error) {
	timer := metrics.NewTimer()
	defer func() { observe(postEntity, "get_content", timer, err) }()

	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	path := filepath.Join(folderPath, ContentFilename)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Content file not found", slog.String("path", path))
			return "", false, nil
		}
		logger.Error("Failed to read content file",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return "", false, domain.NewStorageError(postEntity, "read_content", path, err)
	}
	return string(data), true, nil
}

// Create writes a new post folder named from today's UTC date and the slug of
// the custom URL or title. When that folder exists the Unix time is appended.
func (r *FilePostRepository) Create(ctx context.Context, req domain.PostRequest) (post *domain.PostMeta, err error) {
	timer := metrics.NewTimer()
	defer func() { observe(postEntity, "create", timer, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	baseSlug := slug.Generate(req.SlugSource())
	datePrefix := now.Format(dateLayout)

	folderName := datePrefix + "-" + baseSlug
	folder := filepath.Join(r.dir, folderName)
	if exists(folder) {
		folderName = fmt.Sprintf("%s-%s-%d", datePrefix, baseSlug, now.Unix())
		folder = filepath.Join(r.dir, folderName)
	}

	if err := os.MkdirAll(r.dir, dirPerm); err != nil {
		return nil, r.storageError("create", r.dir, err)
	}
	if err := os.Mkdir(folder, dirPerm); err != nil {
		if errors.Is(err, fs.ErrExist) {
			logger.Warn("Post folder already exists",
				slog.String("path", folder))
			return nil, &domain.ConflictError{Entity: postEntity, Key: folderName}
		}
		return nil, r.storageError("create", folder, err)
	}

	meta := domain.PostMeta{
		Title:            req.Title,
		Description:      req.Description,
		PublishedDate:    now,
		ModificationDate: now,
		Tags:             nonNil(req.Tags),
		Categories:       nonNil(req.Categories),
		CustomURL:        req.CustomURL,
		IsDraft:          req.Draft(),
		Slug:             slugFromFolder(folderName),
		FolderPath:       folder,
	}

	if err := r.write(&meta, req.Content); err != nil {
		return nil, err
	}

	logger.Info("Created blog post",
		slog.String("title", meta.Title),
		slog.String("slug", meta.Slug),
		slog.String("path", folder))
	return &meta, nil
}

// Update rewrites the post found by originalSlug. The date prefix of its
// folder is kept; when the new slug differs the folder is renamed first.
// Metadata and content are rewritten even when the folder stays the same.
func (r *FilePostRepository) Update(ctx context.Context, originalSlug string, req domain.PostRequest) (post *domain.PostMeta, err error) {
	timer := metrics.NewTimer()
	defer func() { observe(postEntity, "update", timer, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.findBySlug(originalSlug)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		logger.Warn("Post not found for update", slog.String("slug", originalSlug))
		return nil, &domain.NotFoundError{Entity: postEntity, Key: originalSlug}
	}

	now := r.now().UTC()
	newBaseSlug := slug.Generate(req.SlugSource())

	oldFolderName := filepath.Base(existing.FolderPath)
	datePrefix := now.Format(dateLayout)
	if hasDatePrefix(oldFolderName) {
		datePrefix = oldFolderName[:10]
	}

	newFolderName := datePrefix + "-" + newBaseSlug
	newFolder := filepath.Join(r.dir, newFolderName)

	if existing.FolderPath != newFolder {
		if exists(newFolder) {
			logger.Error("Rename target already exists",
				slog.String("slug", originalSlug),
				slog.String("target", newFolder))
			return nil, &domain.ConflictError{Entity: postEntity, Key: newFolderName}
		}
		if err := os.Rename(existing.FolderPath, newFolder); err != nil {
			return nil, r.storageError("rename", existing.FolderPath, err)
		}
		logger.Info("Renamed post folder",
			slog.String("from", existing.FolderPath),
			slog.String("to", newFolder))
	}

	existing.Title = req.Title
	existing.Description = req.Description
	existing.ModificationDate = now
	existing.Tags = nonNil(req.Tags)
	existing.Categories = nonNil(req.Categories)
	existing.CustomURL = req.CustomURL
	if req.IsDraft != nil {
		existing.IsDraft = *req.IsDraft
	}
	existing.Slug = slugFromFolder(newFolderName)
	existing.FolderPath = newFolder

	if err := r.write(existing, req.Content); err != nil {
		return nil, err
	}

	logger.Info("Updated blog post",
		slog.String("title", existing.Title),
		slog.String("slug", existing.Slug))
	return existing, nil
}

// Delete removes the folder of the post found by slug.
func (r *FilePostRepository) Delete(ctx context.Context, slug string) (err error) {
	timer := metrics.NewTimer()
	defer func() { observe(postEntity, "delete", timer, err) }()

	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	post, err := r.findBySlug(slug)
	if err != nil {
		return err
	}
	if post == nil {
		logger.Warn("Post not found for deletion", slog.String("slug", slug))
		return &domain.NotFoundError{Entity: postEntity, Key: slug}
	}

	if err := os.RemoveAll(post.FolderPath); err != nil {
		return r.storageError("delete", post.FolderPath, err)
	}

	logger.Info("Deleted blog post folder", slog.String("path", post.FolderPath))
	return nil
}

func (r *FilePostRepository) write(meta *domain.PostMeta, content string) error {
	metaPath := filepath.Join(meta.FolderPath, MetaFilename)
	if err := writeRecord(metaPath, meta); err != nil {
		return r.storageError("write_meta", metaPath, err)
	}
	contentPath := filepath.Join(meta.FolderPath, ContentFilename)
	if err := os.WriteFile(contentPath, []byte(content), filePerm); err != nil {
		return r.storageError("write_content", contentPath, err)
	}
	return nil
}

func (r *FilePostRepository) storageError(op, path string, cause error) error {
	logger.WithEntity(postEntity).Error("Store operation failed",
		slog.String("operation", op),
		slog.String("path", path),
		slog.String("error", cause.Error()))
	return domain.NewStorageError(postEntity, op, path, cause)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
