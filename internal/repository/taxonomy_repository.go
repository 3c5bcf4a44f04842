package repository

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ba5maa/FileBlogSystem/internal/domain"
	"github.com/ba5maa/FileBlogSystem/internal/logger"
	"github.com/ba5maa/FileBlogSystem/internal/metrics"
	"github.com/ba5maa/FileBlogSystem/internal/slug"
)

// slugFileStore keeps one {slug}.json file per record in a flat directory.
// Categories and tags share it; name and slugOf read the record's fields.
type slugFileStore[T any] struct {
	entity string
	dir    string
	name   func(T) string
	slugOf func(T) string
	mu     sync.Mutex
}

func (s *slugFileStore[T]) log() *slog.Logger {
	return logger.WithEntity(s.entity)
}

func (s *slugFileStore[T]) path(slug string) string {
	return filepath.Join(s.dir, slug+".json")
}

// list returns every readable record sorted by name. A missing directory is
// created and reported as empty.
func (s *slugFileStore[T]) list() ([]T, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if mkErr := os.MkdirAll(s.dir, dirPerm); mkErr != nil {
				return nil, s.storageError("list", s.dir, mkErr)
			}
			return []T{}, nil
		}
		return nil, s.storageError("list", s.dir, err)
	}

	records := make([]T, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		rec, found := readRecord[T](filepath.Join(s.dir, entry.Name()))
		if !found {
			continue
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := s.name(records[i]), s.name(records[j])
		if la, lb := strings.ToLower(a), strings.ToLower(b); la != lb {
			return la < lb
		}
		return a < b
	})
	return records, nil
}

func (s *slugFileStore[T]) findByName(records []T, name string) (T, bool) {
	name = strings.TrimSpace(name)
	for _, rec := range records {
		if strings.EqualFold(s.name(rec), name) {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

// create writes build(name, slug) unless a file for the slug already exists.
func (s *slugFileStore[T]) create(rawName string, build func(name, slug string) T) (T, error) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.TrimSpace(rawName)
	recSlug := slug.Generate(name)
	path := s.path(recSlug)

	if exists(path) {
		s.log().Warn("Record already exists",
			slog.String("name", name),
			slog.String("slug", recSlug))
		return zero, &domain.ConflictError{Entity: s.entity, Key: recSlug}
	}

	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return zero, s.storageError("create", s.dir, err)
	}

	rec := build(name, recSlug)
	if err := writeRecord(path, rec); err != nil {
		return zero, s.storageError("create", path, err)
	}

	s.log().Info("Created record",
		slog.String("name", name),
		slog.String("slug", recSlug),
		slog.String("path", path))
	return rec, nil
}

// update renames the record matching oldName. When the slug changes the file
// is moved before the new content is written at the final path.
func (s *slugFileStore[T]) update(oldName, rawNewName string, apply func(cur T, name, slug string) T) (T, error) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.list()
	if err != nil {
		return zero, err
	}

	current, found := s.findByName(records, oldName)
	if !found {
		s.log().Warn("Record not found for update",
			slog.String("name", oldName))
		return zero, &domain.NotFoundError{Entity: s.entity, Key: oldName}
	}

	oldSlug := s.slugOf(current)
	oldPath := s.path(oldSlug)
	newName := strings.TrimSpace(rawNewName)
	newSlug := slug.Generate(newName)
	slugChanged := !strings.EqualFold(oldSlug, newSlug)

	if slugChanged {
		for _, rec := range records {
			other := s.slugOf(rec)
			if strings.EqualFold(other, newSlug) && !strings.EqualFold(other, oldSlug) {
				s.log().Warn("New name conflicts with an existing record",
					slog.String("name", newName),
					slog.String("slug", newSlug))
				return zero, &domain.ConflictError{Entity: s.entity, Key: newSlug}
			}
		}
	}

	updated := apply(current, newName, newSlug)

	newPath := oldPath
	if slugChanged {
		newPath = s.path(newSlug)
		if exists(newPath) {
			s.log().Error("Rename target already exists",
				slog.String("target", newPath))
			return zero, &domain.ConflictError{Entity: s.entity, Key: newSlug}
		}
		if err := os.Rename(oldPath, newPath); err != nil {
			return zero, s.storageError("rename", oldPath, err)
		}
		s.log().Info("Renamed record file",
			slog.String("from", oldPath),
			slog.String("to", newPath))
	}

	if err := writeRecord(newPath, updated); err != nil {
		return zero, s.storageError("update", newPath, err)
	}

	s.log().Info("Updated record",
		slog.String("name", newName),
		slog.String("slug", newSlug))
	return updated, nil
}

// delete removes the file of the record matching name.
func (s *slugFileStore[T]) delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.list()
	if err != nil {
		return err
	}

	rec, found := s.findByName(records, name)
	if !found {
		s.log().Warn("Record not found for deletion",
			slog.String("name", name))
		return &domain.NotFoundError{Entity: s.entity, Key: name}
	}

	path := s.path(s.slugOf(rec))
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log().Warn("Record file missing at expected path",
				slog.String("path", path))
			return &domain.NotFoundError{Entity: s.entity, Key: name}
		}
		return s.storageError("delete", path, err)
	}

	s.log().Info("Deleted record",
		slog.String("path", path))
	return nil
}

func (s *slugFileStore[T]) storageError(op, path string, cause error) error {
	s.log().Error("Store operation failed",
		slog.String("operation", op),
		slog.String("path", path),
		slog.String("error", cause.Error()))
	return domain.NewStorageError(s.entity, op, path, cause)
}

// FileCategoryRepository implements CategoryRepository over categories/{slug}.json.
type FileCategoryRepository struct {
	store *slugFileStore[domain.Category]
}

// NewFileCategoryRepository creates a FileCategoryRepository for root.
func NewFileCategoryRepository(root *ContentRoot) *FileCategoryRepository {
	return &FileCategoryRepository{store: &slugFileStore[domain.Category]{
		entity: "category",
		dir:    root.Dir(CategoriesDir),
		name:   func(c domain.Category) string { return c.Name },
		slugOf: func(c domain.Category) string { return c.Slug },
	}}
}

func (r *FileCategoryRepository) List(ctx context.Context) (categories []domain.Category, err error) {
	timer := metrics.NewTimer()
	defer func() { observe("category", "list", timer, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.store.list()
}

func (r *FileCategoryRepository) Create(ctx context.Context, req domain.CreateCategoryRequest) (category *domain.Category, err error) {
	timer := metrics.NewTimer()
	defer func() { observe("category", "create", timer, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := r.store.create(req.Name, func(name, slug string) domain.Category {
		return domain.Category{Name: name, Slug: slug, Description: req.Description}
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *FileCategoryRepository) Update(ctx context.Context, oldName string, req domain.UpdateCategoryRequest) (category *domain.Category, err error) {
	timer := metrics.NewTimer()
	defer func() { observe("category", "update", timer, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := r.store.update(oldName, req.NewName, func(cur domain.Category, name, slug string) domain.Category {
		cur.Name = name
		cur.Slug = slug
		cur.Description = req.Description
		return cur
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *FileCategoryRepository) Delete(ctx context.Context, name string) (err error) {
	timer := metrics.NewTimer()
	defer func() { observe("category", "delete", timer, err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.delete(name)
}

// FileTagRepository implements TagRepository over tags/{slug}.json.
type FileTagRepository struct {
	store *slugFileStore[domain.Tag]
}

// NewFileTagRepository creates a FileTagRepository for root.
func NewFileTagRepository(root *ContentRoot) *FileTagRepository {
	return &FileTagRepository{store: &slugFileStore[domain.Tag]{
		entity: "tag",
		dir:    root.Dir(TagsDir),
		name:   func(t domain.Tag) string { return t.Name },
		slugOf: func(t domain.Tag) string { return t.Slug },
	}}
}

func (r *FileTagRepository) List(ctx context.Context) (tags []domain.Tag, err error) {
	timer := metrics.NewTimer()
	defer func() { observe("tag", "list", timer, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.store.list()
}

func (r *FileTagRepository) Create(ctx context.Context, req domain.CreateTagRequest) (tag *domain.Tag, err error) {
	timer := metrics.NewTimer()
	defer func() { observe("tag", "create", timer, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := r.store.create(req.Name, func(name, slug string) domain.Tag {
		return domain.Tag{Name: name, Slug: slug}
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *FileTagRepository) Update(ctx context.Context, oldName string, req domain.UpdateTagRequest) (tag *domain.Tag, err error) {
	timer := metrics.NewTimer()
	defer func() { observe("tag", "update", timer, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := r.store.update(oldName, req.NewName, func(cur domain.Tag, name, slug string) domain.Tag {
		cur.Name = name
		cur.Slug = slug
		return cur
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *FileTagRepository) Delete(ctx context.Context, name string) (err error) {
	timer := metrics.NewTimer()
	defer func() { observe("tag", "delete", timer, err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.delete(name)
}
