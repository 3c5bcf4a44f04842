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

	"github.com/ba5maa/FileBlogSystem/internal/domain"
	"github.com/ba5maa/FileBlogSystem/internal/logger"
	"github.com/ba5maa/FileBlogSystem/internal/metrics"
)

const userEntity = "user"

// FileUserRepository implements UserRepository with one directory per user,
// named by the lowercased username and holding profile.json.
type FileUserRepository struct {
	dir string
	mu  sync.Mutex
}

// NewFileUserRepository creates a FileUserRepository for root.
func NewFileUserRepository(root *ContentRoot) *FileUserRepository {
	return &FileUserRepository{dir: root.Dir(UsersDir)}
}

// NormalizeUsername trims and lowercases a username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// userDir resolves the directory for a username and rejects names that
// would leave the users directory.
func (r *FileUserRepository) userDir(username string) (string, error) {
	name := NormalizeUsername(username)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: invalid username %q", domain.ErrValidation, username)
	}
	joined := filepath.Join(r.dir, name)
	rel, err := filepath.Rel(r.dir, joined)
	if err != nil || rel != name {
		return "", fmt.Errorf("%w: username %q escapes users directory", domain.ErrValidation, username)
	}
	return joined, nil
}

// List returns every readable profile sorted by username.
func (r *FileUserRepository) List(ctx context.Context) (users []domain.User, err error) {
	timer := metrics.NewTimer()
	defer func() { observe(userEntity, "list", timer, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if mkErr := os.MkdirAll(r.dir, dirPerm); mkErr != nil {
				return nil, r.storageError("list", r.dir, mkErr)
			}
			return []domain.User{}, nil
		}
		return nil, r.storageError("list", r.dir, err)
	}

	users = make([]domain.User, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		user, found := readRecord[domain.User](filepath.Join(r.dir, entry.Name(), ProfileFilename))
		if !found {
			continue
		}
		users = append(users, user)
	}

	sort.SliceStable(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users, nil
}

// GetByUsername reads the profile of username directly from its directory.
func (r *FileUserRepository) GetByUsername(ctx context.Context, username string) (user *domain.User, err error) {
	timer := metrics.NewTimer()
	defer func() { observe(userEntity, "get", timer, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := r.userDir(username)
	if err != nil {
		return nil, err
	}

	u, found := readRecord[domain.User](filepath.Join(dir, ProfileFilename))
	if !found {
		return nil, nil
	}
	return &u, nil
}

// Create writes a new profile. It fails when the user directory or its
// profile already exists.
func (r *FileUserRepository) Create(ctx context.Context, req domain.CreateUserRequest) (user *domain.User, err error) {
	timer := metrics.NewTimer()
	defer func() { observe(userEntity, "create", timer, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := r.userDir(req.Username)
	if err != nil {
		return nil, err
	}
	username := filepath.Base(dir)
	profile := filepath.Join(dir, ProfileFilename)

	r.mu.Lock()
	defer r.mu.Unlock()

	if exists(dir) || exists(profile) {
		logger.Warn("User already exists", slog.String("username", username))
		return nil, &domain.ConflictError{Entity: userEntity, Key: username}
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, r.storageError("create", dir, err)
	}

	roles := req.Roles
	if roles == nil {
		roles = []string{}
	}
	u := &domain.User{
		Username:       username,
		Email:          strings.TrimSpace(req.Email),
		HashedPassword: strings.TrimSpace(req.HashedPassword),
		Roles:          roles,
	}

	if err := writeRecord(profile, u); err != nil {
		return nil, r.storageError("create", profile, err)
	}

	logger.Info("Created user profile",
		slog.String("username", username),
		slog.String("path", profile))
	return u, nil
}

// Update replaces email and roles. The stored password hash is replaced only
// when req carries a non-empty one.
func (r *FileUserRepository) Update(ctx context.Context, username string, req domain.UpdateUserRequest) (user *domain.User, err error) {
	timer := metrics.NewTimer()
	defer func() { observe(userEntity, "update", timer, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := r.userDir(username)
	if err != nil {
		return nil, err
	}
	profile := filepath.Join(dir, ProfileFilename)

	r.mu.Lock()
	defer r.mu.Unlock()

	if !exists(profile) {
		logger.Warn("User not found for update", slog.String("username", username))
		return nil, &domain.NotFoundError{Entity: userEntity, Key: NormalizeUsername(username)}
	}

	existing, found := readRecord[domain.User](profile)
	if !found {
		return nil, r.storageError("update", profile, errors.New("profile could not be decoded"))
	}

	existing.Email = strings.TrimSpace(req.Email)
	if req.HashedPassword != "" {
		existing.HashedPassword = strings.TrimSpace(req.HashedPassword)
	}
	existing.Roles = req.Roles
	if existing.Roles == nil {
		existing.Roles = []string{}
	}

	if err := writeRecord(profile, existing); err != nil {
		return nil, r.storageError("update", profile, err)
	}

	logger.Info("Updated user profile", slog.String("username", existing.Username))
	return &existing, nil
}

// Delete removes the user's directory recursively.
func (r *FileUserRepository) Delete(ctx context.Context, username string) (err error) {
	timer := metrics.NewTimer()
	defer func() { observe(userEntity, "delete", timer, err) }()

	if err := ctx.Err(); err != nil {
		return err
	}

	dir, err := r.userDir(username)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	info, statErr := os.Stat(dir)
	if statErr != nil || !info.IsDir() {
		logger.Warn("User directory not found", slog.String("path", dir))
		return &domain.NotFoundError{Entity: userEntity, Key: NormalizeUsername(username)}
	}

	if err := os.RemoveAll(dir); err != nil {
		return r.storageError("delete", dir, err)
	}

	logger.Info("Deleted user directory", slog.String("path", dir))
	return nil
}

func (r *FileUserRepository) storageError(op, path string, cause error) error {
	logger.WithEntity(userEntity).Error("Store operation failed",
		slog.String("operation", op),
		slog.String("path", path),
		slog.String("error", cause.Error()))
	return domain.NewStorageError(userEntity, op, path, cause)
}
