package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the content stores.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
	ErrStorage    = errors.New("storage operation failed")
)

// StorageError wraps a filesystem failure with the store operation that hit
// it. It matches ErrStorage through errors.Is.
type StorageError struct {
	Entity string // "post", "category", "tag", "user"
	Op     string // e.g. "create", "rename"
	Path   string
	Cause  error
}

func (e *StorageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s %s: %v", e.Entity, e.Op, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Entity, e.Op, e.Cause)
}

func (e *StorageError) Unwrap() error { return e.Cause }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// NewStorageError constructs a StorageError.
func NewStorageError(entity, op, path string, cause error) error {
	return &StorageError{Entity: entity, Op: op, Path: path, Cause: cause}
}

// NotFoundError reports a lookup by slug, name or username that matched
// nothing.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %q not found", e.Entity, e.Key) }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError reports a slug, username or rename target collision.
type ConflictError struct {
	Entity string
	Key    string
}

func (e *ConflictError) Error() string { return fmt.Sprintf("%s %q already exists", e.Entity, e.Key) }

func (e *ConflictError) Unwrap() error { return ErrConflict }
