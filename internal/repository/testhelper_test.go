package repository_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ba5maa/FileBlogSystem/internal/repository"
)

// TestContent holds a temporary content root and a controllable clock.
type TestContent struct {
	Root  *repository.ContentRoot
	Clock *FakeClock
}

// FakeClock is a repository.Clock that only moves when told to.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// SetupTestContent creates an empty content root under t.TempDir with the
// clock set to 2024-01-15 09:30 UTC.
func SetupTestContent(t *testing.T) *TestContent {
	t.Helper()

	root, err := repository.NewContentRoot(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create content root: %v", err)
	}

	return &TestContent{
		Root:  root,
		Clock: &FakeClock{now: time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)},
	}
}

// Posts returns a post store on the test root driven by the fake clock.
func (tc *TestContent) Posts() *repository.FilePostRepository {
	return repository.NewFilePostRepository(tc.Root, tc.Clock.Now)
}

// WriteFile writes data below the content root, creating parent directories.
func (tc *TestContent) WriteFile(t *testing.T, rel, data string) {
	t.Helper()
	path := filepath.Join(tc.Root.Root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// ReadFile returns the contents of a file below the content root.
func (tc *TestContent) ReadFile(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(tc.Root.Root, rel))
	if err != nil {
		t.Fatalf("Failed to read %s: %v", rel, err)
	}
	return string(data)
}

// Exists reports whether rel exists below the content root.
func (tc *TestContent) Exists(rel string) bool {
	_, err := os.Stat(filepath.Join(tc.Root.Root, rel))
	return err == nil
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func removeAll(tc *TestContent, rel string) error {
	return os.RemoveAll(filepath.Join(tc.Root.Root, rel))
}
