package service_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ba5maa/FileBlogSystem/internal/domain"
	"github.com/ba5maa/FileBlogSystem/internal/repository"
	"github.com/ba5maa/FileBlogSystem/internal/service"
)

type testStreamWriter struct {
	buf     bytes.Buffer
	flushes int
	failAt  int
	writes  int
}

func (w *testStreamWriter) Write(data []byte) error {
	w.writes++
	if w.failAt > 0 && w.writes >= w.failAt {
		return errors.New("client went away")
	}
	_, err := w.buf.Write(data)
	return err
}

func (w *testStreamWriter) Flush() { w.flushes++ }

type fixture struct {
	root *repository.ContentRoot
	svc  *service.ExportService
}

func setupExport(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	root, err := repository.NewContentRoot(t.TempDir())
	require.NoError(t, err)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	posts := repository.NewFilePostRepository(root, func() time.Time { return now })
	categories := repository.NewFileCategoryRepository(root)
	tags := repository.NewFileTagRepository(root)
	users := repository.NewFileUserRepository(root)

	_, err = posts.Create(ctx, domain.PostRequest{
		Title:   "Commas, Quotes",
		Content: "line one\nline \"two\"",
		Tags:    []string{"a,b", "go"},
	})
	require.NoError(t, err)
	now = now.Add(24 * time.Hour)
	draft := true
	_, err = posts.Create(ctx, domain.PostRequest{Title: "Draft", IsDraft: &draft})
	require.NoError(t, err)

	desc := "Tech things"
	_, err = categories.Create(ctx, domain.CreateCategoryRequest{Name: "Tech", Description: &desc})
	require.NoError(t, err)
	_, err = tags.Create(ctx, domain.CreateTagRequest{Name: "Go"})
	require.NoError(t, err)
	_, err = users.Create(ctx, domain.CreateUserRequest{
		Username:       "alice",
		Email:          "alice@example.com",
		HashedPassword: "$2a$10$notarealhashnotarealhashnotarealhashnotarealhashnotar",
		Roles:          []string{domain.RoleAdmin},
	})
	require.NoError(t, err)

	return &fixture{root: root, svc: service.NewExportService(posts, categories, tags, users)}
}

func TestExportService_StreamPosts(t *testing.T) {
	f := setupExport(t)

	t.Run("ndjson", func(t *testing.T) {
		w := &testStreamWriter{}
		count, err := f.svc.Stream(context.Background(), "posts", "", w)

		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.GreaterOrEqual(t, w.flushes, 1)

		var records []service.PostRecord
		scanner := bufio.NewScanner(&w.buf)
		for scanner.Scan() {
			var rec service.PostRecord
			require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
			records = append(records, rec)
		}
		require.Len(t, records, 2)
		assert.Equal(t, "draft", records[0].Slug)
		assert.True(t, records[0].IsDraft)
		assert.Equal(t, "commas-quotes", records[1].Slug)
		assert.Equal(t, "line one\nline \"two\"", records[1].Content)
		assert.Equal(t, "2024-03-01T12:00:00Z", records[1].PublishedDate)
		assert.Equal(t, []string{}, records[1].Categories)
	})

	t.Run("csv", func(t *testing.T) {
		w := &testStreamWriter{}
		count, err := f.svc.Stream(context.Background(), "posts", "csv", w)

		require.NoError(t, err)
		assert.Equal(t, 2, count)

		rows, err := csv.NewReader(&w.buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "slug", rows[0][0])
		assert.Equal(t, "content", rows[0][9])
		assert.Equal(t, "commas-quotes", rows[2][0])
		assert.Equal(t, `["a,b","go"]`, rows[2][5])
		assert.Equal(t, "false", rows[2][8])
		assert.Equal(t, "line one\nline \"two\"", rows[2][9])
	})

	t.Run("missing content file exports an empty body", func(t *testing.T) {
		require.NoError(t, os.Remove(filepath.Join(f.root.Dir(repository.PostsDir), "2024-03-02-draft", repository.ContentFilename)))

		w := &testStreamWriter{}
		count, err := f.svc.Stream(context.Background(), "posts", "ndjson", w)

		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Contains(t, w.buf.String(), `"slug":"draft"`)
	})
}

func TestExportService_StreamOtherResources(t *testing.T) {
	f := setupExport(t)

	tests := []struct {
		resource string
		format   string
		want     string
	}{
		{"categories", "ndjson", `{"name":"Tech","slug":"tech","description":"Tech things"}` + "\n"},
		{"categories", "csv", "name,slug,description\nTech,tech,Tech things\n"},
		{"tags", "ndjson", `{"name":"Go","slug":"go"}` + "\n"},
		{"tags", "csv", "name,slug\nGo,go\n"},
		{"users", "ndjson", `{"username":"alice","email":"alice@example.com","roles":["Admin"]}` + "\n"},
		{"users", "csv", "username,email,roles\nalice,alice@example.com,\"[\"\"Admin\"\"]\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.resource+" "+tt.format, func(t *testing.T) {
			w := &testStreamWriter{}
			count, err := f.svc.Stream(context.Background(), tt.resource, tt.format, w)

			require.NoError(t, err)
			assert.Equal(t, 1, count)
			assert.Equal(t, tt.want, w.buf.String())
			assert.NotContains(t, w.buf.String(), "$2a$")
		})
	}
}

func TestExportService_Errors(t *testing.T) {
	f := setupExport(t)

	t.Run("unknown resource", func(t *testing.T) {
		_, err := f.svc.Stream(context.Background(), "comments", "ndjson", &testStreamWriter{})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := f.svc.Stream(context.Background(), "tags", "xml", &testStreamWriter{})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := f.svc.Stream(ctx, "tags", "ndjson", &testStreamWriter{})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("writer failure", func(t *testing.T) {
		w := &testStreamWriter{failAt: 1}
		count, err := f.svc.Stream(context.Background(), "posts", "ndjson", w)

		require.Error(t, err)
		assert.Equal(t, 0, count)
	})
}
