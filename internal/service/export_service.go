// Package service streams content-root snapshots for backup.
package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ba5maa/FileBlogSystem/internal/domain"
	"github.com/ba5maa/FileBlogSystem/internal/logger"
	"github.com/ba5maa/FileBlogSystem/internal/metrics"
	"github.com/ba5maa/FileBlogSystem/internal/repository"
)

// flushEvery is the number of records written between flushes.
const flushEvery = 100

// ExportService streams the records of one content store as NDJSON or CSV.
// Records are read from the stores at request time; a concurrent mutation
// may or may not be reflected.
type ExportService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
	tags       repository.TagRepository
	users      repository.UserRepository
}

// NewExportService creates a new ExportService.
func NewExportService(
	posts repository.PostRepository,
	categories repository.CategoryRepository,
	tags repository.TagRepository,
	users repository.UserRepository,
) *ExportService {
	return &ExportService{posts: posts, categories: categories, tags: tags, users: users}
}

// PostRecord is one exported post, body included.
type PostRecord struct {
	Slug             string   `json:"slug"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	PublishedDate    string   `json:"published_date"`
	ModificationDate string   `json:"modification_date"`
	Tags             []string `json:"tags"`
	Categories       []string `json:"categories"`
	CustomURL        *string  `json:"custom_url"`
	IsDraft          bool     `json:"is_draft"`
	Content          string   `json:"content"`
}

// UserRecord is one exported user. Password hashes are never exported.
type UserRecord struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// record is a row that can be written as JSON or as CSV cells.
type record interface {
	cells() []string
}

var headers = map[string][]string{
	domain.ExportPosts:      {"slug", "title", "description", "published_date", "modification_date", "tags", "categories", "custom_url", "is_draft", "content"},
	domain.ExportCategories: {"name", "slug", "description"},
	domain.ExportTags:       {"name", "slug"},
	domain.ExportUsers:      {"username", "email", "roles"},
}

// Stream writes every record of resource to writer. format is "ndjson" or
// "csv"; empty means ndjson.
func (s *ExportService) Stream(ctx context.Context, resource, format string, writer StreamWriter) (count int, err error) {
	if format == "" {
		format = domain.FormatNDJSON
	}
	header, ok := headers[resource]
	if !ok {
		return 0, fmt.Errorf("%w: unknown export resource %q", domain.ErrValidation, resource)
	}
	if format != domain.FormatNDJSON && format != domain.FormatCSV {
		return 0, fmt.Errorf("%w: unknown export format %q", domain.ErrValidation, format)
	}

	defer func() {
		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultError
		}
		metrics.ObserveExport(resource, format, result, count)
	}()

	records, err := s.load(ctx, resource)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", resource, err)
	}

	enc := newEncoder(format, writer)
	if err := enc.header(header); err != nil {
		return 0, err
	}
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if err := enc.encode(rec); err != nil {
			return count, fmt.Errorf("write %s record: %w", resource, err)
		}
		count++
		if count%flushEvery == 0 {
			writer.Flush()
		}
	}
	writer.Flush()

	logger.Info("Export streamed",
		slog.String("resource", resource),
		slog.String("format", format),
		slog.Int("records", count))
	return count, nil
}

func (s *ExportService) load(ctx context.Context, resource string) ([]record, error) {
	switch resource {
	case domain.ExportPosts:
		return s.loadPosts(ctx)
	case domain.ExportCategories:
		categories, err := s.categories.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]record, 0, len(categories))
		for _, c := range categories {
			out = append(out, categoryRecord(c))
		}
		return out, nil
	case domain.ExportTags:
		tags, err := s.tags.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]record, 0, len(tags))
		for _, t := range tags {
			out = append(out, tagRecord(t))
		}
		return out, nil
	default:
		users, err := s.users.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]record, 0, len(users))
		for _, u := range users {
			out = append(out, UserRecord{Username: u.Username, Email: u.Email, Roles: nonNil(u.Roles)})
		}
		return out, nil
	}
}

func (s *ExportService) loadPosts(ctx context.Context) ([]record, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]record, 0, len(posts))
	for _, p := range posts {
		content, found, err := s.posts.GetContent(ctx, p.FolderPath)
		if err != nil {
			return nil, err
		}
		if !found {
			logger.Warn("Exporting post without content file", slog.String("slug", p.Slug))
		}
		out = append(out, PostRecord{
			Slug:             p.Slug,
			Title:            p.Title,
			Description:      p.Description,
			PublishedDate:    p.PublishedDate.UTC().Format(time.RFC3339),
			ModificationDate: p.ModificationDate.UTC().Format(time.RFC3339),
			Tags:             nonNil(p.Tags),
			Categories:       nonNil(p.Categories),
			CustomURL:        p.CustomURL,
			IsDraft:          p.IsDraft,
			Content:          content,
		})
	}
	return out, nil
}

func (r PostRecord) cells() []string {
	customURL := ""
	if r.CustomURL != nil {
		customURL = *r.CustomURL
	}
	return []string{
		r.Slug, r.Title, r.Description, r.PublishedDate, r.ModificationDate,
		jsonList(r.Tags), jsonList(r.Categories), customURL,
		strconv.FormatBool(r.IsDraft), r.Content,
	}
}

func (r UserRecord) cells() []string {
	return []string{r.Username, r.Email, jsonList(r.Roles)}
}

type categoryRecord domain.Category

func (r categoryRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name        string  `json:"name"`
		Slug        string  `json:"slug"`
		Description *string `json:"description"`
	}{r.Name, r.Slug, r.Description})
}

func (r categoryRecord) cells() []string {
	desc := ""
	if r.Description != nil {
		desc = *r.Description
	}
	return []string{r.Name, r.Slug, desc}
}

type tagRecord domain.Tag

func (r tagRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}{r.Name, r.Slug})
}

func (r tagRecord) cells() []string {
	return []string{r.Name, r.Slug}
}

// encoder writes records to a StreamWriter in one format.
type encoder interface {
	header(cols []string) error
	encode(rec record) error
}

func newEncoder(format string, w StreamWriter) encoder {
	if format == domain.FormatCSV {
		return &csvEncoder{w: csv.NewWriter(writerAdapter{w})}
	}
	return &ndjsonEncoder{enc: json.NewEncoder(writerAdapter{w})}
}

type ndjsonEncoder struct {
	enc *json.Encoder
}

func (e *ndjsonEncoder) header([]string) error { return nil }

func (e *ndjsonEncoder) encode(rec record) error { return e.enc.Encode(rec) }

type csvEncoder struct {
	w *csv.Writer
}

func (e *csvEncoder) header(cols []string) error { return e.write(cols) }

func (e *csvEncoder) encode(rec record) error { return e.write(rec.cells()) }

// write flushes each row so rows reach the StreamWriter in order.
func (e *csvEncoder) write(row []string) error {
	if err := e.w.Write(row); err != nil {
		return err
	}
	e.w.Flush()
	return e.w.Error()
}

// writerAdapter exposes a StreamWriter as an io.Writer.
type writerAdapter struct {
	w StreamWriter
}

func (a writerAdapter) Write(p []byte) (int, error) {
	if err := a.w.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// jsonList encodes a list column as a JSON array so commas inside values
// survive the CSV round trip.
func jsonList(values []string) string {
	b, _ := json.Marshal(nonNil(values))
	return string(b)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
