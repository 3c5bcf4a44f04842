package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// PostMeta is the metadata of a blog post as persisted in meta.json.
// Slug and FolderPath are derived from the post folder and never written.
type PostMeta struct {
	Title            string    `json:"Title"`
	Description      string    `json:"Description"`
	PublishedDate    time.Time `json:"PublishedDate"`
	ModificationDate time.Time `json:"ModificationDate"`
	Tags             []string  `json:"Tags"`
	Categories       []string  `json:"Categories"`
	CustomURL        *string   `json:"CustomUrl"`
	IsDraft          bool      `json:"isDraft"`

	Slug       string `json:"-"`
	FolderPath string `json:"-"`
}

// UnmarshalJSON accepts hand-edited dates without a zone or without a time
// of day. Dates are always written back as RFC 3339.
func (m *PostMeta) UnmarshalJSON(data []byte) error {
	type plain PostMeta
	aux := struct {
		*plain
		PublishedDate    metaTime `json:"PublishedDate"`
		ModificationDate metaTime `json:"ModificationDate"`
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.PublishedDate = time.Time(aux.PublishedDate)
	m.ModificationDate = time.Time(aux.ModificationDate)
	return nil
}

// metaTimeLayouts are tried in order. Zone-less values are read as UTC.
var metaTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type metaTime time.Time

func (t *metaTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMetaTime(s)
	if err != nil {
		return err
	}
	*t = metaTime(parsed)
	return nil
}

// ParseMetaTime parses an RFC 3339 timestamp, a zone-less
// "2006-01-02T15:04:05[.fffffff]" timestamp or a bare "2006-01-02" date.
func ParseMetaTime(s string) (time.Time, error) {
	for _, layout := range metaTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// PostRequest carries the fields accepted when creating or updating a post.
// A nil IsDraft publishes on create and keeps the current flag on update.
type PostRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	Categories  []string `json:"categories"`
	CustomURL   *string  `json:"custom_url"`
	IsDraft     *bool    `json:"is_draft"`
}

// SlugSource returns the text the post slug is derived from: the custom URL
// when one is set, the title otherwise.
func (r *PostRequest) SlugSource() string {
	if r.CustomURL != nil && *r.CustomURL != "" {
		return *r.CustomURL
	}
	return r.Title
}

// Draft reports whether the request asks for a draft.
func (r *PostRequest) Draft() bool {
	return r.IsDraft != nil && *r.IsDraft
}

// Post is a post's metadata together with its Markdown body.
type Post struct {
	PostMeta
	Content string
}
