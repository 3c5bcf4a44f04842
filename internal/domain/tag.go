package domain

// Tag is persisted as tags/{slug}.json.
type Tag struct {
	Name string `json:"Name"`
	Slug string `json:"Slug"`
}

// CreateTagRequest is the input for creating a tag.
type CreateTagRequest struct {
	Name string `json:"name"`
}

// UpdateTagRequest renames a tag.
type UpdateTagRequest struct {
	NewName string `json:"new_name"`
}
