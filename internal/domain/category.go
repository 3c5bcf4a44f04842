package domain

// Category is persisted as categories/{slug}.json.
type Category struct {
	Name        string  `json:"Name"`
	Slug        string  `json:"Slug"`
	Description *string `json:"Description"`
}

// CreateCategoryRequest is the input for creating a category.
type CreateCategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UpdateCategoryRequest renames a category and replaces its description.
type UpdateCategoryRequest struct {
	NewName     string  `json:"new_name"`
	Description *string `json:"description"`
}
