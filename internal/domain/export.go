package domain

// Export resources and formats.
const (
	ExportPosts      = "posts"
	ExportCategories = "categories"
	ExportTags       = "tags"
	ExportUsers      = "users"

	FormatNDJSON = "ndjson"
	FormatCSV    = "csv"
)

// ExportRequest selects what GET /api/export streams.
type ExportRequest struct {
	Resource string `form:"resource" json:"resource"`
	Format   string `form:"format" json:"format"`
}
