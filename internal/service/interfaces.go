package service

import (
	"context"
)

// StreamWriter interface for streaming export data.
type StreamWriter interface {
	Write(data []byte) error
	Flush()
}

// ExportServiceInterface defines the interface for export operations.
// Used for dependency injection and mocking in tests.
type ExportServiceInterface interface {
	// Stream writes every record of resource to writer in format and
	// returns the number of records written.
	Stream(ctx context.Context, resource, format string, writer StreamWriter) (int, error)
}
