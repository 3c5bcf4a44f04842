package repository

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/ba5maa/FileBlogSystem/internal/logger"
)

// readRecord decodes the JSON file at path into a T. A missing file is not an
// error: found is false. Malformed content is logged and also reported as not
// found, so callers cannot tell the two apart. Field names match
// case-insensitively.
func readRecord[T any](path string) (T, bool) {
	var rec T

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Record file not found", slog.String("path", path))
		} else {
			logger.Error("Failed to read record file",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
		return rec, false
	}

	if err := json.Unmarshal(data, &rec); err != nil {
		logger.Error("Failed to decode record file",
			slog.String("path", path),
			slog.String("error", err.Error()))
		var zero T
		return zero, false
	}
	return rec, true
}

// writeRecord replaces the file at path with v encoded as indented JSON.
func writeRecord(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, filePerm)
}
