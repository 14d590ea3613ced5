package report

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile saves a rendered report into dir under f.Filename(sessionID)
// and returns the path written.
func WriteFile(dir, sessionID string, f Format, body []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, f.Filename(sessionID))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
