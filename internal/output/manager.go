// Package output organizes per-run artifact directories.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Manager hands out one directory per run under a base directory.
type Manager struct {
	BaseDir string
}

// NewManager creates a manager rooted at baseDir.
func NewManager(baseDir string) *Manager {
	return &Manager{BaseDir: baseDir}
}

// RunDir creates and returns <base>/<runID>.
func (m *Manager) RunDir(runID string) (string, error) {
	if m.BaseDir == "" {
		return "", fmt.Errorf("no output directory configured")
	}
	dir := filepath.Join(m.BaseDir, filepath.Base(runID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create run output directory: %w", err)
	}
	return dir, nil
}

// FileType determines the artifact type from its extension.
func FileType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	case ".parquet":
		return "parquet"
	case ".png", ".svg":
		return "chart"
	default:
		return "unknown"
	}
}
