package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DiskBackend keeps uploads on the local filesystem; the HTTP layer serves Dir under
// the /uploads prefix. Meant for development.
type DiskBackend struct {
	Dir     string
	BaseURL string
}

func NewDiskBackend(dir, baseURL string) *DiskBackend {
	return &DiskBackend{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (d *DiskBackend) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	full := filepath.Join(d.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("disk mkdir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("disk write: %w", err)
	}
	return d.BaseURL + "/uploads/" + key, nil
}
