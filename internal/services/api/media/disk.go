package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// URLPrefix is where the API serves disk-backed images.
const URLPrefix = "/media/"

// Disk stores images under a local directory.
type Disk struct {
	dir     string
	baseURL string
}

// NewDisk stores files under dir; URLs are baseURL + URLPrefix + key.
func NewDisk(dir string, baseURL string) (*Disk, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("media dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &Disk{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the root directory, for serving.
func (d *Disk) Dir() string {
	return d.dir
}

// Save writes obj to disk.
func (d *Disk) Save(ctx context.Context, obj Object) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := path.Join(obj.Folder, obj.PublicID+obj.Extension)
	target := filepath.Join(d.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create media folder: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	written, copyErr := io.Copy(tmp, obj.Body)
	closeErr := tmp.Close()
	if copyErr == nil && written > MaxBytes {
		copyErr = ErrTooLarge
	}
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmp.Name())
		if copyErr != nil {
			return "", fmt.Errorf("write image: %w", copyErr)
		}
		return "", fmt.Errorf("close image: %w", closeErr)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("store image: %w", err)
	}
	return d.baseURL + URLPrefix + key, nil
}

var _ Backend = (*Disk)(nil)
