package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalGateway serves workbooks from the filesystem. It exists for
// development and tests; lock semantics are emulated through a
// "<file>.lock" sentinel and the "~$<file>" owner files Excel leaves
// next to an open workbook.
type LocalGateway struct {
	root string
}

// NewLocalGateway builds a gateway rooted at dir.
func NewLocalGateway(dir string) *LocalGateway {
	return &LocalGateway{root: dir}
}

// Download reads the whole file.
func (g *LocalGateway) Download(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(g.abs(path))
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", path, err)
	}
	return data, nil
}

// Upload replaces the whole file atomically (temp file + rename).
func (g *LocalGateway) Upload(_ context.Context, path string, data []byte, overwrite bool) error {
	target := g.abs(path)

	if g.isLocked(path) {
		return fmt.Errorf("%w: %s", ErrLocked, path)
	}
	if !overwrite {
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("uploading %s: file already exists and overwrite is false", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("uploading %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return fmt.Errorf("uploading %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("uploading %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("uploading %s: %w", path, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("uploading %s: %w", path, err)
	}

	return nil
}

func (g *LocalGateway) abs(path string) string {
	return filepath.Join(g.root, filepath.FromSlash(path))
}

func (g *LocalGateway) isLocked(path string) bool {
	if _, err := os.Stat(g.abs(path) + ".lock"); err == nil {
		return true
	}
	dir, name := filepath.Split(g.abs(path))
	if _, err := os.Stat(filepath.Join(dir, "~$"+name)); err == nil {
		return true
	}
	return false
}
