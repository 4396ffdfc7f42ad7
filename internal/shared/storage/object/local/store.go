package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"jobboard-backend/internal/shared/storage/object"
	"jobboard-backend/internal/shared/telemetry"
)

// Store implements object.Backend on the local filesystem.
type Store struct {
	root string
}

// New creates a local store rooted at baseDir, creating the directory if absent.
func New(baseDir string) (*Store, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, errors.New("local store: base directory is required")
	}
	root, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("local store: resolve base directory: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("local store: create base directory: %w", err)
	}
	return &Store{root: filepath.Clean(root)}, nil
}

// Put writes body at key, creating intermediate folders.
func (s *Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("local put key=%s: mkdir: %w", key, stripPath(err))
	}
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("local put key=%s: open file: %w", key, stripPath(err))
	}
	if _, err := f.Write(body); err != nil {
		_ = f.Close()
		return fmt.Errorf("local put key=%s: write body: %w", key, stripPath(err))
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("local put key=%s: close: %w", key, stripPath(err))
	}
	_ = contentType
	return nil
}

// Get reads the object stored at key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("local get key=%s: %w", key, object.ErrNotFound)
		}
		return nil, fmt.Errorf("local get key=%s: %w", key, stripPath(err))
	}
	return data, nil
}

// Delete removes the object at key. Missing files and filesystem failures are
// logged and treated as success; only an invalid key is returned.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			telemetry.Info("storage.delete_missing", map[string]any{
				"backend": "local",
				"key":     key,
			})
			return nil
		}
		telemetry.Warn("storage.delete_failed", map[string]any{
			"backend": "local",
			"key":     key,
			"error":   stripPath(err),
		})
	}
	return nil
}

// Exists reports whether a regular file is stored at key.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fullPath, err := s.resolve(key)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("local stat key=%s: %w", key, stripPath(err))
	}
	return info.Mode().IsRegular(), nil
}

// resolve maps key to an absolute path and verifies it stays under the root.
func (s *Store) resolve(key string) (string, error) {
	if err := object.ValidateKey(key); err != nil {
		return "", err
	}
	clean := filepath.Clean(filepath.FromSlash(strings.ReplaceAll(key, "\\", "/")))
	if filepath.IsAbs(clean) || filepath.VolumeName(clean) != "" {
		return "", fmt.Errorf("%w: absolute key", object.ErrInvalidKey)
	}
	fullPath := filepath.Join(s.root, clean)
	rel, err := filepath.Rel(s.root, fullPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: key escapes storage root", object.ErrInvalidKey)
	}
	return fullPath, nil
}

// stripPath drops the absolute filesystem path from *fs.PathError so callers
// never see the storage root.
func stripPath(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%s: %w", pathErr.Op, pathErr.Err)
	}
	return err
}

var _ object.Backend = (*Store)(nil)
