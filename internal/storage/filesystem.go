package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/raunak-choudhary/portfolio-admin/internal/config"
)

// filesystem implements System on the local filesystem. Keys map to
// relative file paths under a base directory; public URLs are the key
// appended to a configured base URL.
type filesystem struct {
	basePath string
	baseURL  string
	logger   *slog.Logger
}

// New creates a filesystem storage system rooted at the configured base
// path, creating the directory if needed.
func New(cfg *config.StorageConfig, logger *slog.Logger) (System, error) {
	absPath, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("resolve base_path: %w", err)
	}

	if err := os.MkdirAll(absPath, 0o755); err != nil {
		return nil, fmt.Errorf("create base_path: %w", err)
	}

	return &filesystem{
		basePath: absPath,
		baseURL:  strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		logger:   logger.With("system", "storage"),
	}, nil
}

func (f *filesystem) Put(ctx context.Context, key string, data []byte) (string, error) {
	full, err := f.fullPath(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	// Write-then-rename keeps readers from observing partial objects.
	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, full); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("rename temp file: %w", err)
	}

	return f.baseURL + "/" + path.Clean(key), nil
}

func (f *filesystem) Remove(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		full, err := f.fullPath(key)
		if err != nil {
			return err
		}

		if err := os.Remove(full); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("remove %s: %w", key, err)
		}

		f.cleanupDir(filepath.Dir(full))
	}
	return nil
}

func (f *filesystem) Exists(ctx context.Context, key string) (bool, error) {
	full, err := f.fullPath(key)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", key, err)
	}
	return true, nil
}

func (f *filesystem) KeyFromURL(url string) (string, bool) {
	rest, ok := strings.CutPrefix(url, f.baseURL+"/")
	if !ok || rest == "" {
		return "", false
	}
	return rest, true
}

// cleanupDir removes a directory left empty after object removal.
func (f *filesystem) cleanupDir(dir string) {
	if dir == f.basePath || !strings.HasPrefix(dir, f.basePath) {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}
	if err := os.Remove(dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
		f.logger.Warn("failed to remove empty directory", "dir", dir, "error", err)
	}
}

func (f *filesystem) fullPath(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}

	cleaned := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", ErrInvalidKey
	}

	full := filepath.Join(f.basePath, cleaned)
	if !strings.HasPrefix(full, f.basePath) {
		return "", ErrInvalidKey
	}
	return full, nil
}
