// Package storage provides the object storage interface and a local
// filesystem implementation used for uploaded avatar and product images.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Storage defines the interface for object storage operations.
type Storage interface {
	// Upload writes data from reader to the given path.
	Upload(ctx context.Context, path string, reader io.Reader) error

	// Delete removes the object at the given path.
	// Returns nil if the object does not exist.
	Delete(ctx context.Context, path string) error

	// Exists checks whether an object exists at the given path.
	Exists(ctx context.Context, path string) (bool, error)

	// URL returns the public URL path for accessing the object.
	URL(ctx context.Context, path string) (string, error)
}

// Config holds storage configuration.
type Config struct {
	// BasePath is the root directory for stored files.
	BasePath string `mapstructure:"base_path"`

	// PublicPrefix is the URL path prefix under which files are served.
	PublicPrefix string `mapstructure:"public_prefix"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.BasePath == "" {
		c.BasePath = "./static"
	}
	if c.PublicPrefix == "" {
		c.PublicPrefix = "/static"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("storage base_path is required")
	}
	return nil
}

// Local implements Storage using the local filesystem. Paths are resolved
// under the configured base directory; traversal outside it is rejected.
type Local struct {
	basePath     string
	publicPrefix string
}

// NewLocal creates a local filesystem storage rooted at cfg.BasePath,
// creating the directory if needed.
func NewLocal(cfg Config) (*Local, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve base path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("storage: create base directory: %w", err)
	}
	return &Local{basePath: abs, publicPrefix: strings.TrimSuffix(cfg.PublicPrefix, "/")}, nil
}

// BasePath returns the absolute root directory for stored files.
func (s *Local) BasePath() string { return s.basePath }

func (s *Local) resolve(path string) (string, error) {
	full := filepath.Join(s.basePath, filepath.Clean("/"+path))
	if !strings.HasPrefix(full, s.basePath+string(filepath.Separator)) && full != s.basePath {
		return "", fmt.Errorf("storage: path escapes base directory: %s", path)
	}
	return full, nil
}

// Upload writes data from reader to a local file.
func (s *Local) Upload(_ context.Context, path string, reader io.Reader) error {
	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return fmt.Errorf("storage: create directory: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("storage: create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		return fmt.Errorf("storage: write file: %w", err)
	}
	return nil
}

// Delete removes a local file. Returns nil if the file does not exist.
func (s *Local) Delete(_ context.Context, path string) error {
	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete file: %w", err)
	}
	return nil
}

// Exists checks whether a local file exists.
func (s *Local) Exists(_ context.Context, path string) (bool, error) {
	fullPath, err := s.resolve(path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("storage: stat file: %w", err)
	}
	return true, nil
}

// URL returns the public URL path under which the file is served.
func (s *Local) URL(_ context.Context, path string) (string, error) {
	u := &url.URL{Path: s.publicPrefix + "/" + strings.TrimPrefix(filepath.ToSlash(path), "/")}
	return u.String(), nil
}
