package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	cfg "github.com/templui/profiledesk/internal/config"
)

var (
	ErrNotFound   = errors.New("object not found")
	ErrExists     = errors.New("object already exists")
	ErrInvalidRef = errors.New("invalid object reference")
)

// Storage defines the interface for file storage operations.
// Paths are slash separated keys relative to the storage root.
type Storage interface {
	// Save stores data at path and fails with ErrExists if the path is taken.
	// On error nothing is left behind at path.
	Save(ctx context.Context, path string, data []byte) error

	// Read returns the stored bytes, or ErrNotFound.
	Read(ctx context.Context, path string) ([]byte, error)

	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes path. A missing path is not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for accessing the file
	URL(path string) string
}

// New creates the storage backend selected by STORAGE_DRIVER.
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case "s3":
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		s, err := NewS3Storage(context.Background(), S3Config{
			Region:              c.S3Region,
			Bucket:              c.S3Bucket,
			AccessKey:           c.S3AccessKey,
			SecretKey:           c.S3SecretKey,
			Endpoint:            c.S3Endpoint,
			PresignExpiryPublic: c.S3PresignExpiryPublic,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case "local", "":
		slog.Info("initializing local storage", "path", c.UploadsPath)
		s, err := NewLocalStorage(c.UploadsPath, "/uploads", ProfileFolder, CertificateFolder)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", c.StorageDriver)
	}
}

// cleanKey rejects keys that are absolute or climb out of the root.
func cleanKey(p string) (string, error) {
	if p == "" || strings.Contains(p, "\\") || strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidRef, p)
	}
	cleaned := path.Clean(p)
	if cleaned != p || cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidRef, p)
	}
	return cleaned, nil
}
