// Package storage keeps uploaded artwork files either on local disk or in a
// MinIO/S3 bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"thangka-gallery/config"

	"github.com/google/uuid"
)

type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Default is the store used by the HTTP handlers; set in main.
var Default Store

func New(cfg config.Config) (Store, error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "", "local":
		return NewLocal(cfg.Storage.MediaDir, cfg.Storage.MediaURL)
	case "minio":
		return NewMinIO(cfg.MinIO)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// NewKey builds an object key under prefix that keeps the file extension.
// Example: ("artworks", "Tara.JPG") -> "artworks/5f0c...e1.jpg"
func NewKey(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(prefix, uuid.NewString()+ext)
}

// DeleteAll removes keys best effort and returns the first error.
func DeleteAll(ctx context.Context, s Store, keys []string) error {
	var first error
	for _, k := range keys {
		if k == "" {
			continue
		}
		if err := s.Delete(ctx, k); err != nil && first == nil {
			first = err
		}
	}
	return first
}
