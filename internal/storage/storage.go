// Package storage uploads provider and content images to named buckets and
// resolves their public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/funerarias/internal/config"
)

// ErrNotFound indicates the object does not exist.
var ErrNotFound = errors.New("object not found")

// Upload errors reported by Upload.CheckImage.
var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("file too large")
)

// Upload is a file received from a client before it is stored.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// CheckImage verifies the upload is an accepted image no larger than maxSize.
// A zero maxSize disables the size check.
func (u *Upload) CheckImage(maxSize int64) error {
	if !AllowedImage(u.ContentType) {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, u.ContentType)
	}
	if maxSize > 0 && u.Size > maxSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, u.Size, maxSize)
	}
	return nil
}

// Put stores u under a fresh key below prefix.
func Put(ctx context.Context, store Store, bucket, prefix string, u *Upload) (Object, error) {
	return store.Upload(ctx, bucket, ObjectKey(prefix, u.Filename), u.Body, u.Size, u.ContentType)
}

// Object describes a stored file.
type Object struct {
	Bucket      string `json:"bucket"`
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Store is the object storage abstraction.
type Store interface {
	Upload(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) (Object, error)
	Delete(ctx context.Context, bucket, key string) error
	PublicURL(bucket, key string) string
}

// Module provides the configured Store to Fx.
var Module = fx.Provide(NewStore)

// NewStore initialises the configured storage backend (s3 or memory).
func NewStore(cfg config.Config, logger *zap.Logger) (Store, error) {
	switch cfg.Storage.Driver {
	case "memory":
		if logger != nil {
			logger.Info("object storage in memory; uploads are not persisted")
		}
		return NewMemory(cfg.Storage.PublicBaseURL), nil
	case "s3":
		return NewS3(context.Background(), cfg.Storage)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}

// ObjectKey builds a unique key under prefix keeping the extension of filename.
func ObjectKey(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	name := uuid.NewString() + ext
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// AllowedImage reports whether contentType is an accepted image type.
func AllowedImage(contentType string) bool {
	switch strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])) {
	case "image/jpeg", "image/png", "image/webp", "image/gif":
		return true
	}
	return false
}

func joinURL(base, bucket, key string) string {
	return strings.TrimRight(base, "/") + "/" + bucket + "/" + strings.TrimLeft(key, "/")
}
