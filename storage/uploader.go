package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	ErrInvalidR2Config = errors.New("invalid Cloudflare R2 configuration: all fields are required")
	ErrInvalidKey      = errors.New("object key must be a relative path without '..'")
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader публикует экспортированные файлы.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// ObjectKey joins a prefix and a file name into a clean slash-separated key.
func ObjectKey(prefix, name string) string {
	return strings.TrimPrefix(path.Join("/", prefix, name), "/")
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}
