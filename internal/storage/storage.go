package storage

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

var (
	ErrNotFound        = errors.New("file not found")
	ErrInvalidName     = errors.New("invalid file name")
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// ObjectInfo describes a stored file.
type ObjectInfo struct {
	Name        string
	ContentType string
	Size        int64
}

// Store persists uploaded media under flat object names.
type Store interface {
	Put(ctx context.Context, name, contentType string, r io.Reader, size int64) error
	Open(ctx context.Context, name string) (io.ReadCloser, ObjectInfo, error)
}
