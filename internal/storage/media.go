package storage

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Allowed upload types, detected from content rather than the client's header.
var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"video/mp4":       true,
	"video/webm":      true,
	"video/quicktime": true,
}

// MediaKind is the coarse class of an uploaded file.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Media is a stored upload.
type Media struct {
	Name        string
	URL         string
	ContentType string
	Kind        MediaKind
	Size        int64
}

// Uploader validates uploads and writes them to a Store.
type Uploader struct {
	store    Store
	maxBytes int64
	urlBase  string
}

// NewUploader serves stored names under urlBase (for example "/uploads").
func NewUploader(store Store, maxBytes int64, urlBase string) *Uploader {
	return &Uploader{store: store, maxBytes: maxBytes, urlBase: strings.TrimSuffix(urlBase, "/")}
}

// MaxBytes is the per-file size limit.
func (u *Uploader) MaxBytes() int64 {
	return u.maxBytes
}

// Save sniffs, validates and stores r under a fresh random name.
func (u *Uploader) Save(ctx context.Context, r io.Reader) (*Media, error) {
	data, err := io.ReadAll(io.LimitReader(r, u.maxBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "read upload")
	}
	if int64(len(data)) > u.maxBytes {
		return nil, ErrFileTooLarge
	}

	mt := mimetype.Detect(data)
	contentType := baseType(mt.String())
	if !allowedTypes[contentType] {
		return nil, ErrUnsupportedType
	}

	name := uuid.New().String() + mt.Extension()
	if err := u.store.Put(ctx, name, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, err
	}

	kind := MediaImage
	if strings.HasPrefix(contentType, "video/") {
		kind = MediaVideo
	}
	return &Media{
		Name:        name,
		URL:         u.urlBase + "/" + name,
		ContentType: contentType,
		Kind:        kind,
		Size:        int64(len(data)),
	}, nil
}

func baseType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.TrimSpace(contentType)
}
