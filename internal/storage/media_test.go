package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// Smallest valid GIF89a image.
var tinyGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00,
	0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x21, 0xf9, 0x04, 0x01, 0x00, 0x00, 0x00,
	0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02,
	0x44, 0x01, 0x00, 0x3b,
}

func newUploader(t *testing.T, max int64) (*Uploader, *LocalStore) {
	t.Helper()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return NewUploader(store, max, "/uploads/"), store
}

func TestSaveStoresImage(t *testing.T) {
	u, store := newUploader(t, 1024)

	media, err := u.Save(context.Background(), bytes.NewReader(tinyGIF))
	require.NoError(t, err)
	require.Equal(t, "image/gif", media.ContentType)
	require.Equal(t, MediaImage, media.Kind)
	require.Equal(t, "/uploads/"+media.Name, media.URL)

	rc, info, err := store.Open(context.Background(), media.Name)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, tinyGIF, data)
	require.Equal(t, int64(len(tinyGIF)), info.Size)
	require.Equal(t, "image/gif", info.ContentType)
}

func TestSaveRejectsUnsupportedType(t *testing.T) {
	u, _ := newUploader(t, 1024)
	_, err := u.Save(context.Background(), bytes.NewReader([]byte("#!/bin/sh\necho hi\n")))
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	u, _ := newUploader(t, 10)
	_, err := u.Save(context.Background(), bytes.NewReader(tinyGIF))
	require.ErrorIs(t, err, ErrFileTooLarge)
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	_, store := newUploader(t, 1024)
	for _, name := range []string{"", "../secret", "a/b.png", ".hidden"} {
		_, _, err := store.Open(context.Background(), name)
		require.ErrorIs(t, err, ErrInvalidName, name)
	}
	_, _, err := store.Open(context.Background(), "missing.png")
	require.ErrorIs(t, err, ErrNotFound)
}
