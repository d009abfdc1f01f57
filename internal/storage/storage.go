package storage

import (
	"context"
	"errors"
	"io"
)

// BlobStorage stores product images and other uploaded binaries. Upload
// returns the public URL the stored blob is served from.
type BlobStorage interface {
	Upload(ctx context.Context, path string, r io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
}

var (
	ErrBlobNotFound   = errors.New("blob not found")
	ErrInvalidPath    = errors.New("invalid blob path")
	ErrStorageBlocked = errors.New("storage temporarily unavailable")
)
