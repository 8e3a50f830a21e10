package filestore

import (
	"context"
	"errors"
	"io"
)

// Key prefixes for stored attachments.
const (
	PrefixPhotos    = "photos"
	PrefixPlans     = "plans"
	PrefixProposals = "proposals"
)

var ErrNotFound = errors.New("file not found")

// Store persists uploaded media and generated documents under prefix/name keys.
type Store interface {
	Save(ctx context.Context, prefix, ext string, r io.Reader) (key string, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}
