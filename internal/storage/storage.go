// Package storage keeps uploaded user images outside the document store.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

var (
	ErrImageNotFound = errors.New("image not found")
	ErrInvalidName   = errors.New("invalid image name")
)

// ImageStore saves, serves and removes image blobs by name.
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Remove(ctx context.Context, name string) error
	Close() error
}

// ValidName rejects empty names and anything that could escape the store's
// directory.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..")
}
