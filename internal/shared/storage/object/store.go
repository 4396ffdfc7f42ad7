package object

import (
	"context"
	"errors"
)

// Backend defines the contract shared by every storage medium. Keys are
// slash-separated paths produced by KeyGenerator.
type Backend interface {
	// Put writes body at key, creating any implied folders and overwriting
	// an existing object.
	Put(ctx context.Context, key string, body []byte, contentType string) error
	// Get returns the full object content or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes the object. A missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Exists reports whether an object is stored at key.
	Exists(ctx context.Context, key string) (bool, error)
}

var (
	// ErrNotFound indicates no object is stored at the key.
	ErrNotFound = errors.New("object not found")
	// ErrInvalidKey indicates an empty key or one that escapes the namespace.
	ErrInvalidKey = errors.New("invalid storage key")
	// ErrUnavailable indicates the backend cannot serve requests.
	ErrUnavailable = errors.New("storage unavailable")
)
