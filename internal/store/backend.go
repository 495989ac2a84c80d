package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Backend.Get when nothing has been stored under a key.
var ErrNotFound = errors.New("record not found")

// Entry is a single serialized collection to write.
type Entry struct {
	Key   Key
	Value []byte
}

// Backend persists serialized collections by key.
type Backend interface {
	// Get returns the stored bytes for key, or ErrNotFound.
	Get(ctx context.Context, key Key) ([]byte, error)
	// Put writes all entries or none of them.
	Put(ctx context.Context, entries ...Entry) error
	Close() error
}
