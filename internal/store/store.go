// Package store persists the storefront's named collections (users, products, orders and
// one cart per user) as JSON documents behind a pluggable Backend.
//
// All mutation goes through RecordStore.Update, which serializes read-modify-write cycles
// and commits every collection touched by one operation in a single Backend.Put.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/rs/zerolog"
)

// Accessor loads and saves collections. RecordStore writes through immediately;
// the Accessor handed to an Update callback stages writes until commit.
type Accessor interface {
	Load(ctx context.Context, key Key, dst any) error
	Save(ctx context.Context, key Key, v any) error
}

// RecordStore is the typed front of a Backend.
type RecordStore struct {
	backend Backend
	log     zerolog.Logger
	mu      sync.Mutex
}

// New creates a RecordStore over backend.
func New(backend Backend, log zerolog.Logger) *RecordStore {
	return &RecordStore{backend: backend, log: log}
}

// Load decodes the collection stored under key into dst. A missing or unreadable
// collection leaves dst at its zero value.
func (s *RecordStore) Load(ctx context.Context, key Key, dst any) error {
	data, err := s.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	s.decode(key, data, dst)
	return nil
}

// Save encodes v and writes it under key.
func (s *RecordStore) Save(ctx context.Context, key Key, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Put(ctx, Entry{Key: key, Value: data})
}

// Update runs fn against a staging Accessor and commits its writes atomically when fn
// returns nil. Nothing is written when fn fails. fn must not call back into s directly.
func (s *RecordStore) Update(ctx context.Context, fn func(tx Accessor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &stagedTx{store: s, staged: make(map[Key][]byte)}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.commit(ctx)
}

// Close releases the backend.
func (s *RecordStore) Close() error {
	return s.backend.Close()
}

func (s *RecordStore) decode(key Key, data []byte, dst any) {
	if err := json.Unmarshal(data, dst); err != nil {
		s.log.Warn().Err(err).Str("key", key.String()).Msg("discarding unreadable collection")
		v := reflect.ValueOf(dst)
		if v.Kind() == reflect.Pointer && !v.IsNil() {
			v.Elem().Set(reflect.Zero(v.Elem().Type()))
		}
	}
}

type stagedTx struct {
	store  *RecordStore
	staged map[Key][]byte
	order  []Key
}

func (t *stagedTx) Load(ctx context.Context, key Key, dst any) error {
	if data, ok := t.staged[key]; ok {
		t.store.decode(key, data, dst)
		return nil
	}
	return t.store.Load(ctx, key, dst)
}

func (t *stagedTx) Save(_ context.Context, key Key, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if _, ok := t.staged[key]; !ok {
		t.order = append(t.order, key)
	}
	t.staged[key] = data
	return nil
}

func (t *stagedTx) commit(ctx context.Context) error {
	if len(t.order) == 0 {
		return nil
	}
	entries := make([]Entry, 0, len(t.order))
	for _, k := range t.order {
		entries = append(entries, Entry{Key: k, Value: t.staged[k]})
	}
	if err := t.store.backend.Put(ctx, entries...); err != nil {
		return fmt.Errorf("failed to commit %d collections: %w", len(entries), err)
	}
	return nil
}

// LoadCollection returns the records stored under key, or an empty slice.
func LoadCollection[T any](ctx context.Context, acc Accessor, key Key) ([]T, error) {
	var out []T
	if err := acc.Load(ctx, key, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// SaveCollection replaces the records stored under key.
func SaveCollection[T any](ctx context.Context, acc Accessor, key Key, records []T) error {
	if records == nil {
		records = []T{}
	}
	return acc.Save(ctx, key, records)
}
