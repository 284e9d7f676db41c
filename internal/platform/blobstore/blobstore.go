package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("blob not found")
	ErrTooLarge    = errors.New("blob exceeds maximum size")
	ErrEmptyUpload = errors.New("empty upload")
)

// MaxFileSize caps uploaded report and record files.
const MaxFileSize = 10 << 20 // 10 MB

// Blob describes a stored file.
type Blob struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store persists uploaded files and serves them back by ID.
type Store interface {
	Put(ctx context.Context, name, contentType string, r io.Reader) (*Blob, error)
	Get(ctx context.Context, id uuid.UUID) (*Blob, io.ReadCloser, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// InMemoryStore keeps blobs in process memory. Suitable for development and
// tests; swap for an object-storage backed implementation in production.
type InMemoryStore struct {
	mu    sync.RWMutex
	blobs map[uuid.UUID]*Blob
	data  map[uuid.UUID][]byte
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		blobs: make(map[uuid.UUID]*Blob),
		data:  make(map[uuid.UUID][]byte),
	}
}

func (s *InMemoryStore) Put(ctx context.Context, name, contentType string, r io.Reader) (*Blob, error) {
	// Read one byte past the cap to detect oversized uploads.
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}
	if len(data) > MaxFileSize {
		return nil, ErrTooLarge
	}

	blob := &Blob{
		ID:          uuid.New(),
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	s.blobs[blob.ID] = blob
	s.data[blob.ID] = data
	s.mu.Unlock()

	return blob, nil
}

func (s *InMemoryStore) Get(ctx context.Context, id uuid.UUID) (*Blob, io.ReadCloser, error) {
	s.mu.RLock()
	blob, ok := s.blobs[id]
	data := s.data[id]
	s.mu.RUnlock()

	if !ok {
		return nil, nil, ErrNotFound
	}
	return blob, io.NopCloser(bytes.NewReader(data)), nil
}

func (s *InMemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[id]; !ok {
		return ErrNotFound
	}
	delete(s.blobs, id)
	delete(s.data, id)
	return nil
}
