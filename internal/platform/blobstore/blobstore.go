// Package blobstore archives rendered documents. It defines the Store
// contract with an in-memory backend for development and tests and an S3
// backend for deployments.
package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

var (
	ErrBlobNotFound    = errors.New("blob not found")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrMissingKey      = errors.New("blob key is required")
	ErrInvalidMimeType = errors.New("content type is not allowed")
)

// MaxFileSize is the largest document accepted (20 MB).
const MaxFileSize = 20 * 1024 * 1024

// AllowedContentTypes lists what the ward archives.
var AllowedContentTypes = map[string]bool{
	"application/pdf":  true,
	"application/json": true,
}

// Metadata describes an archived document. Key is the storage path and is
// stable: archiving the same key again replaces the content.
type Metadata struct {
	Key         string    `json:"key"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Hash        string    `json:"hash"`
	PatientID   string    `json:"patient_id,omitempty"`
	AdmissionID string    `json:"admission_id,omitempty"`
	Backend     string    `json:"backend"`
	CreatedAt   time.Time `json:"created_at"`
}

type Store interface {
	Put(ctx context.Context, meta Metadata, content io.Reader) (*Metadata, error)
	Get(ctx context.Context, key string) (io.ReadCloser, *Metadata, error)
}

// DischargeSummaryKey is where an admission's summary PDF is archived.
func DischargeSummaryKey(phn, admissionID string) string {
	return fmt.Sprintf("discharge-summaries/%s/%s.pdf", phn, admissionID)
}

// readAndHash validates meta and buffers content, filling Size and Hash.
func readAndHash(meta *Metadata, content io.Reader) ([]byte, error) {
	if meta.Key == "" {
		return nil, ErrMissingKey
	}
	if !AllowedContentTypes[meta.ContentType] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMimeType, meta.ContentType)
	}
	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	meta.Size = int64(len(data))
	meta.Hash = fmt.Sprintf("%x", sha256.Sum256(data))
	return data, nil
}

type storedBlob struct {
	metadata Metadata
	content  []byte
}

// InMemoryStore is a thread-safe Store for development and tests.
type InMemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]*storedBlob
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{blobs: make(map[string]*storedBlob)}
}

func (s *InMemoryStore) Put(_ context.Context, meta Metadata, content io.Reader) (*Metadata, error) {
	data, err := readAndHash(&meta, content)
	if err != nil {
		return nil, err
	}
	meta.Backend = "memory"
	meta.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	s.blobs[meta.Key] = &storedBlob{metadata: meta, content: data}
	s.mu.Unlock()

	out := meta
	return &out, nil
}

func (s *InMemoryStore) Get(_ context.Context, key string) (io.ReadCloser, *Metadata, error) {
	s.mu.RLock()
	blob, ok := s.blobs[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, ErrBlobNotFound
	}
	meta := blob.metadata
	return io.NopCloser(bytes.NewReader(blob.content)), &meta, nil
}

// Len reports how many documents are stored.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
