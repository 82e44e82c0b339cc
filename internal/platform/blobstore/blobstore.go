// Package blobstore stores uploaded attachments: care document scans,
// prescriptions, lab results and profile pictures. It defines the BlobStore
// interface, an in-memory implementation for development and tests, a
// MinIO-backed implementation, and Echo handlers under /api/attachments.
package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("attachment not found")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("content type is not allowed")
	ErrMissingFileName    = errors.New("file name is required")
	ErrMissingProfile     = errors.New("care profile ID is required")
)

// MaxFileSize is the maximum allowed attachment size in bytes (10 MB).
const MaxFileSize = 10 * 1024 * 1024

// AllowedCategories lists valid attachment category values.
var AllowedCategories = map[string]bool{
	"profile_picture":  true,
	"medical_document": true,
	"prescription":     true,
	"lab_result":       true,
	"other":            true,
}

// AllowedContentTypes limits uploads to images, PDFs and plain text.
var AllowedContentTypes = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
	"text/plain":      true,
}

// BlobMetadata describes a stored attachment.
type BlobMetadata struct {
	ID            string    `json:"id"`
	FileName      string    `json:"file_name"`
	ContentType   string    `json:"content_type"`
	Size          int64     `json:"size"`
	CareProfileID string    `json:"care_profile_id"`
	Category      string    `json:"category"`
	Hash          string    `json:"hash"`
	UploadedBy    string    `json:"uploaded_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// BlobStore is the contract attachment backends implement.
type BlobStore interface {
	Upload(ctx context.Context, meta BlobMetadata, content io.Reader) (*BlobMetadata, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *BlobMetadata, error)
	GetMetadata(ctx context.Context, id string) (*BlobMetadata, error)
	Delete(ctx context.Context, id string) error
	// ListByCareProfile returns a profile's attachments, newest first,
	// optionally filtered by category.
	ListByCareProfile(ctx context.Context, careProfileID, category string) ([]*BlobMetadata, error)
}

// validateAndRead enforces the upload constraints shared by every backend:
// required fields, the content-type allowlist and the size cap. It returns
// the content and fills in the generated fields of meta.
func validateAndRead(meta *BlobMetadata, content io.Reader) ([]byte, error) {
	if meta.FileName == "" {
		return nil, ErrMissingFileName
	}
	if meta.CareProfileID == "" {
		return nil, ErrMissingProfile
	}
	if !AllowedContentTypes[meta.ContentType] {
		return nil, ErrInvalidContentType
	}
	if meta.Category == "" || !AllowedCategories[meta.Category] {
		meta.Category = "other"
	}

	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	h := sha256.Sum256(data)
	meta.ID = uuid.New().String()
	meta.Size = int64(len(data))
	meta.Hash = fmt.Sprintf("%x", h)
	meta.CreatedAt = time.Now().UTC()
	return data, nil
}

type storedBlob struct {
	metadata BlobMetadata
	content  []byte
}

// InMemoryBlobStore is a thread-safe, in-memory BlobStore for development
// and tests.
type InMemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string]*storedBlob
}

func NewInMemoryBlobStore() *InMemoryBlobStore {
	return &InMemoryBlobStore{blobs: make(map[string]*storedBlob)}
}

func (s *InMemoryBlobStore) Upload(_ context.Context, meta BlobMetadata, content io.Reader) (*BlobMetadata, error) {
	data, err := validateAndRead(&meta, content)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.blobs[meta.ID] = &storedBlob{metadata: meta, content: data}
	s.mu.Unlock()

	out := meta
	return &out, nil
}

func (s *InMemoryBlobStore) Download(_ context.Context, id string) (io.ReadCloser, *BlobMetadata, error) {
	s.mu.RLock()
	blob, ok := s.blobs[id]
	s.mu.RUnlock()

	if !ok {
		return nil, nil, ErrNotFound
	}
	meta := blob.metadata
	return io.NopCloser(bytes.NewReader(blob.content)), &meta, nil
}

func (s *InMemoryBlobStore) GetMetadata(_ context.Context, id string) (*BlobMetadata, error) {
	s.mu.RLock()
	blob, ok := s.blobs[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	meta := blob.metadata
	return &meta, nil
}

func (s *InMemoryBlobStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[id]; !ok {
		return ErrNotFound
	}
	delete(s.blobs, id)
	return nil
}

func (s *InMemoryBlobStore) ListByCareProfile(_ context.Context, careProfileID, category string) ([]*BlobMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []*BlobMetadata{}
	for _, b := range s.blobs {
		if b.metadata.CareProfileID != careProfileID {
			continue
		}
		if category != "" && b.metadata.Category != category {
			continue
		}
		m := b.metadata
		matched = append(matched, &m)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return matched, nil
}
