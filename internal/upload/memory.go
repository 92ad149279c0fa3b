package upload

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// File is an image held by MemoryUploader.
type File struct {
	ContentType string
	Data        []byte
}

// MemoryUploader keeps uploads in process memory. It backs local
// development when no Cloudinary account is configured.
type MemoryUploader struct {
	mu      sync.RWMutex
	files   map[string]File
	baseURL string
}

// NewMemoryUploader creates an uploader whose URLs are rooted at baseURL.
func NewMemoryUploader(baseURL string) *MemoryUploader {
	return &MemoryUploader{
		files:   make(map[string]File),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload stores the file and returns <baseURL>/uploads/<key>.
func (m *MemoryUploader) Upload(_ context.Context, name, contentType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxFileSize {
		return "", fmt.Errorf("upload exceeds %d bytes", MaxFileSize)
	}

	key := uuid.NewString() + strings.ToLower(path.Ext(name))

	m.mu.Lock()
	m.files[key] = File{ContentType: contentType, Data: data}
	m.mu.Unlock()

	return m.baseURL + "/uploads/" + key, nil
}

// Get returns a stored file by key.
func (m *MemoryUploader) Get(key string) (File, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[key]
	return f, ok
}
