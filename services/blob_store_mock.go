package services

import (
	"context"
	"fmt"
	"sync"
)

// MockBlobStore is a mock implementation of BlobStore for testing
type MockBlobStore struct {
	uploadedFiles map[string][]byte // map of key to file content
	contentTypes  map[string]string
	uploadCalls   int
	failWith      error
	mu            sync.RWMutex
}

// NewMockBlobStore creates a new mock blob store
func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{
		uploadedFiles: make(map[string][]byte),
		contentTypes:  make(map[string]string),
	}
}

// SetAsMockForTesting sets this mock as the global blob store instance for testing
func (m *MockBlobStore) SetAsMockForTesting() {
	SetBlobStore(m)
}

// FailWith makes every following upload return err; nil restores normal behaviour
func (m *MockBlobStore) FailWith(err error) {
	m.mu.Lock()
	m.failWith = err
	m.mu.Unlock()
}

// Upload simulates storing a file
func (m *MockBlobStore) Upload(ctx context.Context, key string, content []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.uploadCalls++
	if m.failWith != nil {
		return "", m.failWith
	}

	stored := make([]byte, len(content))
	copy(stored, content)
	m.uploadedFiles[key] = stored
	m.contentTypes[key] = contentType

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s%s?mock=true", attachmentPrefix, key), nil
}

// UploadCalls returns how many times Upload was called
func (m *MockBlobStore) UploadCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.uploadCalls
}

// GetUploadedFiles returns all uploaded files (for testing assertions)
func (m *MockBlobStore) GetUploadedFiles() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Return a copy to prevent race conditions
	files := make(map[string][]byte, len(m.uploadedFiles))
	for k, v := range m.uploadedFiles {
		files[k] = v
	}
	return files
}

// ContentType returns the content type a key was uploaded with
func (m *MockBlobStore) ContentType(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.contentTypes[key]
}

// Clear removes all files from mock storage
func (m *MockBlobStore) Clear() {
	m.mu.Lock()
	m.uploadedFiles = make(map[string][]byte)
	m.contentTypes = make(map[string]string)
	m.uploadCalls = 0
	m.mu.Unlock()
}
