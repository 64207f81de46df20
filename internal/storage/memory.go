package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// Memory keeps objects in process memory.
type Memory struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]memoryObject
}

type memoryObject struct {
	body        []byte
	contentType string
}

// NewMemory returns an empty in-memory store.
func NewMemory(baseURL string) *Memory {
	if baseURL == "" {
		baseURL = "memory://storage"
	}
	return &Memory{baseURL: baseURL, objects: make(map[string]memoryObject)}
}

// Upload stores body under bucket/key.
func (m *Memory) Upload(_ context.Context, bucket, key string, body io.Reader, _ int64, contentType string) (Object, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, body)
	if err != nil {
		return Object{}, err
	}
	m.mu.Lock()
	m.objects[bucket+"/"+key] = memoryObject{body: buf.Bytes(), contentType: contentType}
	m.mu.Unlock()
	return Object{Bucket: bucket, Key: key, URL: m.PublicURL(bucket, key), ContentType: contentType, Size: n}, nil
}

// Delete removes bucket/key.
func (m *Memory) Delete(_ context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[bucket+"/"+key]; !ok {
		return ErrNotFound
	}
	delete(m.objects, bucket+"/"+key)
	return nil
}

// PublicURL resolves the public address of bucket/key.
func (m *Memory) PublicURL(bucket, key string) string {
	return joinURL(m.baseURL, bucket, key)
}

// Has reports whether bucket/key is stored.
func (m *Memory) Has(bucket, key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[bucket+"/"+key]
	return ok
}

// Len returns the number of stored objects.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
