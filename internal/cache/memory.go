package cache

import (
	"context"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoryEntries bounds a Memory store built by NewMemory.
const DefaultMemoryEntries = 4096

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// Memory is a process-local Store with per-key expiry. Once full, the least
// recently used entry is evicted.
type Memory struct {
	entries    *lru.Cache[string, memoryEntry]
	defaultTTL time.Duration
	now        func() time.Time
}

// NewMemory returns an empty in-process cache holding DefaultMemoryEntries keys.
func NewMemory(defaultTTL time.Duration) *Memory {
	return NewMemorySize(defaultTTL, DefaultMemoryEntries)
}

// NewMemorySize returns an empty in-process cache holding at most size keys.
func NewMemorySize(defaultTTL time.Duration, size int) *Memory {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	if size <= 0 {
		size = DefaultMemoryEntries
	}
	entries, _ := lru.New[string, memoryEntry](size)
	return &Memory{entries: entries, defaultTTL: defaultTTL, now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := m.entries.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	if m.now().After(e.expires) {
		m.entries.Remove(key)
		return nil, ErrCacheMiss
	}
	return append([]byte(nil), e.value...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	m.entries.Add(key, memoryEntry{value: append([]byte(nil), value...), expires: m.now().Add(ttl)})
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.entries.Remove(key)
	return nil
}

func (m *Memory) DeletePrefix(_ context.Context, prefix string) error {
	for _, k := range m.entries.Keys() {
		if strings.HasPrefix(k, prefix) {
			m.entries.Remove(k)
		}
	}
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	return m.entries.Len()
}
