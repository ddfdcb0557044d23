package storage

import (
	"context"
	"errors"
	"sync"
)

const (
	// DefaultMemoryEntries bounds how many previews a Memory store holds.
	DefaultMemoryEntries = 64
	// DefaultMemoryBytes bounds the total size of held previews.
	DefaultMemoryBytes int64 = 64 << 20
)

type blob struct {
	contentType string
	data        []byte
}

// Memory keeps uploads in process so the API can serve them back as
// previews. Oldest entries are evicted first once either the entry or the
// byte limit is passed; the newest entry is always kept.
type Memory struct {
	prefix   string
	limit    int
	maxBytes int64

	mu    sync.RWMutex
	blobs map[string]blob
	order []string
	size  int64
}

// NewMemory returns refs of the form prefix + key. Non-positive limits fall
// back to the defaults.
func NewMemory(prefix string, limit int, maxBytes int64) *Memory {
	if limit <= 0 {
		limit = DefaultMemoryEntries
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMemoryBytes
	}
	return &Memory{prefix: prefix, limit: limit, maxBytes: maxBytes, blobs: make(map[string]blob)}
}

func (m *Memory) Put(_ context.Context, key, contentType string, data []byte) (string, error) {
	if key == "" {
		return "", errors.New("empty key")
	}
	cp := append([]byte(nil), data...)

	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.blobs[key]; ok {
		m.size -= int64(len(old.data))
		m.drop(key)
	}
	m.order = append(m.order, key)
	m.blobs[key] = blob{contentType: contentType, data: cp}
	m.size += int64(len(cp))

	for len(m.order) > 1 && (len(m.order) > m.limit || m.size > m.maxBytes) {
		oldest := m.order[0]
		m.size -= int64(len(m.blobs[oldest].data))
		delete(m.blobs, oldest)
		m.order = m.order[1:]
	}
	return m.prefix + key, nil
}

// drop removes key from the eviction order.
func (m *Memory) drop(key string) {
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

// Get returns the stored bytes and content type.
func (m *Memory) Get(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[key]
	if !ok {
		return nil, "", false
	}
	return b.data, b.contentType, true
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}

// Bytes is the total size of held previews.
func (m *Memory) Bytes() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.size
}
