package blob

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type memObject struct {
	label string
	data  []byte
}

// MemoryStore keeps blobs in process memory. It backs the "memory" backend
// and the orchestration tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memObject
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memObject)}
}

// Upload stores a copy of data under a new ULID.
func (m *MemoryStore) Upload(_ context.Context, label string, data []byte) (Object, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()

	m.mu.Lock()
	m.objects[id] = memObject{label: label, data: clone(data)}
	m.mu.Unlock()

	return Object{ID: id, ViewLink: "memory://" + id}, nil
}

// Download returns a copy of the stored bytes.
func (m *MemoryStore) Download(_ context.Context, id string) ([]byte, error) {
	m.mu.RLock()
	obj, ok := m.objects[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("memory download %s: %w", id, ErrNotFound)
	}
	return clone(obj.data), nil
}

// Update replaces the bytes of an existing object. An empty label keeps the old one.
func (m *MemoryStore) Update(_ context.Context, id string, data []byte, label string) (Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[id]
	if !ok {
		return Object{}, fmt.Errorf("memory update %s: %w", id, ErrNotFound)
	}
	if label != "" {
		obj.label = label
	}
	obj.data = clone(data)
	m.objects[id] = obj

	return Object{ID: id, ViewLink: "memory://" + id}, nil
}

// Delete removes an object.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[id]; !ok {
		return fmt.Errorf("memory delete %s: %w", id, ErrNotFound)
	}
	delete(m.objects, id)
	return nil
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// Label returns the label an object was last written with.
func (m *MemoryStore) Label(id string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[id]
	return obj.label, ok
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
