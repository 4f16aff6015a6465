package index

import (
	"strings"
	"sync"

	"github.com/ownkv/ownkv-go/identity"
)

// MemIndex is the in-memory Index backend. A single readers-writer mutex
// guards the nested owner -> path -> value map; the lock is held for the
// duration of one operation, never across calls.
type MemIndex struct {
	mu   sync.RWMutex
	data map[identity.PublicKey]map[string][]byte
}

// Compile-time interface check.
var _ Index = (*MemIndex)(nil)

// NewMemIndex creates an empty in-memory index.
func NewMemIndex() *MemIndex {
	return &MemIndex{
		data: make(map[identity.PublicKey]map[string][]byte),
	}
}

// Put stores value at (owner, path). The value is copied so later caller
// mutations cannot reach the index.
func (m *MemIndex) Put(owner identity.PublicKey, path string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	m.mu.Lock()
	defer m.mu.Unlock()

	paths, ok := m.data[owner]
	if !ok {
		paths = make(map[string][]byte)
		m.data[owner] = paths
	}
	paths[path] = v
	return nil
}

// Get returns a copy of the payload at exactly (owner, path).
func (m *MemIndex) Get(owner identity.PublicKey, path string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[owner][path]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Delete removes the entry at (owner, path), reporting whether it existed.
func (m *MemIndex) Delete(owner identity.PublicKey, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	paths, ok := m.data[owner]
	if !ok {
		return false, nil
	}
	if _, ok := paths[path]; !ok {
		return false, nil
	}

	delete(paths, path)
	if len(paths) == 0 {
		delete(m.data, owner)
	}
	return true, nil
}

// List returns all of owner's paths starting with prefix, in map
// iteration order.
func (m *MemIndex) List(owner identity.PublicKey, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := m.data[owner]
	result := make([]string, 0, len(paths))
	for p := range paths {
		if strings.HasPrefix(p, prefix) {
			result = append(result, p)
		}
	}
	return result, nil
}
