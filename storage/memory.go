package storage

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/viant/sigindex/index"
)

// Memory keeps payloads in a map. It is not safe for concurrent use.
type Memory struct {
	items map[string][]byte
}

// NewMemory returns an empty in-memory storage.
func NewMemory() *Memory {
	return &Memory{items: make(map[string][]byte)}
}

// Save implements index.Storage.
func (m *Memory) Save(path string, content []byte) (string, error) {
	if path == "" {
		path = uuid.NewString()
	}
	m.items[path] = slices.Clone(content)
	return path, nil
}

// Load implements index.Storage.
func (m *Memory) Load(path string) ([]byte, error) {
	content, ok := m.items[path]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
	}
	return slices.Clone(content), nil
}

// Len returns the number of stored payloads.
func (m *Memory) Len() int { return len(m.items) }

var _ index.Storage = (*Memory)(nil)
