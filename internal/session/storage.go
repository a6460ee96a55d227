package session

import (
	"context"
	"net/http"
	"sync"
)

// Storage is one browser's persisted key/value bag. Writes are buffered
// until Save.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
	Save(ctx context.Context) error
}

// Store opens the Storage belonging to a request.
type Store interface {
	Open(w http.ResponseWriter, r *http.Request) (Storage, error)
}

// Memory is an in-process Storage, used by tests and as a fallback.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
	saves  int
}

func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *Memory) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}

func (m *Memory) Save(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	return nil
}

// Saves returns how many times Save was called.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// MemoryStore hands the same Memory to every request.
type MemoryStore struct{ M *Memory }

func (s MemoryStore) Open(http.ResponseWriter, *http.Request) (Storage, error) { return s.M, nil }
