package store

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// MemoryKV is an in-memory implementation of KV, used in tests and
// when no local database path is configured.
type MemoryKV struct {
	entries map[string]string
	mu      sync.RWMutex
}

// NewMemoryKV creates a new empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		entries: make(map[string]string),
	}
}

// Save serializes value to JSON and stores it under key.
func (s *MemoryKV) Save(key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = string(payload)
	return nil
}

// Load decodes the stored payload under key into out.
func (s *MemoryKV) Load(key string, out any) (bool, error) {
	s.mu.RLock()
	payload, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		log.Printf("Corrupt payload under key %s, falling back to default: %v", key, err)
		return false, nil
	}
	return true, nil
}

// Delete removes the entry under key.
func (s *MemoryKV) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Put stores a raw payload under key, bypassing serialization. Tests
// use it to simulate corrupt data.
func (s *MemoryKV) Put(key, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = raw
}
