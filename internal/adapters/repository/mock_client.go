package repository

import (
	"context"
	"sync"
)

// MockKVClient simulates a redis client for testing purposes.
type MockKVClient struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMockKVClient initializes an empty MockKVClient.
func NewMockKVClient() *MockKVClient {
	return &MockKVClient{data: make(map[string]string)}
}

// Get retrieves a value; missing keys yield "" like the real adapter.
func (m *MockKVClient) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

// Set stores a key-value pair.
func (m *MockKVClient) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Del removes a key.
func (m *MockKVClient) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Ping always succeeds.
func (m *MockKVClient) Ping(_ context.Context) error {
	return nil
}
