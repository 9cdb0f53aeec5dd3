package repository

import "context"

// MockCache — кэш в памяти для тестов.
type MockCache struct {
	Data    map[string]string
	Deleted []string
}

func NewMockCache() *MockCache {
	return &MockCache{
		Data: make(map[string]string),
	}
}

func (m *MockCache) Get(_ context.Context, key string) (string, bool) {
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(_ context.Context, key string, value string) error {
	m.Data[key] = value
	return nil
}

func (m *MockCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.Data, key)
		m.Deleted = append(m.Deleted, key)
	}
	return nil
}
