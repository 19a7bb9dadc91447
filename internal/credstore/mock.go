package credstore

import (
	"context"
	"sync"
)

// MemStore is an in-memory credential store for testing.
type MemStore struct {
	mu      sync.RWMutex
	configs map[string]TenantConfig
}

func NewMem() *MemStore {
	return &MemStore{configs: make(map[string]TenantConfig)}
}

func (m *MemStore) Get(_ context.Context, tenantID string) (*TenantConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, ok := m.configs[tenantID]
	if !ok {
		return nil, nil
	}
	cp := cfg
	return &cp, nil
}

func (m *MemStore) Put(_ context.Context, tenantID string, cfg TenantConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[tenantID] = cfg
	return nil
}
