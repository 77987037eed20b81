// Package kv expose le stockage clé/valeur durable utilisé pour
// persister l'état client (sélection de magasin, panier). Écritures
// "dernier écrivain gagne", sans détection de conflit : état mono-session.
package kv

import (
	"context"
	"sync"
)

// Storage est le contrat de persistance. GetItem retourne (valeur, true)
// si la clé existe, ("", false) sinon.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Memory est l'implémentation en mémoire, pour les tests et le mode
// sans Redis.
type Memory struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

func (m *Memory) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *Memory) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *Memory) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
