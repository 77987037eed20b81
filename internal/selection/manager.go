package selection

import (
	"context"
	"sync"

	"monepiceriz/internal/kv"
	"monepiceriz/internal/store"
)

// ProviderFactory fournit le LocationProvider d'une session. Retour nil :
// la session n'a pas de capacité de localisation.
type ProviderFactory func(session string) LocationProvider

// Manager maintient un Cache de sélection par session.
type Manager struct {
	mu        sync.Mutex
	caches    map[string]*Cache
	resolver  *store.Resolver
	storage   kv.Storage
	providers ProviderFactory
	cfg       Config
}

func NewManager(resolver *store.Resolver, storage kv.Storage, providers ProviderFactory, cfg Config) *Manager {
	return &Manager{
		caches:    make(map[string]*Cache),
		resolver:  resolver,
		storage:   storage,
		providers: providers,
		cfg:       cfg,
	}
}

// ForSession retourne le cache de la session, en le restaurant depuis
// le stockage durable au premier accès.
func (m *Manager) ForSession(ctx context.Context, session string) *Cache {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.caches[session]; ok {
		return c
	}
	var provider LocationProvider
	if m.providers != nil {
		provider = m.providers(session)
	}
	c := NewCache(stateKey(session), m.resolver, m.storage, provider, m.cfg)
	c.Load(ctx)
	m.caches[session] = c
	return c
}

func stateKey(session string) string {
	return "monepiceriz:selection:" + session
}
