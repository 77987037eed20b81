// Package cache garde en mémoire les derniers produits du catalogue
// pour les servir sans passer par la base.
package cache

import (
	"context"
	"log"
	"sync"
	"time"

	"monepiceriz/internal/metric"
	"monepiceriz/internal/models"
)

type cacheItem struct {
	data      *models.Product
	expiresAt int64
}

type ProductCache struct {
	items             map[string]cacheItem
	defaultExpiration time.Duration // durée de vie standard d'une entrée
	cleanupInterval   time.Duration // fréquence du nettoyeur
	sync.RWMutex
	ticker *time.Ticker
}

func NewProductCache(defaultExpiration, cleanupInterval time.Duration) *ProductCache {
	return &ProductCache{
		items:             make(map[string]cacheItem),
		defaultExpiration: defaultExpiration,
		cleanupInterval:   cleanupInterval,
		ticker:            time.NewTicker(cleanupInterval),
	}
}

func (ch *ProductCache) Set(id string, p *models.Product) {
	ch.Lock()
	defer ch.Unlock()
	_, exists := ch.items[id]
	// l'heure de péremption est fixée à l'écriture
	expiration := time.Now().Add(ch.defaultExpiration).UnixNano()
	ch.items[id] = cacheItem{
		data:      p,
		expiresAt: expiration,
	}
	if !exists {
		metric.CacheSize.Inc()
	}
}

func (ch *ProductCache) Get(id string) (*models.Product, bool) {
	ch.RLock()
	defer ch.RUnlock()

	res, ok := ch.items[id]
	if !ok {
		return nil, false
	}

	// la clé existe : vérifier qu'elle n'est pas périmée
	if time.Now().UnixNano() > res.expiresAt {
		return nil, false
	}

	return res.data, true
}

// GC purge les entrées périmées jusqu'à l'annulation du contexte.
func (ch *ProductCache) GC(ctx context.Context) error {
	for {
		select {
		case <-ch.ticker.C:
			ch.Lock()
			now := time.Now().UnixNano()
			deletedCounter := 0
			for key, item := range ch.items {
				if now > item.expiresAt {
					metric.CacheSize.Dec()
					delete(ch.items, key)
					deletedCounter++
				}
			}
			if deletedCounter > 0 {
				log.Printf("GC: %d entrées périmées supprimées du cache produits", deletedCounter)
			}
			ch.Unlock()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (ch *ProductCache) Stop() {
	ch.ticker.Stop()
}
