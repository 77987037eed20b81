// Package location adapte les positions rapportées par le client au
// contrat LocationProvider de la sélection de magasin. Le client pousse
// ses relevés par HTTP ; une demande de position rend le dernier relevé
// s'il est assez frais, sinon attend le prochain jusqu'au délai fourni.
package location

import (
	"context"
	"sync"
	"time"

	"monepiceriz/internal/models"
	"monepiceriz/internal/selection"
)

// Hub tient le dernier relevé de chaque session.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*feed
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[string]*feed)}
}

type feed struct {
	mu      sync.Mutex
	fix     *models.Coordinate
	denied  bool
	waiters []chan models.Coordinate
	now     func() time.Time
}

func (h *Hub) feedFor(session string) *feed {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.sessions[session]
	if !ok {
		f = &feed{now: time.Now}
		h.sessions[session] = f
	}
	return f
}

// Report enregistre un relevé frais et réveille les demandes en attente.
// Lève aussi un éventuel refus antérieur (l'utilisateur a réactivé la
// géolocalisation).
func (h *Hub) Report(session string, fix models.Coordinate) {
	f := h.feedFor(session)
	f.mu.Lock()
	if fix.Timestamp.IsZero() {
		fix.Timestamp = f.now()
	}
	f.fix = &fix
	f.denied = false
	waiters := f.waiters
	f.waiters = nil
	f.mu.Unlock()

	for _, w := range waiters {
		w <- fix // cap 1, jamais bloquant
	}
}

// Deny marque la session comme ayant refusé la géolocalisation et
// réveille les demandes en attente sur un refus.
func (h *Hub) Deny(session string) {
	f := h.feedFor(session)
	f.mu.Lock()
	f.denied = true
	waiters := f.waiters
	f.waiters = nil
	f.mu.Unlock()

	for _, w := range waiters {
		close(w)
	}
}

// ProviderFor retourne le LocationProvider de la session, à brancher
// sur selection.Manager.
func (h *Hub) ProviderFor(session string) selection.LocationProvider {
	return &provider{f: h.feedFor(session)}
}

type provider struct {
	f *feed
}

// CurrentPosition applique la sémantique de la plateforme : refus →
// permission refusée ; relevé assez frais (MaxAge) → retour immédiat ;
// sinon attente d'un nouveau relevé jusqu'à Timeout.
func (p *provider) CurrentPosition(ctx context.Context, opts selection.LocationOptions) (models.Coordinate, error) {
	p.f.mu.Lock()
	if p.f.denied {
		p.f.mu.Unlock()
		return models.Coordinate{}, selection.ErrPermissionDenied
	}
	if p.f.fix != nil && opts.MaxAge > 0 && p.f.now().Sub(p.f.fix.Timestamp) <= opts.MaxAge {
		fix := *p.f.fix
		p.f.mu.Unlock()
		return fix, nil
	}
	if opts.Timeout <= 0 {
		p.f.mu.Unlock()
		return models.Coordinate{}, selection.ErrPositionUnavailable
	}
	w := make(chan models.Coordinate, 1)
	p.f.waiters = append(p.f.waiters, w)
	p.f.mu.Unlock()

	timer := time.NewTimer(opts.Timeout)
	defer timer.Stop()
	select {
	case fix, ok := <-w:
		if !ok {
			return models.Coordinate{}, selection.ErrPermissionDenied
		}
		return fix, nil
	case <-timer.C:
		p.f.drop(w)
		return models.Coordinate{}, selection.ErrLocationTimeout
	case <-ctx.Done():
		p.f.drop(w)
		return models.Coordinate{}, selection.ErrPositionUnavailable
	}
}

func (f *feed) drop(w chan models.Coordinate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, x := range f.waiters {
		if x == w {
			f.waiters = append(f.waiters[:i], f.waiters[i+1:]...)
			return
		}
	}
}
