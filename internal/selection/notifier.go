package selection

import (
	"log/slog"
	"sync"

	"monepiceriz/internal/store"
)

// StoreChangeFunc est appelée à chaque sélection de magasin réussie.
type StoreChangeFunc func(previous, current store.Code)

// Notifier porte la liste d'abonnés, séparée de l'état persisté
// (l'émetteur d'événements n'est pas le conteneur d'état).
type Notifier struct {
	mu   sync.Mutex
	subs []StoreChangeFunc
}

// Subscribe enregistre un abonné. Les abonnés sont notifiés de façon
// synchrone, dans l'ordre d'enregistrement.
func (n *Notifier) Subscribe(fn StoreChangeFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs = append(n.subs, fn)
}

// notify appelle chaque abonné. Un abonné en panique est isolé et
// journalisé : il n'empêche pas les suivants de tourner.
func (n *Notifier) notify(previous, current store.Code) {
	n.mu.Lock()
	subs := make([]StoreChangeFunc, len(n.subs))
	copy(subs, n.subs)
	n.mu.Unlock()

	for _, fn := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("abonné en panique lors de la notification de changement de magasin",
						"panic", r, "previous", string(previous), "current", string(current))
				}
			}()
			fn(previous, current)
		}()
	}
}
