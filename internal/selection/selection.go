// Package selection porte le cache persistant de sélection de magasin :
// résolution du magasin le plus proche à partir d'une position, règles
// de péremption (durée écoulée et déplacement), persistance versionnée.
package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"monepiceriz/internal/geo"
	"monepiceriz/internal/kv"
	"monepiceriz/internal/logger/sl"
	"monepiceriz/internal/metric"
	"monepiceriz/internal/models"
	"monepiceriz/internal/store"
)

// Erreurs d'environnement typées de la géolocalisation.
var (
	ErrPermissionDenied    = errors.New("geolocation: permission refusée")
	ErrPositionUnavailable = errors.New("geolocation: position indisponible")
	ErrLocationTimeout     = errors.New("geolocation: délai dépassé")
)

// LocationOptions reprend la forme de la requête de la plateforme.
// Timeout est transmis tel quel au fournisseur, jamais ré-imposé ici.
// MaxAge <= 0 exige un relevé neuf.
type LocationOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaxAge       time.Duration
}

// LocationProvider est le contrat du service de localisation.
//
//go:generate mockery --name=LocationProvider --output=./mocks --case=underscore
type LocationProvider interface {
	CurrentPosition(ctx context.Context, opts LocationOptions) (models.Coordinate, error)
}

// Config règle la politique de péremption. Les deux seuils de
// déplacement sont conservés séparés et configurables (voir DESIGN.md).
type Config struct {
	CacheDuration         time.Duration
	MovementThresholdKm   float64
	SignificantDistanceKm float64
	LocationTimeout       time.Duration
	LocationMaxAge        time.Duration // âge max d'un relevé pour la résolution
	CoarseMaxAge          time.Duration // âge max, plus permissif, pour le contrôle de déplacement
}

func DefaultConfig() Config {
	return Config{
		CacheDuration:         time.Hour,
		MovementThresholdKm:   2,
		SignificantDistanceKm: 5,
		LocationTimeout:       10 * time.Second,
		LocationMaxAge:        time.Minute,
		CoarseMaxAge:          5 * time.Minute,
	}
}

// State est l'état observable de la sélection. Les deux derniers champs
// sont transitoires : jamais persistés, remis à zéro au rechargement.
type State struct {
	SelectedStore      store.Code         `json:"selected_store"`
	NearestStore       store.Code         `json:"nearest_store,omitempty"`
	UserLocation       *models.Coordinate `json:"user_location,omitempty"`
	LastLocationUpdate time.Time          `json:"last_location_update,omitempty"`

	IsLoadingLocation bool   `json:"is_loading_location"`
	LocationError     string `json:"location_error,omitempty"`
}

const schemaVersion = 1

// envelope est la forme persistée : seuls les champs durables, avec un
// numéro de version de schéma pour la migration.
type envelope struct {
	Version int            `json:"version"`
	State   persistedState `json:"state"`
}

type persistedState struct {
	SelectedStore      store.Code         `json:"selected_store"`
	NearestStore       store.Code         `json:"nearest_store,omitempty"`
	UserLocation       *models.Coordinate `json:"user_location,omitempty"`
	LastLocationUpdate time.Time          `json:"last_location_update,omitempty"`
}

// Cache est la machine à états de sélection d'une session :
// no-location → resolving → resolved / error. Un échec ne dégrade
// jamais un magasin déjà résolu.
type Cache struct {
	mu       sync.Mutex
	key      string
	state    State
	lastErr  error
	resolver *store.Resolver
	storage  kv.Storage
	provider LocationProvider
	notifier *Notifier
	cfg      Config
	now      func() time.Time

	// garde "single flight" : les demandes concurrentes partagent la
	// même requête de position
	inflight chan struct{}
}

func NewCache(key string, resolver *store.Resolver, storage kv.Storage, provider LocationProvider, cfg Config) *Cache {
	return &Cache{
		key:      key,
		state:    State{SelectedStore: store.DefaultCode},
		resolver: resolver,
		storage:  storage,
		provider: provider,
		notifier: &Notifier{},
		cfg:      cfg,
		now:      time.Now,
	}
}

// Load restaure l'état persisté. Un code de magasin invalide retombe
// sur le magasin par défaut ; une enveloppe illisible ou d'une version
// inconnue est abandonnée au profit des valeurs par défaut.
func (c *Cache) Load(ctx context.Context) {
	raw, ok, err := c.storage.GetItem(ctx, c.key)
	if err != nil {
		slog.Error("lecture de l'état de sélection persisté", "err", err, sl.Traced(ctx))
		return
	}
	if !ok {
		return
	}
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		slog.Warn("état de sélection illisible, réinitialisation", "err", err)
		return
	}
	if env.Version != schemaVersion {
		slog.Warn("version d'état de sélection inconnue, réinitialisation", "version", env.Version)
		return
	}

	st := env.State
	if !c.resolver.IsValidCode(st.SelectedStore) {
		st.SelectedStore = store.DefaultCode
	}
	if st.NearestStore != "" && !c.resolver.IsValidCode(st.NearestStore) {
		st.NearestStore = ""
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SelectedStore = st.SelectedStore
	c.state.NearestStore = st.NearestStore
	c.state.UserLocation = st.UserLocation
	c.state.LastLocationUpdate = st.LastLocationUpdate
}

// State retourne une copie de l'état courant.
func (c *Cache) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Cache) stateLocked() State {
	st := c.state
	if st.UserLocation != nil {
		loc := *st.UserLocation
		st.UserLocation = &loc
	}
	return st
}

// Subscribe enregistre un abonné aux changements de magasin.
func (c *Cache) Subscribe(fn StoreChangeFunc) {
	c.notifier.Subscribe(fn)
}

// SetSelectedStore force la sélection d'un magasin. Code inconnu :
// erreur, l'état ne bouge pas. Chaque appel réussi notifie les abonnés.
func (c *Cache) SetSelectedStore(ctx context.Context, code store.Code) error {
	if !c.resolver.IsValidCode(code) {
		return fmt.Errorf("code de magasin inconnu: %s", code)
	}
	c.mu.Lock()
	previous := c.state.SelectedStore
	c.state.SelectedStore = code
	c.persistLocked(ctx)
	c.mu.Unlock()

	c.notifier.notify(previous, code)
	return nil
}

// RequestLocation demande une position au fournisseur, résout le
// magasin le plus proche et le sélectionne. Les appels concurrents
// partagent la requête en vol et son résultat.
func (c *Cache) RequestLocation(ctx context.Context) (State, error) {
	c.mu.Lock()
	if ch := c.inflight; ch != nil {
		c.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return c.State(), ctx.Err()
		}
		c.mu.Lock()
		st, err := c.stateLocked(), c.lastErr
		c.mu.Unlock()
		return st, err
	}
	ch := make(chan struct{})
	c.inflight = ch
	c.state.IsLoadingLocation = true
	c.state.LocationError = ""
	provider := c.provider
	opts := LocationOptions{
		HighAccuracy: true,
		Timeout:      c.cfg.LocationTimeout,
		MaxAge:       c.cfg.LocationMaxAge,
	}
	c.mu.Unlock()

	var fix models.Coordinate
	var err error
	if provider == nil {
		err = ErrPositionUnavailable
	} else {
		fix, err = provider.CurrentPosition(ctx, opts)
	}

	c.mu.Lock()
	c.state.IsLoadingLocation = false
	c.inflight = nil
	var previous, current store.Code
	resolved := false
	if err != nil {
		// l'échec laisse intacte une sélection déjà résolue
		c.state.LocationError = UserMessage(err)
		c.lastErr = err
		metric.LocationErrorsTotal.WithLabelValues(errorCause(err)).Inc()
	} else {
		nearest := c.resolver.Nearest(fix)
		previous = c.state.SelectedStore
		current = nearest.Store.Code
		now := c.now()
		loc := fix
		if loc.Timestamp.IsZero() {
			loc.Timestamp = now
		}
		c.state.UserLocation = &loc
		c.state.NearestStore = current
		c.state.SelectedStore = current
		c.state.LastLocationUpdate = now
		c.state.LocationError = ""
		c.lastErr = nil
		c.persistLocked(ctx)
		metric.StoreResolutionsTotal.WithLabelValues(string(current)).Inc()
		resolved = true
	}
	st := c.stateLocked()
	c.mu.Unlock()
	close(ch)

	if resolved {
		c.notifier.notify(previous, current)
	}
	return st, err
}

// ShouldRefresh indique si une nouvelle résolution est justifiée :
// jamais résolu, cache expiré (durée), ou déplacement au-delà de l'un
// des deux seuils. Plateforme sans localisation : la sélection courante
// est conservée indéfiniment.
func (c *Cache) ShouldRefresh(ctx context.Context) bool {
	c.mu.Lock()
	st := c.stateLocked()
	provider := c.provider
	cfg := c.cfg
	now := c.now()
	c.mu.Unlock()

	if st.NearestStore == "" || st.UserLocation == nil || st.LastLocationUpdate.IsZero() {
		return provider != nil
	}
	if now.Sub(st.LastLocationUpdate) > cfg.CacheDuration {
		return true
	}
	if provider == nil {
		return false
	}
	// relevé grossier, âge permissif : on ne cherche qu'un ordre de grandeur
	fix, err := provider.CurrentPosition(ctx, LocationOptions{
		Timeout: cfg.LocationTimeout,
		MaxAge:  cfg.CoarseMaxAge,
	})
	if err != nil {
		return false
	}
	d := geo.Distance(fix, *st.UserLocation)
	return d > cfg.MovementThresholdKm || d > cfg.SignificantDistanceKm
}

// EnsureFresh relance la résolution si la sélection est périmée,
// sinon retourne l'état courant tel quel.
func (c *Cache) EnsureFresh(ctx context.Context) (State, error) {
	if c.ShouldRefresh(ctx) {
		return c.RequestLocation(ctx)
	}
	return c.State(), nil
}

// persistLocked écrit l'enveloppe versionnée. Échec non fatal : dernier
// écrivain gagne, on journalise et on continue.
func (c *Cache) persistLocked(ctx context.Context) {
	env := envelope{
		Version: schemaVersion,
		State: persistedState{
			SelectedStore:      c.state.SelectedStore,
			NearestStore:       c.state.NearestStore,
			UserLocation:       c.state.UserLocation,
			LastLocationUpdate: c.state.LastLocationUpdate,
		},
	}
	raw, err := json.Marshal(env)
	if err != nil {
		slog.Error("sérialisation de l'état de sélection", "err", err)
		return
	}
	if err := c.storage.SetItem(ctx, c.key, string(raw)); err != nil {
		slog.Error("écriture de l'état de sélection", "err", err, sl.Traced(ctx))
	}
}

// UserMessage retourne le message utilisateur (français) associé à une
// erreur de géolocalisation.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "L'accès à votre position a été refusé. Autorisez la géolocalisation pour trouver le magasin le plus proche."
	case errors.Is(err, ErrLocationTimeout):
		return "La demande de localisation a expiré. Veuillez réessayer."
	case errors.Is(err, ErrPositionUnavailable):
		return "Position indisponible. Vérifiez que la géolocalisation est activée."
	}
	return "Impossible de déterminer votre position."
}

func errorCause(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrLocationTimeout):
		return "timeout"
	case errors.Is(err, ErrPositionUnavailable):
		return "unavailable"
	}
	return "other"
}
