package selection

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"monepiceriz/internal/kv"
	"monepiceriz/internal/models"
	"monepiceriz/internal/store"

	"github.com/stretchr/testify/assert"
)

var (
	nearCocody   = models.Coordinate{Latitude: 5.352, Longitude: -3.994}
	nearKoumassi = models.Coordinate{Latitude: 5.29, Longitude: -3.921}
)

// funcProvider adapte une fonction au contrat LocationProvider.
type funcProvider func(ctx context.Context, opts LocationOptions) (models.Coordinate, error)

func (f funcProvider) CurrentPosition(ctx context.Context, opts LocationOptions) (models.Coordinate, error) {
	return f(ctx, opts)
}

func fixedProvider(fix models.Coordinate) funcProvider {
	return func(context.Context, LocationOptions) (models.Coordinate, error) {
		return fix, nil
	}
}

func failingProvider(err error) funcProvider {
	return func(context.Context, LocationOptions) (models.Coordinate, error) {
		return models.Coordinate{}, err
	}
}

func newTestCache(storage kv.Storage, provider LocationProvider) *Cache {
	return NewCache("monepiceriz:selection:test", store.NewResolver(), storage, provider, DefaultConfig())
}

func TestCache_EtatInitial(t *testing.T) {
	c := newTestCache(kv.NewMemory(), nil)

	st := c.State()
	// tant que rien n'est résolu, le magasin par défaut est retenu
	assert.Equal(t, store.DefaultCode, st.SelectedStore)
	assert.Empty(t, st.NearestStore)
	assert.Nil(t, st.UserLocation)
	assert.False(t, st.IsLoadingLocation)
}

func TestCache_RequestLocation_Succes(t *testing.T) {
	c := newTestCache(kv.NewMemory(), fixedProvider(nearKoumassi))

	st, err := c.RequestLocation(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, store.Koumassi, st.SelectedStore)
	assert.Equal(t, store.Koumassi, st.NearestStore)
	assert.NotNil(t, st.UserLocation)
	assert.False(t, st.LastLocationUpdate.IsZero())
	assert.False(t, st.IsLoadingLocation)
	assert.Empty(t, st.LocationError)
}

// Un échec de localisation ne dégrade jamais un magasin déjà résolu.
func TestCache_RequestLocation_EchecConserveLaSelection(t *testing.T) {
	storage := kv.NewMemory()
	c := newTestCache(storage, fixedProvider(nearKoumassi))

	_, err := c.RequestLocation(context.Background())
	assert.NoError(t, err)

	c.provider = failingProvider(ErrPermissionDenied)
	st, err := c.RequestLocation(context.Background())

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, store.Koumassi, st.SelectedStore)
	assert.Equal(t, UserMessage(ErrPermissionDenied), st.LocationError)
}

func TestCache_RequestLocation_SansFournisseur(t *testing.T) {
	c := newTestCache(kv.NewMemory(), nil)

	st, err := c.RequestLocation(context.Background())

	assert.ErrorIs(t, err, ErrPositionUnavailable)
	assert.Equal(t, store.DefaultCode, st.SelectedStore)
}

// Les appels concurrents partagent la requête de position en vol.
func TestCache_RequestLocation_SingleFlight(t *testing.T) {
	var calls atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})

	c := newTestCache(kv.NewMemory(), funcProvider(func(context.Context, LocationOptions) (models.Coordinate, error) {
		calls.Add(1)
		close(entered)
		<-release
		return nearCocody, nil
	}))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := c.RequestLocation(context.Background())
		assert.NoError(t, err)
	}()

	// on attend que la première requête soit dans le fournisseur avant
	// de lancer la seconde
	<-entered
	wg.Add(1)
	go func() {
		defer wg.Done()
		st, err := c.RequestLocation(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, store.Cocody, st.SelectedStore)
	}()

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestCache_Persistance_AllerRetour(t *testing.T) {
	storage := kv.NewMemory()
	c1 := newTestCache(storage, fixedProvider(nearKoumassi))
	_, err := c1.RequestLocation(context.Background())
	assert.NoError(t, err)

	// une nouvelle instance sur la même clé retrouve l'état persisté
	c2 := newTestCache(storage, nil)
	c2.Load(context.Background())

	st := c2.State()
	assert.Equal(t, store.Koumassi, st.SelectedStore)
	assert.Equal(t, store.Koumassi, st.NearestStore)
	assert.NotNil(t, st.UserLocation)
	assert.False(t, st.LastLocationUpdate.IsZero())
	// les champs transitoires ne sont jamais persistés
	assert.False(t, st.IsLoadingLocation)
	assert.Empty(t, st.LocationError)
}

func TestCache_Load_CodeInvalideRetombeSurDefaut(t *testing.T) {
	storage := kv.NewMemory()
	_ = storage.SetItem(context.Background(), "monepiceriz:selection:test",
		`{"version":1,"state":{"selected_store":"PARIS"}}`)

	c := newTestCache(storage, nil)
	c.Load(context.Background())

	assert.Equal(t, store.DefaultCode, c.State().SelectedStore)
}

func TestCache_Load_VersionInconnue(t *testing.T) {
	storage := kv.NewMemory()
	_ = storage.SetItem(context.Background(), "monepiceriz:selection:test",
		`{"version":99,"state":{"selected_store":"KOUMASSI"}}`)

	c := newTestCache(storage, nil)
	c.Load(context.Background())

	// enveloppe d'une version inconnue : abandonnée
	assert.Equal(t, store.DefaultCode, c.State().SelectedStore)
}

func TestCache_Load_JSONIllisible(t *testing.T) {
	storage := kv.NewMemory()
	_ = storage.SetItem(context.Background(), "monepiceriz:selection:test", "{pas du json")

	c := newTestCache(storage, nil)
	c.Load(context.Background())

	assert.Equal(t, store.DefaultCode, c.State().SelectedStore)
}

func TestCache_SetSelectedStore(t *testing.T) {
	c := newTestCache(kv.NewMemory(), nil)

	t.Run("Code inconnu : erreur, état intact", func(t *testing.T) {
		err := c.SetSelectedStore(context.Background(), "PARIS")
		assert.Error(t, err)
		assert.Equal(t, store.DefaultCode, c.State().SelectedStore)
	})

	t.Run("Code valide : sélection et notification", func(t *testing.T) {
		var gotPrevious, gotCurrent store.Code
		c.Subscribe(func(previous, current store.Code) {
			gotPrevious, gotCurrent = previous, current
		})

		err := c.SetSelectedStore(context.Background(), store.Koumassi)
		assert.NoError(t, err)
		assert.Equal(t, store.Koumassi, c.State().SelectedStore)
		assert.Equal(t, store.DefaultCode, gotPrevious)
		assert.Equal(t, store.Koumassi, gotCurrent)
	})
}

func TestNotifier_OrdreEtIsolation(t *testing.T) {
	c := newTestCache(kv.NewMemory(), nil)

	var order []string
	c.Subscribe(func(previous, current store.Code) {
		order = append(order, "premier")
		panic("abonné défaillant")
	})
	c.Subscribe(func(previous, current store.Code) {
		order = append(order, "second")
	})

	// l'abonné en panique n'empêche pas le suivant de tourner
	assert.NoError(t, c.SetSelectedStore(context.Background(), store.Koumassi))
	assert.Equal(t, []string{"premier", "second"}, order)
}

func TestCache_ShouldRefresh(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 8, 17, 12, 0, 0, 0, time.UTC)

	t.Run("Jamais résolu, fournisseur présent", func(t *testing.T) {
		c := newTestCache(kv.NewMemory(), fixedProvider(nearCocody))
		assert.True(t, c.ShouldRefresh(ctx))
	})

	t.Run("Jamais résolu, sans fournisseur", func(t *testing.T) {
		c := newTestCache(kv.NewMemory(), nil)
		assert.False(t, c.ShouldRefresh(ctx))
	})

	t.Run("Résolution fraîche, position inchangée", func(t *testing.T) {
		c := newTestCache(kv.NewMemory(), fixedProvider(nearCocody))
		c.now = func() time.Time { return base }
		_, err := c.RequestLocation(ctx)
		assert.NoError(t, err)

		c.now = func() time.Time { return base.Add(10 * time.Minute) }
		assert.False(t, c.ShouldRefresh(ctx))
	})

	t.Run("Cache expiré par la durée", func(t *testing.T) {
		c := newTestCache(kv.NewMemory(), fixedProvider(nearCocody))
		c.now = func() time.Time { return base }
		_, err := c.RequestLocation(ctx)
		assert.NoError(t, err)

		c.now = func() time.Time { return base.Add(2 * time.Hour) }
		assert.True(t, c.ShouldRefresh(ctx))
	})

	t.Run("Déplacement au-delà du seuil", func(t *testing.T) {
		c := newTestCache(kv.NewMemory(), fixedProvider(nearCocody))
		c.now = func() time.Time { return base }
		_, err := c.RequestLocation(ctx)
		assert.NoError(t, err)

		// ~3,3 km plus au nord : au-delà du seuil de 2 km
		moved := models.Coordinate{Latitude: nearCocody.Latitude + 0.03, Longitude: nearCocody.Longitude}
		c.provider = fixedProvider(moved)
		c.now = func() time.Time { return base.Add(10 * time.Minute) }
		assert.True(t, c.ShouldRefresh(ctx))
	})

	t.Run("Résolu puis fournisseur disparu : sélection conservée", func(t *testing.T) {
		c := newTestCache(kv.NewMemory(), fixedProvider(nearCocody))
		c.now = func() time.Time { return base }
		_, err := c.RequestLocation(ctx)
		assert.NoError(t, err)

		c.provider = nil
		c.now = func() time.Time { return base.Add(10 * time.Minute) }
		assert.False(t, c.ShouldRefresh(ctx))
	})

	t.Run("Relevé grossier en échec : pas de rafraîchissement", func(t *testing.T) {
		c := newTestCache(kv.NewMemory(), fixedProvider(nearCocody))
		c.now = func() time.Time { return base }
		_, err := c.RequestLocation(ctx)
		assert.NoError(t, err)

		c.provider = failingProvider(ErrLocationTimeout)
		c.now = func() time.Time { return base.Add(10 * time.Minute) }
		assert.False(t, c.ShouldRefresh(ctx))
	})
}

func TestUserMessage(t *testing.T) {
	assert.Contains(t, UserMessage(ErrPermissionDenied), "refusé")
	assert.Contains(t, UserMessage(ErrLocationTimeout), "expiré")
	assert.Contains(t, UserMessage(ErrPositionUnavailable), "indisponible")
	assert.Contains(t, UserMessage(errors.New("autre")), "Impossible")
}

func TestManager_ForSession(t *testing.T) {
	storage := kv.NewMemory()
	m := NewManager(store.NewResolver(), storage, nil, DefaultConfig())

	c1 := m.ForSession(context.Background(), "s1")
	c2 := m.ForSession(context.Background(), "s1")
	c3 := m.ForSession(context.Background(), "s2")

	// même session : même cache ; sessions distinctes : caches distincts
	assert.Same(t, c1, c2)
	assert.NotSame(t, c1, c3)
}
