package location

import (
	"context"
	"testing"
	"time"

	"monepiceriz/internal/models"
	"monepiceriz/internal/selection"

	"github.com/stretchr/testify/assert"
)

var plateau = models.Coordinate{Latitude: 5.32, Longitude: -4.02}

func TestProvider_ReleveFrais(t *testing.T) {
	hub := NewHub()
	hub.Report("s1", plateau)

	p := hub.ProviderFor("s1")
	fix, err := p.CurrentPosition(context.Background(), selection.LocationOptions{
		Timeout: time.Second,
		MaxAge:  time.Minute,
	})

	assert.NoError(t, err)
	assert.Equal(t, plateau.Latitude, fix.Latitude)
	assert.Equal(t, plateau.Longitude, fix.Longitude)
	assert.False(t, fix.Timestamp.IsZero())
}

// MaxAge <= 0 exige un relevé neuf : le relevé en mémoire ne suffit pas.
func TestProvider_MaxAgeZeroExigeDuNeuf(t *testing.T) {
	hub := NewHub()
	hub.Report("s1", plateau)

	p := hub.ProviderFor("s1")
	_, err := p.CurrentPosition(context.Background(), selection.LocationOptions{
		Timeout: 20 * time.Millisecond,
		MaxAge:  0,
	})

	assert.ErrorIs(t, err, selection.ErrLocationTimeout)
}

func TestProvider_DelaiDepasse(t *testing.T) {
	hub := NewHub()

	p := hub.ProviderFor("s1")
	start := time.Now()
	_, err := p.CurrentPosition(context.Background(), selection.LocationOptions{
		Timeout: 30 * time.Millisecond,
		MaxAge:  time.Minute,
	})

	assert.ErrorIs(t, err, selection.ErrLocationTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestProvider_SansAttentePossible(t *testing.T) {
	hub := NewHub()

	p := hub.ProviderFor("s1")
	_, err := p.CurrentPosition(context.Background(), selection.LocationOptions{
		Timeout: 0,
		MaxAge:  time.Minute,
	})

	assert.ErrorIs(t, err, selection.ErrPositionUnavailable)
}

func TestProvider_RefusDeGeolocalisation(t *testing.T) {
	hub := NewHub()
	hub.Deny("s1")

	p := hub.ProviderFor("s1")
	_, err := p.CurrentPosition(context.Background(), selection.LocationOptions{
		Timeout: time.Second,
		MaxAge:  time.Minute,
	})

	assert.ErrorIs(t, err, selection.ErrPermissionDenied)
}

// Un nouveau relevé lève le refus : l'utilisateur a réactivé la
// géolocalisation.
func TestProvider_LeReleveLeveLeRefus(t *testing.T) {
	hub := NewHub()
	hub.Deny("s1")
	hub.Report("s1", plateau)

	p := hub.ProviderFor("s1")
	_, err := p.CurrentPosition(context.Background(), selection.LocationOptions{
		Timeout: time.Second,
		MaxAge:  time.Minute,
	})

	assert.NoError(t, err)
}

func TestProvider_ReveilParReport(t *testing.T) {
	hub := NewHub()
	p := hub.ProviderFor("s1")

	type result struct {
		fix models.Coordinate
		err error
	}
	done := make(chan result, 1)
	go func() {
		fix, err := p.CurrentPosition(context.Background(), selection.LocationOptions{
			Timeout: 2 * time.Second,
			MaxAge:  time.Minute,
		})
		done <- result{fix, err}
	}()

	// laisse la demande s'inscrire en attente avant de pousser le relevé
	time.Sleep(20 * time.Millisecond)
	hub.Report("s1", plateau)

	select {
	case res := <-done:
		assert.NoError(t, res.err)
		assert.Equal(t, plateau.Latitude, res.fix.Latitude)
	case <-time.After(time.Second):
		t.Fatal("la demande de position n'a pas été réveillée")
	}
}

func TestProvider_ReveilParRefus(t *testing.T) {
	hub := NewHub()
	p := hub.ProviderFor("s1")

	done := make(chan error, 1)
	go func() {
		_, err := p.CurrentPosition(context.Background(), selection.LocationOptions{
			Timeout: 2 * time.Second,
			MaxAge:  time.Minute,
		})
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	hub.Deny("s1")

	select {
	case err := <-done:
		assert.ErrorIs(t, err, selection.ErrPermissionDenied)
	case <-time.After(time.Second):
		t.Fatal("la demande de position n'a pas été réveillée")
	}
}

func TestProvider_AnnulationContexte(t *testing.T) {
	hub := NewHub()
	p := hub.ProviderFor("s1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.CurrentPosition(ctx, selection.LocationOptions{
			Timeout: 2 * time.Second,
			MaxAge:  time.Minute,
		})
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, selection.ErrPositionUnavailable)
	case <-time.After(time.Second):
		t.Fatal("l'annulation du contexte n'a pas libéré la demande")
	}
}

func TestHub_SessionsIndependantes(t *testing.T) {
	hub := NewHub()
	hub.Report("s1", plateau)

	// le relevé de s1 ne sert jamais s2
	p2 := hub.ProviderFor("s2")
	_, err := p2.CurrentPosition(context.Background(), selection.LocationOptions{
		Timeout: 20 * time.Millisecond,
		MaxAge:  time.Minute,
	})
	assert.ErrorIs(t, err, selection.ErrLocationTimeout)
}
