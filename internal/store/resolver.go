package store

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"monepiceriz/internal/geo"
	"monepiceriz/internal/models"
)

// Resolver résout le magasin le plus proche sur une table fixe.
// Instance injectable plutôt que singleton, pour faciliter les tests.
type Resolver struct {
	stores []Store
}

// NewResolver construit un résolveur sur la table fixe de la chaîne.
func NewResolver() *Resolver {
	return &Resolver{stores: stores}
}

// NewResolverWith permet d'injecter une table de magasins (tests).
func NewResolverWith(table []Store) *Resolver {
	return &Resolver{stores: table}
}

// Stores retourne une copie de la table.
func (r *Resolver) Stores() []Store {
	out := make([]Store, len(r.stores))
	copy(out, r.stores)
	return out
}

// WithDistance associe un magasin à sa distance depuis la position
// de l'utilisateur.
type WithDistance struct {
	Store      Store   `json:"store"`
	DistanceKm float64 `json:"distance_km"`
}

// Nearest retourne le magasin le plus proche de loc. Balayage linéaire ;
// en cas d'égalité stricte, le premier magasin de la table gagne.
func (r *Resolver) Nearest(loc models.Coordinate) WithDistance {
	best := WithDistance{
		Store:      r.stores[0],
		DistanceKm: geo.Distance(loc, r.stores[0].Location),
	}
	for _, s := range r.stores[1:] {
		if d := geo.Distance(loc, s.Location); d < best.DistanceKm {
			best = WithDistance{Store: s, DistanceKm: d}
		}
	}
	return best
}

// WithDistances retourne tous les magasins triés par distance croissante.
// Tri stable : l'ordre de la table départage les égalités.
func (r *Resolver) WithDistances(loc models.Coordinate) []WithDistance {
	out := make([]WithDistance, 0, len(r.stores))
	for _, s := range r.stores {
		out = append(out, WithDistance{Store: s, DistanceKm: geo.Distance(loc, s.Location)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return out
}

// ByCode retourne le magasin correspondant au code, ou nil si le code
// est inconnu. L'appelant doit tester nil.
func (r *Resolver) ByCode(code Code) *Store {
	for i := range r.stores {
		if r.stores[i].Code == code {
			s := r.stores[i]
			return &s
		}
	}
	return nil
}

// IsValidCode teste l'appartenance du code à la table fixe.
func (r *Resolver) IsValidCode(code Code) bool {
	return r.ByCode(code) != nil
}

// IsWithinDeliveryRadius indique si loc est dans le rayon de livraison
// du magasin. Code inconnu : false.
func (r *Resolver) IsWithinDeliveryRadius(loc models.Coordinate, code Code) bool {
	s := r.ByCode(code)
	if s == nil {
		return false
	}
	return geo.Distance(loc, s.Location) <= s.DeliveryRadiusKm
}

// IsOpenAt indique si le magasin est ouvert à l'instant donné (heure
// locale de l'appelant). Pas de plage pour le jour : fermé. Les bornes
// sont inclusives des deux côtés : la minute de fermeture compte encore
// comme "ouvert" (comportement historique de la boutique, conservé).
func (r *Resolver) IsOpenAt(code Code, at time.Time) bool {
	s := r.ByCode(code)
	if s == nil || !s.Active {
		return false
	}
	w, ok := s.Hours[at.Weekday()]
	if !ok {
		return false
	}
	open := minutesOfDay(w.Open)
	close := minutesOfDay(w.Close)
	if open < 0 || close < 0 {
		return false
	}
	m := at.Hour()*60 + at.Minute()
	return m >= open && m <= close
}

// minutesOfDay convertit "HH:MM" en minutes depuis minuit, -1 si illisible.
func minutesOfDay(s string) int {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return -1
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return -1
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return -1
	}
	return h*60 + m
}
