// Package geo fournit le calcul de distance orthodromique entre deux
// coordonnées (formule de haversine).
package geo

import (
	"math"

	"monepiceriz/internal/models"
)

const earthRadiusKm = 6371.0

// Distance retourne la distance en kilomètres entre a et b.
// Symétrique, 0 pour deux points identiques. Les valeurs hors plage
// (|lat|>90, |lon|>180) ne sont pas validées : responsabilité de l'appelant.
func Distance(a, b models.Coordinate) float64 {
	latA := a.Latitude * math.Pi / 180
	latB := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}
