// Package store porte la table fixe des magasins de la chaîne et la
// résolution du magasin le plus proche d'une coordonnée utilisateur.
package store

import (
	"time"

	"monepiceriz/internal/models"
)

// Code identifie un magasin de la chaîne.
type Code string

const (
	Cocody   Code = "COCODY"
	Koumassi Code = "KOUMASSI"

	// DefaultCode est le magasin retenu tant qu'aucune position n'a
	// été résolue.
	DefaultCode = Cocody
)

// Window est une plage horaire d'ouverture, au format "HH:MM".
type Window struct {
	Open  string
	Close string
}

// Store est une entité fixe, configurée à la compilation et jamais
// mutée au runtime.
type Store struct {
	Code             Code               `json:"code"`
	Name             string             `json:"name"`
	Address          string             `json:"address"`
	Phone            string             `json:"phone"`
	Location         models.Coordinate  `json:"location"`
	Hours            map[time.Weekday]Window `json:"-"`
	DeliveryRadiusKm float64            `json:"delivery_radius_km"`
	Active           bool               `json:"active"`
}

// Table fixe : deux magasins. L'ordre compte, le premier gagne en cas
// d'égalité de distance.
var stores = []Store{
	{
		Code:     Cocody,
		Name:     "MonEpice&Riz Cocody",
		Address:  "Boulevard Latrille, Cocody, Abidjan",
		Phone:    "+2250707070707",
		Location: models.Coordinate{Latitude: 5.3515625, Longitude: -3.9936523},
		Hours: map[time.Weekday]Window{
			time.Monday:    {Open: "08:00", Close: "20:00"},
			time.Tuesday:   {Open: "08:00", Close: "20:00"},
			time.Wednesday: {Open: "08:00", Close: "20:00"},
			time.Thursday:  {Open: "08:00", Close: "20:00"},
			time.Friday:    {Open: "08:00", Close: "20:00"},
			time.Saturday:  {Open: "08:00", Close: "21:00"},
			time.Sunday:    {Open: "09:00", Close: "13:00"},
		},
		DeliveryRadiusKm: 10,
		Active:           true,
	},
	{
		Code:     Koumassi,
		Name:     "MonEpice&Riz Koumassi",
		Address:  "Boulevard du Gabon, Koumassi, Abidjan",
		Phone:    "+2250505050505",
		Location: models.Coordinate{Latitude: 5.2897949, Longitude: -3.9208984},
		Hours: map[time.Weekday]Window{
			time.Monday:    {Open: "08:00", Close: "20:00"},
			time.Tuesday:   {Open: "08:00", Close: "20:00"},
			time.Wednesday: {Open: "08:00", Close: "20:00"},
			time.Thursday:  {Open: "08:00", Close: "20:00"},
			time.Friday:    {Open: "08:00", Close: "20:00"},
			time.Saturday:  {Open: "08:00", Close: "21:00"},
			// fermé le dimanche : pas de plage définie
		},
		DeliveryRadiusKm: 8,
		Active:           true,
	},
}
