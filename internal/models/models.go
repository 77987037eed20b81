// Package models contient les structures de données (DTO) partagées
// entre les couches de l'application et pour le mapping JSON/DB.
package models

import "time"

// Product représente un produit du catalogue. Les prix sont en FCFA
// (pas de centimes).
type Product struct {
	ID         string `json:"id" validate:"required"`
	Name       string `json:"name" validate:"required,min=2"`
	Category   string `json:"category"`
	Price      int    `json:"price" validate:"gt=0"`
	PromoPrice *int   `json:"promo_price,omitempty" validate:"omitempty,gt=0"`
	IsPromo    bool   `json:"is_promo"`
	InStock    bool   `json:"in_stock"`
}

// EffectivePrice retourne le prix promo si le produit est en promotion
// et qu'un prix promo est défini, sinon le prix de base.
func (p Product) EffectivePrice() int {
	if p.IsPromo && p.PromoPrice != nil && *p.PromoPrice > 0 {
		return *p.PromoPrice
	}
	return p.Price
}

// CartLine est une ligne de panier : un produit et une quantité.
// Les prix sont figés au moment de l'ajout (instantané du catalogue).
type CartLine struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	UnitPrice  int    `json:"unit_price"`
	PromoPrice *int   `json:"promo_price,omitempty"`
	IsPromo    bool   `json:"is_promo"`
	Quantity   int    `json:"quantity"`
}

// EffectiveUnitPrice applique la même règle promo que Product.
func (l CartLine) EffectiveUnitPrice() int {
	if l.IsPromo && l.PromoPrice != nil && *l.PromoPrice > 0 {
		return *l.PromoPrice
	}
	return l.UnitPrice
}

// LineTotal est le total de la ligne au prix effectif.
func (l CartLine) LineTotal() int {
	return l.EffectiveUnitPrice() * l.Quantity
}

// Cart est la vue dérivée du panier, recalculée à chaque lecture.
type Cart struct {
	Lines          []CartLine `json:"lines"`
	ItemCount      int        `json:"item_count"`
	Subtotal       int        `json:"subtotal"`
	DeliveryFee    int        `json:"delivery_fee"`
	PreparationFee int        `json:"preparation_fee"`
	Total          int        `json:"total"`
}

// Coordinate est une paire latitude/longitude en degrés (WGS84),
// avec une précision optionnelle en mètres et l'heure du relevé.
type Coordinate struct {
	Latitude  float64   `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64   `json:"longitude" validate:"gte=-180,lte=180"`
	Accuracy  float64   `json:"accuracy,omitempty" validate:"gte=0"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}
