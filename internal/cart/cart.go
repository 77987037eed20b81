// Package cart agrège les lignes d'un panier et calcule les totaux.
// L'agrégateur est une instance injectable, pas un état global.
package cart

import (
	"fmt"

	"monepiceriz/internal/models"
)

// Frais fixes par défaut, en FCFA. Appliqués uniquement sur un panier
// non vide.
const (
	DefaultDeliveryFee    = 1000
	DefaultPreparationFee = 500
)

// Aggregator maintient au plus une ligne par produit, dans l'ordre
// d'insertion. Aucune mémoïsation : Cart() recalcule tout à chaque appel.
type Aggregator struct {
	lines          []models.CartLine
	deliveryFee    int
	preparationFee int
}

func NewAggregator(deliveryFee, preparationFee int) *Aggregator {
	return &Aggregator{
		deliveryFee:    deliveryFee,
		preparationFee: preparationFee,
	}
}

// Restore recharge des lignes persistées. Les quantités non positives
// sont écartées (la ligne n'existe plus).
func (a *Aggregator) Restore(lines []models.CartLine) {
	a.lines = a.lines[:0]
	for _, l := range lines {
		if l.Quantity > 0 {
			a.lines = append(a.lines, l)
		}
	}
}

// AddItem incrémente la ligne du produit de quantity, ou l'insère.
// Le prix est figé au moment de l'ajout. Quantité non positive : erreur.
func (a *Aggregator) AddItem(p models.Product, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantité invalide: %d", quantity)
	}
	for i := range a.lines {
		if a.lines[i].ProductID == p.ID {
			a.lines[i].Quantity += quantity
			return nil
		}
	}
	a.lines = append(a.lines, models.CartLine{
		ProductID:  p.ID,
		Name:       p.Name,
		UnitPrice:  p.Price,
		PromoPrice: p.PromoPrice,
		IsPromo:    p.IsPromo,
		Quantity:   quantity,
	})
	return nil
}

// RemoveItem supprime la ligne du produit. Produit absent : no-op.
func (a *Aggregator) RemoveItem(productID string) {
	for i := range a.lines {
		if a.lines[i].ProductID == productID {
			a.lines = append(a.lines[:i], a.lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity fixe la quantité de la ligne à quantity (pas un
// incrément). Quantité <= 0 : équivaut à RemoveItem. Produit absent :
// no-op.
func (a *Aggregator) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		a.RemoveItem(productID)
		return
	}
	for i := range a.lines {
		if a.lines[i].ProductID == productID {
			a.lines[i].Quantity = quantity
			return
		}
	}
}

// Clear vide toutes les lignes.
func (a *Aggregator) Clear() {
	a.lines = nil
}

// Lines retourne une copie des lignes courantes.
func (a *Aggregator) Lines() []models.CartLine {
	out := make([]models.CartLine, len(a.lines))
	copy(out, a.lines)
	return out
}

// Cart dérive la vue complète du panier. Les frais valent 0 sur un
// panier vide ; total = sous-total + frais.
func (a *Aggregator) Cart() models.Cart {
	c := models.Cart{Lines: a.Lines()}
	for _, l := range c.Lines {
		c.ItemCount += l.Quantity
		c.Subtotal += l.LineTotal()
	}
	if c.ItemCount > 0 {
		c.DeliveryFee = a.deliveryFee
		c.PreparationFee = a.preparationFee
	}
	c.Total = c.Subtotal + c.DeliveryFee + c.PreparationFee
	return c
}
