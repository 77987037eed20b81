package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"monepiceriz/internal/cart"
	"monepiceriz/internal/kv"
	"monepiceriz/internal/logger/sl"
	"monepiceriz/internal/models"
)

// ErrProductNotFound distingue un produit inconnu des erreurs
// d'infrastructure, pour que le handler puisse répondre 404.
var ErrProductNotFound = errors.New("produit introuvable")

// ProductProvider fournit les données catalogue dont le panier a besoin.
//
//go:generate mockery --name=ProductProvider --output=./mocks --case=underscore
type ProductProvider interface {
	GetProduct(ctx context.Context, id string) (models.Product, error)
}

// CartService gère les paniers de session : lignes persistées dans le
// stockage clé/valeur, prix figés depuis le catalogue à l'ajout.
type CartService struct {
	storage        kv.Storage
	products       ProductProvider
	deliveryFee    int
	preparationFee int
}

func NewCartService(storage kv.Storage, products ProductProvider, deliveryFee, preparationFee int) *CartService {
	return &CartService{
		storage:        storage,
		products:       products,
		deliveryFee:    deliveryFee,
		preparationFee: preparationFee,
	}
}

const cartSchemaVersion = 1

// cartEnvelope est la forme persistée des lignes, versionnée pour la
// migration.
type cartEnvelope struct {
	Version int               `json:"version"`
	Lines   []models.CartLine `json:"lines"`
}

func cartKey(session string) string {
	return "monepiceriz:cart:" + session
}

// AddItem ajoute quantity unités du produit au panier de la session.
func (s *CartService) AddItem(ctx context.Context, session, productID string, quantity int) (models.Cart, error) {
	agg, err := s.load(ctx, session)
	if err != nil {
		return models.Cart{}, err
	}

	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return models.Cart{}, fmt.Errorf("%w: %v", ErrProductNotFound, err)
	}
	if err := agg.AddItem(p, quantity); err != nil {
		return models.Cart{}, err
	}
	if err := s.save(ctx, session, agg); err != nil {
		return models.Cart{}, err
	}

	slog.Info("ligne ajoutée au panier",
		"session", session, "product_id", productID, "quantity", quantity, sl.Traced(ctx))
	return agg.Cart(), nil
}

// UpdateQuantity fixe la quantité d'une ligne ; <= 0 supprime la ligne.
func (s *CartService) UpdateQuantity(ctx context.Context, session, productID string, quantity int) (models.Cart, error) {
	agg, err := s.load(ctx, session)
	if err != nil {
		return models.Cart{}, err
	}
	agg.UpdateQuantity(productID, quantity)
	if err := s.save(ctx, session, agg); err != nil {
		return models.Cart{}, err
	}
	return agg.Cart(), nil
}

// RemoveItem supprime la ligne du produit ; produit absent : no-op.
func (s *CartService) RemoveItem(ctx context.Context, session, productID string) (models.Cart, error) {
	agg, err := s.load(ctx, session)
	if err != nil {
		return models.Cart{}, err
	}
	agg.RemoveItem(productID)
	if err := s.save(ctx, session, agg); err != nil {
		return models.Cart{}, err
	}
	return agg.Cart(), nil
}

// GetCart dérive la vue du panier depuis les lignes persistées.
func (s *CartService) GetCart(ctx context.Context, session string) (models.Cart, error) {
	agg, err := s.load(ctx, session)
	if err != nil {
		return models.Cart{}, err
	}
	return agg.Cart(), nil
}

// Clear vide le panier de la session.
func (s *CartService) Clear(ctx context.Context, session string) error {
	if err := s.storage.RemoveItem(ctx, cartKey(session)); err != nil {
		return fmt.Errorf("suppression du panier: %w", err)
	}
	return nil
}

func (s *CartService) load(ctx context.Context, session string) (*cart.Aggregator, error) {
	agg := cart.NewAggregator(s.deliveryFee, s.preparationFee)

	raw, ok, err := s.storage.GetItem(ctx, cartKey(session))
	if err != nil {
		return nil, fmt.Errorf("lecture du panier: %w", err)
	}
	if !ok {
		return agg, nil
	}

	var env cartEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil || env.Version != cartSchemaVersion {
		// panier illisible ou d'une version inconnue : on repart d'un
		// panier vide plutôt que d'échouer
		slog.Warn("panier persisté illisible, réinitialisation", "session", session)
		return agg, nil
	}
	agg.Restore(env.Lines)
	return agg, nil
}

func (s *CartService) save(ctx context.Context, session string, agg *cart.Aggregator) error {
	env := cartEnvelope{Version: cartSchemaVersion, Lines: agg.Lines()}
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("sérialisation du panier: %w", err)
	}
	if err := s.storage.SetItem(ctx, cartKey(session), string(raw)); err != nil {
		return fmt.Errorf("écriture du panier: %w", err)
	}
	return nil
}
