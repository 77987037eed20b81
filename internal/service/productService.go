// Package service porte la logique métier : catalogue de produits et
// paniers de session, coordination entre cache, base et stockage durable.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"monepiceriz/internal/metric"
	"monepiceriz/internal/models"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// ProductRepository décrit le contrat de stockage durable du catalogue.
// Il isole la logique métier de la base de données.
//
//go:generate mockery --name=ProductRepository --output=./mocks --case=underscore
type ProductRepository interface {
	Save(ctx context.Context, p models.Product) error
	Get(ctx context.Context, id string) (models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
}

// ProductCache décrit le contrat du cache mémoire des produits.
//
//go:generate mockery --name=ProductCache --output=./mocks --case=underscore
type ProductCache interface {
	Set(id string, p *models.Product)
	Get(id string) (*models.Product, bool)
}

// ProductService traite les messages catalogue venus du broker, sert
// les lectures cache d'abord et réhydrate le cache au démarrage.
type ProductService struct {
	repo     ProductRepository
	cache    ProductCache
	validate *validator.Validate
}

func NewProductService(repo ProductRepository, cache ProductCache) *ProductService {
	return &ProductService{
		repo:     repo,
		cache:    cache,
		validate: validator.New(),
	}
}

// HandleCatalogMessage traite un message produit du topic catalogue.
func (s *ProductService) HandleCatalogMessage(ctx context.Context, data []byte) error {
	tr := otel.Tracer("productService")
	ctx, span := tr.Start(ctx, "HandleCatalogMessage")
	defer span.End()

	var product models.Product

	// 1. Parsing
	if err := json.Unmarshal(data, &product); err != nil {
		return fmt.Errorf("message illisible, ignoré: %v", err)
	}

	span.SetAttributes(attribute.String("product_id", product.ID))
	// 2. Validation avant écriture en base
	if err := s.validateProduct(&product); err != nil {
		return fmt.Errorf("validation échouée: %v", err)
	}

	start := time.Now()
	// 3. Écriture en base
	if err := s.repo.Save(ctx, product); err != nil {
		span.RecordError(err)
		metric.DbOperationsTotal.WithLabelValues("save", "error").Inc()
		return fmt.Errorf("écriture en base: %v", err)
	}
	span.AddEvent("produit enregistré en base")

	metric.DbOperationsTotal.WithLabelValues("save", "success").Inc()
	metric.DbDuration.WithLabelValues("save").Observe(time.Since(start).Seconds())

	// 4. Mise en cache
	s.cache.Set(product.ID, &product)
	span.AddEvent("produit mis en cache")

	return nil
}

// GetProduct sert le produit depuis le cache, avec repli sur la base.
func (s *ProductService) GetProduct(ctx context.Context, id string) (models.Product, error) {
	tr := otel.Tracer("productService")
	ctx, span := tr.Start(ctx, "Service.GetProduct")
	defer span.End()

	// 1. Recherche en cache
	if fromCache, ok := s.cache.Get(id); ok {
		metric.CacheHitsTotal.WithLabelValues("hit").Inc()
		return *fromCache, nil
	}
	metric.CacheHitsTotal.WithLabelValues("miss").Inc()

	span.SetAttributes(attribute.String("product_id", id))
	// 2. Repli sur la base, en propageant le contexte
	found, err := s.repo.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		metric.DbOperationsTotal.WithLabelValues("get", "error").Inc()
		return models.Product{}, fmt.Errorf("produit introuvable en base: %w", err)
	}

	// 3. Trouvé en base : on rafraîchit le cache
	s.cache.Set(id, &found)
	metric.DbOperationsTotal.WithLabelValues("get", "success").Inc()

	return found, nil
}

// ReCache réhydrate le cache depuis la base au démarrage.
func (s *ProductService) ReCache(ctx context.Context) error {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("lecture du catalogue au démarrage: %w", err)
	}

	for i := range products {
		s.cache.Set(products[i].ID, &products[i])
	}
	metric.CacheSize.Set(float64(len(products)))
	log.Printf("Cache catalogue restauré: %d produits chargés", len(products))
	return nil
}

// validateProduct combine les tags de validation et les règles que les
// tags ne savent pas exprimer.
func (s *ProductService) validateProduct(p *models.Product) error {
	if err := s.validate.Struct(p); err != nil {
		return err
	}
	if p.IsPromo && p.PromoPrice == nil {
		return fmt.Errorf("produit en promotion sans prix promo")
	}
	return nil
}
