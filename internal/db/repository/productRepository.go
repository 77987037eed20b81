package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"monepiceriz/internal/models"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Save insère ou met à jour un produit du catalogue (upsert sur l'id).
func (r *ProductRepository) Save(ctx context.Context, p models.Product) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, name, category, price, promo_price, is_promo, in_stock)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
         ON CONFLICT (id) DO UPDATE SET
             name = EXCLUDED.name,
             category = EXCLUDED.category,
             price = EXCLUDED.price,
             promo_price = EXCLUDED.promo_price,
             is_promo = EXCLUDED.is_promo,
             in_stock = EXCLUDED.in_stock`,
		p.ID, p.Name, p.Category, p.Price, p.PromoPrice, p.IsPromo, p.InStock,
	)
	if err != nil {
		return fmt.Errorf("enregistrement du produit en base: %w", err)
	}
	return nil
}

// Get retourne un produit par son id.
func (r *ProductRepository) Get(ctx context.Context, id string) (models.Product, error) {
	var p models.Product
	var promo sql.NullInt64

	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, category, price, promo_price, is_promo, in_stock
         FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Category, &p.Price, &promo, &p.IsPromo, &p.InStock)
	if err != nil {
		return models.Product{}, fmt.Errorf("lecture du produit: %w", err)
	}
	if promo.Valid {
		v := int(promo.Int64)
		p.PromoPrice = &v
	}
	return p, nil
}

// GetAll retourne tout le catalogue (réhydratation du cache au démarrage).
func (r *ProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, category, price, promo_price, is_promo, in_stock FROM products`)
	if err != nil {
		return nil, fmt.Errorf("lecture du catalogue: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			log.Printf("fermeture des rows: %v", err)
		}
	}()

	for rows.Next() {
		var p models.Product
		var promo sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &promo, &p.IsPromo, &p.InStock); err != nil {
			return nil, fmt.Errorf("lecture d'une ligne du catalogue: %w", err)
		}
		if promo.Valid {
			v := int(promo.Int64)
			p.PromoPrice = &v
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("parcours du catalogue: %w", err)
	}

	return products, nil
}
