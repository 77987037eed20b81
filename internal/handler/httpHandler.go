package handler

import (
	"context"
	"net/http"
	"time"

	"monepiceriz/internal/metric"
	"monepiceriz/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ProductProvider sert les lectures du catalogue.
//
//go:generate mockery --name=ProductProvider --output=./mocks --case=underscore
type ProductProvider interface {
	GetProduct(ctx context.Context, id string) (models.Product, error)
}

type ProductHandler struct {
	service ProductProvider
}

func NewProductHandler(s ProductProvider) *ProductHandler {
	return &ProductHandler{service: s}
}

// GetProductHandler sert un produit du catalogue par son id, depuis le
// cache avec repli sur la base.
func (h *ProductHandler) GetProductHandler(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant produit manquant"})
		return
	}
	ctx := c.Request.Context()

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String("http.request.product_id", id))

	product, err := h.service.GetProduct(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// NewSessionHandler délivre un identifiant de session pour le panier et
// la sélection de magasin.
func NewSessionHandler(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"session_id": uuid.NewString()})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()
		// le handler a tourné : on fixe la durée et le statut
		duration := time.Since(start)
		status := c.Writer.Status()

		metric.ObserveRequest(duration, status)
	}
}
