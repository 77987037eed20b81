package handler

import (
	"context"
	"errors"
	"net/http"

	"monepiceriz/internal/models"
	"monepiceriz/internal/service"

	"github.com/gin-gonic/gin"
)

// CartManager est le contrat du service de panier.
//
//go:generate mockery --name=CartManager --output=./mocks --case=underscore
type CartManager interface {
	AddItem(ctx context.Context, session, productID string, quantity int) (models.Cart, error)
	UpdateQuantity(ctx context.Context, session, productID string, quantity int) (models.Cart, error)
	RemoveItem(ctx context.Context, session, productID string) (models.Cart, error)
	GetCart(ctx context.Context, session string) (models.Cart, error)
	Clear(ctx context.Context, session string) error
}

type CartHandler struct {
	carts CartManager
}

func NewCartHandler(carts CartManager) *CartHandler {
	return &CartHandler{carts: carts}
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// AddItemHandler ajoute un produit au panier. Quantité omise : 1.
func (h *CartHandler) AddItemHandler(c *gin.Context) {
	session := c.Param("session")
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corps de requête invalide"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La quantité doit être positive"})
		return
	}

	res, err := h.carts.AddItem(c.Request.Context(), session, req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible de mettre à jour le panier"})
		return
	}
	c.JSON(http.StatusOK, res)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateQuantityHandler fixe la quantité d'une ligne ; 0 la supprime.
func (h *CartHandler) UpdateQuantityHandler(c *gin.Context) {
	session := c.Param("session")
	productID := c.Param("product_id")
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corps de requête invalide"})
		return
	}

	res, err := h.carts.UpdateQuantity(c.Request.Context(), session, productID, req.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible de mettre à jour le panier"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// RemoveItemHandler supprime la ligne du produit (no-op si absente).
func (h *CartHandler) RemoveItemHandler(c *gin.Context) {
	session := c.Param("session")
	productID := c.Param("product_id")

	res, err := h.carts.RemoveItem(c.Request.Context(), session, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible de mettre à jour le panier"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetCartHandler retourne la vue dérivée du panier de la session.
func (h *CartHandler) GetCartHandler(c *gin.Context) {
	session := c.Param("session")

	res, err := h.carts.GetCart(c.Request.Context(), session)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible de lire le panier"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// ClearCartHandler vide le panier de la session.
func (h *CartHandler) ClearCartHandler(c *gin.Context) {
	session := c.Param("session")

	if err := h.carts.Clear(c.Request.Context(), session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible de vider le panier"})
		return
	}
	c.Status(http.StatusNoContent)
}
