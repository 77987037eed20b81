package handler

import (
	"errors"
	"net/http"
	"time"

	"monepiceriz/internal/location"
	"monepiceriz/internal/models"
	"monepiceriz/internal/selection"
	"monepiceriz/internal/store"

	"github.com/gin-gonic/gin"
)

type SelectionHandler struct {
	selections *selection.Manager
	hub        *location.Hub
	resolver   *store.Resolver
}

func NewSelectionHandler(selections *selection.Manager, hub *location.Hub, resolver *store.Resolver) *SelectionHandler {
	return &SelectionHandler{selections: selections, hub: hub, resolver: resolver}
}

// GetSelectionHandler retourne l'état de sélection de la session et la
// fiche du magasin sélectionné.
func (h *SelectionHandler) GetSelectionHandler(c *gin.Context) {
	session := c.Param("session")
	ctx := c.Request.Context()

	st := h.selections.ForSession(ctx, session).State()
	c.JSON(http.StatusOK, gin.H{
		"state": st,
		"store": h.resolver.ByCode(st.SelectedStore),
	})
}

// RefreshHandler force une résolution : demande de position, magasin
// le plus proche, sélection. Les erreurs d'environnement portent le
// message utilisateur en français.
func (h *SelectionHandler) RefreshHandler(c *gin.Context) {
	session := c.Param("session")
	ctx := c.Request.Context()

	st, err := h.selections.ForSession(ctx, session).RequestLocation(ctx)
	if err != nil {
		c.JSON(locationStatus(err), gin.H{
			"error": selection.UserMessage(err),
			"state": st,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state": st,
		"store": h.resolver.ByCode(st.SelectedStore),
	})
}

type locationRequest struct {
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
	Accuracy  float64 `json:"accuracy" binding:"omitempty,min=0"`
}

// ReportLocationHandler enregistre un relevé de position poussé par le
// client ; il réveille les demandes de position en attente.
func (h *SelectionHandler) ReportLocationHandler(c *gin.Context) {
	session := c.Param("session")
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coordonnées invalides"})
		return
	}

	h.hub.Report(session, models.Coordinate{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Accuracy:  req.Accuracy,
		Timestamp: time.Now(),
	})
	c.Status(http.StatusNoContent)
}

// DenyHandler enregistre un refus de géolocalisation côté client.
func (h *SelectionHandler) DenyHandler(c *gin.Context) {
	h.hub.Deny(c.Param("session"))
	c.Status(http.StatusNoContent)
}

type selectStoreRequest struct {
	Store string `json:"store" binding:"required"`
}

// SelectStoreHandler force un magasin, indépendamment de la position.
func (h *SelectionHandler) SelectStoreHandler(c *gin.Context) {
	session := c.Param("session")
	var req selectStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corps de requête invalide"})
		return
	}
	ctx := c.Request.Context()

	cache := h.selections.ForSession(ctx, session)
	if err := cache.SetSelectedStore(ctx, store.Code(req.Store)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code de magasin inconnu"})
		return
	}
	st := cache.State()
	c.JSON(http.StatusOK, gin.H{
		"state": st,
		"store": h.resolver.ByCode(st.SelectedStore),
	})
}

func locationStatus(err error) int {
	switch {
	case errors.Is(err, selection.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, selection.ErrLocationTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusServiceUnavailable
	}
}
