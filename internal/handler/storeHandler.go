package handler

import (
	"net/http"
	"strconv"
	"time"

	"monepiceriz/internal/metric"
	"monepiceriz/internal/models"
	"monepiceriz/internal/store"

	"github.com/gin-gonic/gin"
)

type StoreHandler struct {
	resolver *store.Resolver
}

func NewStoreHandler(resolver *store.Resolver) *StoreHandler {
	return &StoreHandler{resolver: resolver}
}

// ListStoresHandler retourne la table des magasins ; avec lat/lon en
// query, chaque magasin porte sa distance et la liste est triée.
func (h *StoreHandler) ListStoresHandler(c *gin.Context) {
	loc, ok, err := coordinateFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètres lat/lon invalides"})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"stores": h.resolver.Stores()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stores": h.resolver.WithDistances(loc)})
}

// NearestStoreHandler résout le magasin le plus proche de lat/lon.
func (h *StoreHandler) NearestStoreHandler(c *gin.Context) {
	loc, ok, err := coordinateFromQuery(c)
	if err != nil || !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètres lat/lon requis"})
		return
	}

	nearest := h.resolver.Nearest(loc)
	metric.StoreResolutionsTotal.WithLabelValues(string(nearest.Store.Code)).Inc()

	c.JSON(http.StatusOK, gin.H{
		"store":                  nearest.Store,
		"distance_km":            nearest.DistanceKm,
		"within_delivery_radius": h.resolver.IsWithinDeliveryRadius(loc, nearest.Store.Code),
		"is_open":                h.resolver.IsOpenAt(nearest.Store.Code, time.Now()),
	})
}

// GetStoreHandler retourne un magasin par son code, avec son état
// d'ouverture à l'instant de la requête.
func (h *StoreHandler) GetStoreHandler(c *gin.Context) {
	code := store.Code(c.Param("code"))
	s := h.resolver.ByCode(code)
	if s == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Magasin inconnu"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"store":   s,
		"is_open": h.resolver.IsOpenAt(code, time.Now()),
	})
}

// coordinateFromQuery lit lat/lon ; (zero, false, nil) si absents tous
// les deux, erreur si l'un des deux est illisible ou manquant.
func coordinateFromQuery(c *gin.Context) (models.Coordinate, bool, error) {
	rawLat, rawLon := c.Query("lat"), c.Query("lon")
	if rawLat == "" && rawLon == "" {
		return models.Coordinate{}, false, nil
	}
	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return models.Coordinate{}, false, err
	}
	lon, err := strconv.ParseFloat(rawLon, 64)
	if err != nil {
		return models.Coordinate{}, false, err
	}
	return models.Coordinate{Latitude: lat, Longitude: lon}, true, nil
}
