package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"monepiceriz/internal/kv"
	"monepiceriz/internal/location"
	"monepiceriz/internal/selection"
	"monepiceriz/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupSelection(t *testing.T) *SelectionHandler {
	t.Helper()
	resolver := store.NewResolver()
	hub := location.NewHub()
	manager := selection.NewManager(resolver, kv.NewMemory(), hub.ProviderFor, selection.DefaultConfig())
	return NewSelectionHandler(manager, hub, resolver)
}

type selectionResponse struct {
	State selection.State `json:"state"`
	Store *store.Store    `json:"store"`
}

func TestSelectionHandler_GetSelectionHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := setupSelection(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = []gin.Param{{Key: "session", Value: "s1"}}
	c.Request = httptest.NewRequest("GET", "/", nil)

	h.GetSelectionHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var res selectionResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	// tant que rien n'est résolu : magasin par défaut
	assert.Equal(t, store.DefaultCode, res.State.SelectedStore)
	assert.NotNil(t, res.Store)
}

// Parcours complet : le client pousse sa position, puis force une
// résolution. Le magasin le plus proche est sélectionné.
func TestSelectionHandler_ReportPuisRefresh(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := setupSelection(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = []gin.Param{{Key: "session", Value: "s1"}}
	jsonRequest(c, "POST", `{"latitude":5.29,"longitude":-3.921,"accuracy":15}`)

	h.ReportLocationHandler(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Params = []gin.Param{{Key: "session", Value: "s1"}}
	c.Request = httptest.NewRequest("POST", "/", nil)

	h.RefreshHandler(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var res selectionResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, store.Koumassi, res.State.SelectedStore)
	assert.Equal(t, store.Koumassi, res.Store.Code)
}

func TestSelectionHandler_RefusDeGeolocalisation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := setupSelection(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = []gin.Param{{Key: "session", Value: "s1"}}
	c.Request = httptest.NewRequest("POST", "/", nil)

	h.DenyHandler(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Params = []gin.Param{{Key: "session", Value: "s1"}}
	c.Request = httptest.NewRequest("POST", "/", nil)

	h.RefreshHandler(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var res struct {
		Error string          `json:"error"`
		State selection.State `json:"state"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Contains(t, res.Error, "refusé")
	// le refus ne dégrade pas le magasin par défaut
	assert.Equal(t, store.DefaultCode, res.State.SelectedStore)
}

func TestSelectionHandler_CoordonneesInvalides(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := setupSelection(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = []gin.Param{{Key: "session", Value: "s1"}}
	jsonRequest(c, "POST", `{"latitude":95,"longitude":-3.921}`)

	h.ReportLocationHandler(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSelectionHandler_SelectStoreHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := setupSelection(t)

	t.Run("Code valide", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = []gin.Param{{Key: "session", Value: "s1"}}
		jsonRequest(c, "POST", `{"store":"KOUMASSI"}`)

		h.SelectStoreHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var res selectionResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, store.Koumassi, res.State.SelectedStore)
	})

	t.Run("Code inconnu", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = []gin.Param{{Key: "session", Value: "s1"}}
		jsonRequest(c, "POST", `{"store":"PARIS"}`)

		h.SelectStoreHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
