package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"monepiceriz/internal/handler/mocks"
	"monepiceriz/internal/models"
	"monepiceriz/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func jsonRequest(c *gin.Context, method, body string) {
	c.Request = httptest.NewRequest(method, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
}

func TestCartHandler_AddItemHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Ajout réussi", func(t *testing.T) {
		mockCarts := mocks.NewCartManager(t)
		expected := models.Cart{
			Lines:     []models.CartLine{{ProductID: "riz", Quantity: 2, UnitPrice: 6500}},
			ItemCount: 2,
			Subtotal:  13000,
		}
		mockCarts.On("AddItem", mock.Anything, "s1", "riz", 2).Return(expected, nil)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = []gin.Param{{Key: "session", Value: "s1"}}
		jsonRequest(c, "POST", `{"product_id":"riz","quantity":2}`)

		NewCartHandler(mockCarts).AddItemHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var res models.Cart
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, 2, res.ItemCount)
	})

	t.Run("Quantité omise : 1 par défaut", func(t *testing.T) {
		mockCarts := mocks.NewCartManager(t)
		mockCarts.On("AddItem", mock.Anything, "s1", "riz", 1).Return(models.Cart{ItemCount: 1}, nil)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = []gin.Param{{Key: "session", Value: "s1"}}
		jsonRequest(c, "POST", `{"product_id":"riz"}`)

		NewCartHandler(mockCarts).AddItemHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Quantité négative", func(t *testing.T) {
		mockCarts := mocks.NewCartManager(t)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = []gin.Param{{Key: "session", Value: "s1"}}
		jsonRequest(c, "POST", `{"product_id":"riz","quantity":-2}`)

		NewCartHandler(mockCarts).AddItemHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockCarts.AssertNotCalled(t, "AddItem")
	})

	t.Run("Corps sans product_id", func(t *testing.T) {
		mockCarts := mocks.NewCartManager(t)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = []gin.Param{{Key: "session", Value: "s1"}}
		jsonRequest(c, "POST", `{"quantity":2}`)

		NewCartHandler(mockCarts).AddItemHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockCarts.AssertNotCalled(t, "AddItem")
	})

	t.Run("Produit inconnu", func(t *testing.T) {
		mockCarts := mocks.NewCartManager(t)
		mockCarts.On("AddItem", mock.Anything, "s1", "inconnu", 1).
			Return(models.Cart{}, fmt.Errorf("%w: sql no rows", service.ErrProductNotFound))

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = []gin.Param{{Key: "session", Value: "s1"}}
		jsonRequest(c, "POST", `{"product_id":"inconnu"}`)

		NewCartHandler(mockCarts).AddItemHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCartHandler_UpdateQuantityHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockCarts := mocks.NewCartManager(t)
	mockCarts.On("UpdateQuantity", mock.Anything, "s1", "riz", 0).Return(models.Cart{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = []gin.Param{
		{Key: "session", Value: "s1"},
		{Key: "product_id", Value: "riz"},
	}
	jsonRequest(c, "PATCH", `{"quantity":0}`)

	NewCartHandler(mockCarts).UpdateQuantityHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartHandler_GetCartHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockCarts := mocks.NewCartManager(t)
	mockCarts.On("GetCart", mock.Anything, "s1").Return(models.Cart{ItemCount: 3, Total: 5000}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = []gin.Param{{Key: "session", Value: "s1"}}
	c.Request = httptest.NewRequest("GET", "/", nil)

	NewCartHandler(mockCarts).GetCartHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var res models.Cart
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 3, res.ItemCount)
}

func TestCartHandler_ClearCartHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockCarts := mocks.NewCartManager(t)
	mockCarts.On("Clear", mock.Anything, "s1").Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = []gin.Param{{Key: "session", Value: "s1"}}
	c.Request = httptest.NewRequest("DELETE", "/", nil)

	NewCartHandler(mockCarts).ClearCartHandler(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
}
