package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(products *ProductHandler, carts *CartHandler, stores *StoreHandler, phones *PhoneHandler, selections *SelectionHandler) *gin.Engine {
	router := gin.Default()
	// "monepiceriz-storefront" est le nom sous lequel chercher les traces
	router.Use(otelgin.Middleware("monepiceriz-storefront"))

	router.Static("/static", "static")
	router.StaticFile("/", "static/index.html")

	router.Use(MetricsMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.String(200, "Le serveur fonctionne")
	})

	api := router.Group("/api")
	{
		api.POST("/sessions", NewSessionHandler)

		api.GET("/products/:id", products.GetProductHandler)

		api.GET("/stores", stores.ListStoresHandler)
		api.GET("/stores/nearest", stores.NearestStoreHandler)
		api.GET("/stores/:code", stores.GetStoreHandler)

		api.GET("/phone/:number", phones.InspectHandler)

		cartAPI := api.Group("/cart/:session")
		{
			cartAPI.GET("", carts.GetCartHandler)
			cartAPI.DELETE("", carts.ClearCartHandler)
			cartAPI.POST("/items", carts.AddItemHandler)
			cartAPI.PATCH("/items/:product_id", carts.UpdateQuantityHandler)
			cartAPI.DELETE("/items/:product_id", carts.RemoveItemHandler)
		}

		selectionAPI := api.Group("/selection/:session")
		{
			selectionAPI.GET("", selections.GetSelectionHandler)
			selectionAPI.POST("/refresh", selections.RefreshHandler)
			selectionAPI.POST("/store", selections.SelectStoreHandler)
			selectionAPI.POST("/location", selections.ReportLocationHandler)
			selectionAPI.POST("/denied", selections.DenyHandler)
		}
	}
	return router
}
