package api

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts every endpoint on r.
func RegisterRoutes(r gin.IRouter, h *Handler) {
	r.GET("/health", h.Health)

	r.GET("/recipes/search", h.SearchRecipes)
	r.GET("/recipes/logo", h.Logo)
	r.GET("/recipes/:id", h.GetRecipe)

	r.POST("/ai/transform", h.Transform)
	r.POST("/ai/chat", h.Chat)

	r.GET("/orders/kits", h.ListKits)
	r.POST("/orders", h.CreateOrder)
	r.GET("/orders", h.ListOrders)

	r.GET("/images/:name", h.Image)
}
