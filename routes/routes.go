package routes

import (
	"storefront/controllers"
	"storefront/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, ctl *controllers.Controller, cartMaxAge int) {

	api := r.Group("/api")
	{
		api.GET("/health", ctl.Health)

		api.GET("/products", ctl.GetProductsPublic)
		api.GET("/products/stream", ctl.StreamProductsPublic)
		api.GET("/config/homepage", ctl.GetHomepage)
		api.GET("/config/homepage/stream", ctl.StreamHomepage)

		shop := api.Group("/")
		shop.Use(middleware.CartSession(cartMaxAge))
		{
			shop.GET("/cart", ctl.GetCart)
			shop.POST("/cart", ctl.AddToCart)
			shop.PUT("/cart/:itemId", ctl.UpdateCart)
			shop.DELETE("/cart/:itemId", ctl.RemoveFromCart)
			shop.DELETE("/cart", ctl.ClearCart)

			shop.POST("/checkout", ctl.SubmitOrder)
		}

		api.POST("/admin/login", ctl.Login)

		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuth(ctl.Auth))
		{
			admin.POST("/logout", ctl.Logout)

			admin.GET("/orders", ctl.GetOrdersAdmin)
			admin.GET("/orders/stream", ctl.StreamOrdersAdmin)
			admin.GET("/orders/:id", ctl.GetOrderByIDAdmin)
			admin.PUT("/orders/:id/status", ctl.UpdateOrderStatus)
			admin.DELETE("/orders/:id", ctl.DeleteOrder)

			admin.GET("/products", ctl.GetProductsAdmin)
			admin.GET("/products/stream", ctl.StreamProductsAdmin)
			admin.POST("/products", ctl.CreateProduct)
			admin.PUT("/products/:id", ctl.UpdateProduct)
			admin.DELETE("/products/:id", ctl.DeleteProduct)
			admin.PATCH("/products/:id/availability", ctl.ToggleProductAvailability)
			admin.POST("/products/:id/image", ctl.UploadProductImage)

			admin.GET("/config/contact", ctl.GetContact)
			admin.GET("/config/contact/stream", ctl.StreamContact)
			admin.PUT("/config/contact", ctl.SaveContact)
			admin.PUT("/config/homepage", ctl.SaveHomepage)
			admin.POST("/config/homepage/image", ctl.UploadHeroImage)
		}
	}
}
