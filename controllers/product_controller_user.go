package controllers

import (
	"net/http"

	"storefront/models"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) GetProductsPublic(c *gin.Context) {
	products, err := ctl.Catalog.ListAvailable(c.Request.Context())
	if err != nil {
		ctl.fail(c, "fetch products", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": products})
}

func (ctl *Controller) StreamProductsPublic(c *gin.Context) {
	feed, err := ctl.Catalog.Subscribe(c.Request.Context(), true)
	if err != nil {
		ctl.fail(c, "subscribe to products", err)
		return
	}
	streamFeed[[]models.Product](c, feed, "products")
}
