package controllers

import (
	"net/http"

	"storefront/cart"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

func cartView(h *cart.Holder) gin.H {
	return gin.H{
		"items":      h.Items(),
		"totalPrice": h.TotalPrice(),
		"totalItems": h.TotalItems(),
	}
}

func (ctl *Controller) GetCart(c *gin.Context) {
	h := ctl.openCart(c)
	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": cartView(h)})
}

func (ctl *Controller) AddToCart(c *gin.Context) {
	var body struct {
		ProductID string `json:"productId" binding:"required"`
		Variation string `json:"variation"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctx := c.Request.Context()
	product, err := ctl.Catalog.Get(ctx, body.ProductID)
	if err != nil {
		ctl.fail(c, "fetch product", err)
		return
	}
	if !product.IsAvailable {
		ctl.fail(c, "add to cart", services.ErrProductUnavailable)
		return
	}

	var variation *models.Variation
	if body.Variation != "" {
		variation = &models.Variation{Name: body.Variation}
	}

	h := ctl.openCart(c)
	if err := h.Add(ctx, product, variation); err != nil {
		ctl.fail(c, "add to cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Added to cart", "data": cartView(h)})
}

func (ctl *Controller) UpdateCart(c *gin.Context) {
	var body struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
		return
	}

	h := ctl.openCart(c)
	if err := h.UpdateQuantity(c.Request.Context(), c.Param("itemId"), *body.Quantity); err != nil {
		ctl.fail(c, "update cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart updated", "data": cartView(h)})
}

func (ctl *Controller) RemoveFromCart(c *gin.Context) {
	h := ctl.openCart(c)
	if err := h.Remove(c.Request.Context(), c.Param("itemId")); err != nil {
		ctl.fail(c, "remove from cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product removed from cart", "data": cartView(h)})
}

func (ctl *Controller) ClearCart(c *gin.Context) {
	h := ctl.openCart(c)
	if err := h.Clear(c.Request.Context()); err != nil {
		ctl.fail(c, "clear cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared", "data": cartView(h)})
}
