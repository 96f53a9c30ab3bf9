package controllers

import (
	"net/http"

	"storefront/services"

	"github.com/gin-gonic/gin"
)

// SubmitOrder turns the session cart into an order and answers with the
// WhatsApp link the client opens to hand the order to the shop.
func (ctl *Controller) SubmitOrder(c *gin.Context) {
	var details services.CustomerDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	h := ctl.openCart(c)
	receipt, err := ctl.Checkout.Submit(c.Request.Context(), h, details)
	if err != nil {
		ctl.fail(c, "create order", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Checkout success", "data": receipt})
}
