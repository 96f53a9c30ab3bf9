package controllers

import (
	"net/http"
	"time"

	"storefront/messaging"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) GetOrdersAdmin(c *gin.Context) {
	board, err := ctl.Orders.Board(c.Request.Context())
	if err != nil {
		ctl.fail(c, "fetch orders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Fetch success",
		"greeting": messaging.Greeting(time.Now()),
		"data":     board,
	})
}

func (ctl *Controller) StreamOrdersAdmin(c *gin.Context) {
	feed, err := ctl.Orders.Subscribe(c.Request.Context())
	if err != nil {
		ctl.fail(c, "subscribe to orders", err)
		return
	}
	streamFeed[services.Board](c, feed, "orders")
}

func (ctl *Controller) GetOrderByIDAdmin(c *gin.Context) {
	order, err := ctl.Orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		ctl.fail(c, "fetch order", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Fetch success",
		"data":        order,
		"transitions": services.AvailableTransitions(order.Status),
	})
}

func (ctl *Controller) UpdateOrderStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	n, err := ctl.Orders.Transition(c.Request.Context(), c.Param("id"), models.OrderStatus(body.Status))
	if err != nil {
		ctl.fail(c, "update order", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated",
		"data":    n,
	})
}

// DeleteOrder requires ?confirm=true; deletion cannot be undone.
func (ctl *Controller) DeleteOrder(c *gin.Context) {
	id := c.Param("id")
	if err := ctl.Orders.Delete(c.Request.Context(), id, c.Query("confirm") == "true"); err != nil {
		ctl.fail(c, "delete order", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted", "id": id})
}
