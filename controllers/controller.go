package controllers

import (
	"errors"
	"net/http"

	"storefront/cart"
	"storefront/database"
	"storefront/media"
	"storefront/middleware"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Controller carries the services every handler works against.
type Controller struct {
	Catalog    *services.CatalogService
	SiteConfig *services.SiteConfigService
	Checkout   *services.CheckoutService
	Orders     *services.OrderBoard
	Auth       *services.AdminAuth
	Carts      cart.Storage
	Store      database.Store
	Log        *zap.Logger
}

func (ctl *Controller) openCart(c *gin.Context) *cart.Holder {
	return cart.Open(c.Request.Context(), ctl.Carts, c.GetString(middleware.CartSessionKey), ctl.Log)
}

// fail maps service errors to an HTTP status and an {"error": ...} body.
// Unexpected errors are logged and reported as op.
func (ctl *Controller) fail(c *gin.Context, op string, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "fields": verr.Fields})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrProductUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnknownStatus),
		errors.Is(err, services.ErrConfirmationRequired),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, cart.ErrVariationRequired),
		errors.Is(err, cart.ErrUnknownVariation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrMissingBusinessPhone):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, media.ErrImageTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, media.ErrUnsupportedImage):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Senha incorreta. Tente novamente."})
	default:
		ctl.Log.Error(op, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + op})
	}
}

func (ctl *Controller) Health(c *gin.Context) {
	if err := ctl.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "error": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
