package controllers

import (
	"net/http"

	"storefront/media"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) CreateProduct(c *gin.Context) {
	var input services.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	product, err := ctl.Catalog.Create(c.Request.Context(), input)
	if err != nil {
		ctl.fail(c, "create product", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Product created", "data": product})
}

func (ctl *Controller) GetProductsAdmin(c *gin.Context) {
	products, err := ctl.Catalog.ListAll(c.Request.Context())
	if err != nil {
		ctl.fail(c, "fetch products", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Fetch products success",
		"count":   len(products),
		"data":    products,
	})
}

func (ctl *Controller) StreamProductsAdmin(c *gin.Context) {
	feed, err := ctl.Catalog.Subscribe(c.Request.Context(), false)
	if err != nil {
		ctl.fail(c, "subscribe to products", err)
		return
	}
	streamFeed[[]models.Product](c, feed, "products")
}

func (ctl *Controller) UpdateProduct(c *gin.Context) {
	var patch services.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	product, err := ctl.Catalog.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		ctl.fail(c, "update product", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "data": product})
}

func (ctl *Controller) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if err := ctl.Catalog.Delete(c.Request.Context(), id); err != nil {
		ctl.fail(c, "delete product", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted", "id": id})
}

func (ctl *Controller) ToggleProductAvailability(c *gin.Context) {
	product, err := ctl.Catalog.ToggleAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		ctl.fail(c, "update availability", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Availability updated", "data": product})
}

// UploadProductImage stores the multipart "image" file inline on the
// product. A rejected file leaves the current image untouched.
func (ctl *Controller) UploadProductImage(c *gin.Context) {
	dataURI, ok := ctl.readImage(c, media.ProductImageMaxBytes)
	if !ok {
		return
	}

	product, err := ctl.Catalog.Update(c.Request.Context(), c.Param("id"), services.ProductPatch{ImageURL: &dataURI})
	if err != nil {
		ctl.fail(c, "update product image", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image updated", "data": product})
}

func (ctl *Controller) readImage(c *gin.Context, maxBytes int64) (string, bool) {
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file required"})
		return "", false
	}
	if header.Size > maxBytes {
		ctl.fail(c, "read image", media.ErrImageTooLarge)
		return "", false
	}

	f, err := header.Open()
	if err != nil {
		ctl.fail(c, "read image", err)
		return "", false
	}
	defer f.Close()

	dataURI, err := media.EncodeDataURI(f, maxBytes)
	if err != nil {
		ctl.fail(c, "read image", err)
		return "", false
	}
	return dataURI, true
}
