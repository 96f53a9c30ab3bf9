package controllers

import (
	"net/http"

	"storefront/media"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) GetHomepage(c *gin.Context) {
	home, err := ctl.SiteConfig.Homepage(c.Request.Context())
	if err != nil {
		ctl.fail(c, "fetch homepage", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": home})
}

func (ctl *Controller) StreamHomepage(c *gin.Context) {
	feed, err := ctl.SiteConfig.SubscribeHomepage(c.Request.Context())
	if err != nil {
		ctl.fail(c, "subscribe to homepage", err)
		return
	}
	streamFeed[models.HomepageConfig](c, feed, "homepage")
}

func (ctl *Controller) SaveHomepage(c *gin.Context) {
	var patch services.HomepagePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	home, err := ctl.SiteConfig.SaveHomepage(c.Request.Context(), patch)
	if err != nil {
		ctl.fail(c, "save homepage", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Homepage updated", "data": home})
}

func (ctl *Controller) UploadHeroImage(c *gin.Context) {
	dataURI, ok := ctl.readImage(c, media.HeroImageMaxBytes)
	if !ok {
		return
	}

	home, err := ctl.SiteConfig.SaveHomepage(c.Request.Context(), services.HomepagePatch{HeroImageURL: &dataURI})
	if err != nil {
		ctl.fail(c, "save homepage", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Homepage image updated", "data": home})
}

func (ctl *Controller) GetContact(c *gin.Context) {
	contact, err := ctl.SiteConfig.Contact(c.Request.Context())
	if err != nil {
		ctl.fail(c, "fetch contact", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": contact})
}

func (ctl *Controller) StreamContact(c *gin.Context) {
	feed, err := ctl.SiteConfig.SubscribeContact(c.Request.Context())
	if err != nil {
		ctl.fail(c, "subscribe to contact", err)
		return
	}
	streamFeed[models.ContactConfig](c, feed, "contact")
}

func (ctl *Controller) SaveContact(c *gin.Context) {
	var body models.ContactConfig
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := ctl.SiteConfig.SaveContact(c.Request.Context(), body.BusinessPhoneNumber); err != nil {
		ctl.fail(c, "save contact", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contact updated", "data": body})
}
