package controllers

import (
	"io"

	"storefront/services"

	"github.com/gin-gonic/gin"
)

// streamFeed writes every feed value as a server-sent event until the
// client goes away, then tears the feed down.
func streamFeed[T any](c *gin.Context, feed *services.Feed[T], event string) {
	defer feed.Close()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case v, ok := <-feed.C():
			if !ok {
				return false
			}
			c.SSEvent(event, v)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
