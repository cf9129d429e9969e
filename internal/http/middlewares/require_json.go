package middlewares

import (
	"mime"
	"net/http"

	"github.com/geocoder89/shopapi/internal/apperr"
	"github.com/gin-gonic/gin"
)

// RequireJSON rejects write requests that carry a body in anything other than JSON.
// Bodyless requests such as DELETE pass through.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			mt, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
			if err != nil || mt != "application/json" {
				abortWith(c, apperr.UnsupportedMedia("Content-Type must be application/json"))
				return
			}
		}
		c.Next()
	}
}
