package middlewares

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

const noCompressionHeader = "X-No-Compression"

// Compression gzips responses unless the client opts out with X-No-Compression.
// DELETE and HEAD answer without a body here and are left alone.
// It swaps the context writer, so it has to sit outside ErrorHandler.
func Compression() gin.HandlerFunc {
	gz := gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"}))

	return func(c *gin.Context) {
		if c.GetHeader(noCompressionHeader) != "" || bodyless(c.Request.Method) {
			c.Next()
			return
		}
		gz(c)
	}
}

func bodyless(method string) bool {
	return method == http.MethodDelete || method == http.MethodHead
}
