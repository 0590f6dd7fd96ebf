package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "produce-market/internal/transport/http/response"
)

// MaxBodyBytes caps the request body. A declared length over n is refused up
// front; a chunked body that overruns fails at bind time.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			resp.Abort(c, resp.CodeTooLarge, "request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
