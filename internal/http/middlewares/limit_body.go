package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Account payloads are a handful of short strings; anything bigger than
// this is not a legitimate request.
const MaxAccountBodyBytes = 1 << 20

// LimitBody caps the request body. The reader fails once the limit is
// crossed, so an oversized payload dies inside JSON binding and comes
// back as a 400 instead of being buffered whole.
func LimitBody(limit int64) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, limit)
		ctx.Next()
	}
}
