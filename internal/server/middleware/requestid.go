package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillsenselab/prodman/internal/requestctx"
)

// RequestID assigns every request a correlation id: the caller's
// X-Request-Id header when present, otherwise a fresh UUID. The id is
// stored on the Gin context and the request context, and echoed back in
// the X-Request-Id response header. Must be the outermost middleware so
// the id exists for the request logger and everything below.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}

		ctx := requestctx.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Set(KeyRequestID, id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}
