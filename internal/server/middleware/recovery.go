package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "github.com/skillsenselab/prodman/internal/errors"
	"github.com/skillsenselab/prodman/internal/logger"
)

// Recovery recovers from handler panics, logs the stack, and writes the
// standard 500 envelope. It sits inside RequestLogger so the request still
// gets its log line with status 500.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("recovery")
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Panic recovered", map[string]interface{}{
					"error":               fmt.Sprintf("%v", r),
					"stack":               string(debug.Stack()),
					logger.FieldPath:      c.Request.URL.Path,
					logger.FieldMethod:    c.Request.Method,
					logger.FieldRequestID: c.GetString(KeyRequestID),
				})
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					apperrors.Internal(fmt.Errorf("panic: %v", r)).ToResponse())
			}
		}()
		c.Next()
	}
}
