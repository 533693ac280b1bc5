package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/prodman/internal/logger"
	"github.com/skillsenselab/prodman/internal/requestctx"
)

// RequestLogger logs exactly one line per request on every exit path,
// including panics unwinding from below. The line carries method, path,
// status, duration, client ip, the correlation id, and the resolved user
// id ("-" when the request never authenticated). Health-check paths are
// silently skipped.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("http")
	return func(c *gin.Context) {
		if isHealthEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		defer func() {
			status := c.Writer.Status()
			if r := recover(); r != nil {
				// A panic that got past recovery still produces a log
				// line before it continues unwinding.
				status = http.StatusInternalServerError
				defer panic(r)
			}

			path := c.Request.URL.Path
			if q := c.Request.URL.RawQuery; q != "" {
				path = path + "?" + q
			}

			fields := map[string]interface{}{
				logger.FieldMethod:    c.Request.Method,
				logger.FieldPath:      path,
				logger.FieldStatus:    status,
				logger.FieldDuration:  time.Since(start).Milliseconds(),
				logger.FieldClientIP:  c.ClientIP(),
				logger.FieldRequestID: c.GetString(KeyRequestID),
				logger.FieldUserID:    requestctx.PrincipalID(c.Request.Context()),
			}
			if len(c.Errors) > 0 {
				fields[logger.FieldError] = c.Errors.Last().Error()
			}

			switch {
			case status >= 500:
				log.Error("Request completed", fields)
			case status >= 400:
				log.Warn("Request completed", fields)
			default:
				log.Info("Request completed", fields)
			}
		}()

		c.Next()
	}
}

func isHealthEndpoint(path string) bool {
	switch path {
	case "/health", "/alive", "/ready":
		return true
	}
	return false
}
