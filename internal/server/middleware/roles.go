package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/prodman/internal/authz"
	apperrors "github.com/skillsenselab/prodman/internal/errors"
)

// RequireRoles gates a route on the caller holding at least one of the
// given roles. It must run after Auth; a request with no principal is
// treated as unauthenticated, not forbidden.
func RequireRoles(checker authz.Checker, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := Principal(c)
		if !ok {
			abort(c, apperrors.Unauthorized())
			return
		}
		if !checker.Allowed(c.Request.Context(), principal.Roles, roles) {
			abort(c, apperrors.Forbidden())
			return
		}
		c.Next()
	}
}
