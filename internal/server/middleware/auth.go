package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/prodman/internal/auth"
	apperrors "github.com/skillsenselab/prodman/internal/errors"
	"github.com/skillsenselab/prodman/internal/requestctx"
)

// Auth validates the Bearer token on every request passing through it and
// installs the resolved principal on both the Gin context and the request
// context. The failure taxonomy is deliberately narrow: expiry and
// revocation get their own codes; every other failure (missing header, bad
// format, bad signature, unknown subject) collapses into the same generic
// 401 so callers cannot probe credentials.
func Auth(resolver *auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractBearer(c.GetHeader("Authorization"))
		if !ok {
			abort(c, apperrors.Unauthorized())
			return
		}

		principal, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			abort(c, mapAuthError(err))
			return
		}

		c.Set(KeyPrincipal, principal)
		c.Set(KeyBearerToken, token)
		requestctx.SetPrincipal(c.Request.Context(), principal.Subject, principal)
		c.Next()
	}
}

// extractBearer pulls the token out of an Authorization header. The scheme
// comparison is case-insensitive per RFC 7235.
func extractBearer(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func mapAuthError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, auth.ErrTokenRevoked):
		return apperrors.TokenRevoked()
	case errors.Is(err, auth.ErrTokenExpired):
		return apperrors.TokenExpired()
	case errors.Is(err, auth.ErrTokenMalformed):
		return apperrors.Unauthorized()
	default:
		return apperrors.Internal(err)
	}
}

func abort(c *gin.Context, appErr *apperrors.AppError) {
	_ = c.Error(appErr)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
