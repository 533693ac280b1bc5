// Package middleware provides the Gin middleware stack: request-ID
// correlation, request logging, panic recovery, CORS, body-size limiting,
// bearer-token authentication, and role gates.
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/prodman/internal/auth"
)

// Gin context keys shared between middleware and handlers.
const (
	// KeyRequestID holds the correlation id for the current request.
	KeyRequestID = "request_id"

	// KeyPrincipal holds the authenticated *auth.Principal.
	KeyPrincipal = "principal"

	// KeyBearerToken holds the raw bearer token of the current request,
	// needed by the logout handler to revoke it.
	KeyBearerToken = "bearer_token"
)

// Principal returns the authenticated principal from the Gin context, or
// (nil, false) when the request is anonymous.
func Principal(c *gin.Context) (*auth.Principal, bool) {
	v, ok := c.Get(KeyPrincipal)
	if !ok {
		return nil, false
	}
	p, ok := v.(*auth.Principal)
	return p, ok
}

// BearerToken returns the raw bearer token stored by the Auth middleware.
func BearerToken(c *gin.Context) (string, bool) {
	v, ok := c.Get(KeyBearerToken)
	if !ok {
		return "", false
	}
	t, ok := v.(string)
	return t, ok
}
