package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/prodman/internal/auth"
	apperrors "github.com/skillsenselab/prodman/internal/errors"
	"github.com/skillsenselab/prodman/internal/identity"
	"github.com/skillsenselab/prodman/internal/logger"
	"github.com/skillsenselab/prodman/internal/server"
	"github.com/skillsenselab/prodman/internal/server/middleware"
	"github.com/skillsenselab/prodman/internal/validation"
)

// AuthHandler implements registration, login, logout, and the current-user
// endpoint.
type AuthHandler struct {
	users    *identity.Repository
	tokens   *auth.TokenService
	resolver *auth.Resolver
	hasher   auth.Hasher
	log      *logger.Logger
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(users *identity.Repository, tokens *auth.TokenService, resolver *auth.Resolver, hasher auth.Hasher, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		tokens:   tokens,
		resolver: resolver,
		hasher:   hasher,
		log:      log.WithComponent("auth-handler"),
	}
}

// Register creates a new account. Roles are normalized; an empty role list
// gets the implicit default role, an omitted status defaults to active.
// Duplicate emails return 409.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.Validation("Request body must be valid JSON."))
		return
	}
	if err := validation.Struct(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	digest, err := h.hasher.Hash(req.Password)
	if err != nil {
		server.RespondWithError(c, apperrors.Internal(err))
		return
	}

	status := req.Status
	if status == "" {
		status = identity.StatusActive
	}
	user := &identity.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: digest,
		Status:       status,
		Roles:        identity.RoleList(auth.NormalizeRoles(req.Roles)),
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			server.RespondWithError(c, apperrors.AlreadyExists("user"))
			return
		}
		server.RespondWithError(c, apperrors.Database("create user", err))
		return
	}

	h.log.WithContext(c.Request.Context()).Info("User registered", map[string]interface{}{
		"user_id": user.ID.String(),
	})
	server.RespondCreated(c, toUserView(user))
}

// Login verifies credentials and issues a bearer token. A wrong email and
// a wrong password produce the same generic 401.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.Validation("Request body must be valid JSON."))
		return
	}
	if err := validation.Struct(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			server.RespondWithError(c, apperrors.Unauthorized())
			return
		}
		server.RespondWithError(c, apperrors.Database("find user", err))
		return
	}
	if user.Status != identity.StatusActive {
		server.RespondWithError(c, apperrors.Unauthorized())
		return
	}
	if err := h.hasher.Verify(req.Password, user.PasswordHash); err != nil {
		server.RespondWithError(c, apperrors.Unauthorized())
		return
	}

	token, err := h.tokens.Issue(user.ID.String(), []string(user.Roles))
	if err != nil {
		server.RespondWithError(c, apperrors.Internal(err))
		return
	}

	server.RespondOK(c, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(h.tokens.TTL().Seconds()),
	})
}

// Me returns the authenticated principal.
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		server.RespondWithError(c, apperrors.Unauthorized())
		return
	}
	server.RespondOK(c, principal)
}

// Logout revokes the presented token. Idempotent: logging out twice
// succeeds, though the second call never gets here because the revoked
// token no longer authenticates.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		server.RespondWithError(c, apperrors.Unauthorized())
		return
	}
	if err := h.resolver.Revoke(c.Request.Context(), token); err != nil {
		server.RespondWithError(c, apperrors.Internal(err))
		return
	}

	h.log.WithContext(c.Request.Context()).Info("User logged out")
	server.RespondOK(c, gin.H{"message": "Logged out."})
}
