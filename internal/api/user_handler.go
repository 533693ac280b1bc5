package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillsenselab/prodman/internal/auth"
	apperrors "github.com/skillsenselab/prodman/internal/errors"
	"github.com/skillsenselab/prodman/internal/identity"
	"github.com/skillsenselab/prodman/internal/logger"
	"github.com/skillsenselab/prodman/internal/server"
	"github.com/skillsenselab/prodman/internal/storage"
	"github.com/skillsenselab/prodman/internal/validation"
)

// UserHandler implements the user management endpoints.
type UserHandler struct {
	users *identity.Repository
	files storage.Storage
	log   *logger.Logger
}

// NewUserHandler creates the user handler.
func NewUserHandler(users *identity.Repository, files storage.Storage, log *logger.Logger) *UserHandler {
	return &UserHandler{users: users, files: files, log: log.WithComponent("user-handler")}
}

// List returns a paginated user listing with optional email, name, and
// status filters.
func (h *UserHandler) List(c *gin.Context) {
	page, size := pageParams(c)
	users, total, err := h.users.List(c.Request.Context(), identity.ListFilter{
		Email:  c.Query("email"),
		Name:   c.Query("name"),
		Status: c.Query("status"),
		Offset: size * (page - 1),
		Limit:  size,
	})
	if err != nil {
		server.RespondWithError(c, apperrors.Database("list users", err))
		return
	}

	views := make([]userView, 0, len(users))
	for i := range users {
		views = append(views, toUserView(&users[i]))
	}
	server.RespondOKWithMeta(c, views, server.NewMeta(page, size, total))
}

// Get returns a single user by id.
func (h *UserHandler) Get(c *gin.Context) {
	user, ok := h.findUser(c)
	if !ok {
		return
	}
	server.RespondOK(c, toUserView(user))
}

// Update applies a partial update. A body with no recognized fields is a
// validation error, not a silent no-op.
func (h *UserHandler) Update(c *gin.Context) {
	user, ok := h.findUser(c)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.Validation("Request body must be valid JSON."))
		return
	}
	if err := validation.Struct(req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if req.Name == nil && req.Phone == nil && req.Status == nil && req.Roles == nil {
		server.RespondWithError(c, apperrors.Validation("At least one field must be provided."))
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if req.Roles != nil {
		user.Roles = identity.RoleList(auth.NormalizeRoles(*req.Roles))
	}

	if err := h.users.Update(c.Request.Context(), user); err != nil {
		server.RespondWithError(c, apperrors.Database("update user", err))
		return
	}
	server.RespondOK(c, toUserView(user))
}

// Delete removes a user. Restricted to admins at the routing layer.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			server.RespondWithError(c, apperrors.NotFound("user", id.String()))
			return
		}
		server.RespondWithError(c, apperrors.Database("delete user", err))
		return
	}

	h.log.WithContext(c.Request.Context()).Info("User deleted", map[string]interface{}{
		"user_id": id.String(),
	})
	server.RespondNoContent(c)
}

// UploadAvatar stores a new avatar image for the user and replaces the old
// one. Old-file cleanup is best effort: a failed delete is logged, never
// surfaced.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	user, ok := h.findUser(c)
	if !ok {
		return
	}

	url, err := saveUpload(c, h.files, "avatars")
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	old := user.AvatarURL
	user.AvatarURL = url
	if dbErr := h.users.Update(c.Request.Context(), user); dbErr != nil {
		server.RespondWithError(c, apperrors.Database("update user", dbErr))
		return
	}
	h.cleanupOldFile(c, old)

	server.RespondOK(c, toUserView(user))
}

func (h *UserHandler) cleanupOldFile(c *gin.Context, oldURL string) {
	if oldURL == "" {
		return
	}
	if err := deleteByURL(c.Request.Context(), h.files, oldURL); err != nil {
		h.log.WithContext(c.Request.Context()).Warn("Failed to delete replaced file", map[string]interface{}{
			"url":   oldURL,
			"error": err.Error(),
		})
	}
}

func (h *UserHandler) findUser(c *gin.Context) (*identity.User, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			server.RespondWithError(c, apperrors.NotFound("user", id.String()))
			return nil, false
		}
		server.RespondWithError(c, apperrors.Database("get user", err))
		return nil, false
	}
	return user, true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		server.RespondWithError(c, apperrors.Validation("Invalid id: must be a UUID."))
		return uuid.Nil, false
	}
	return id, true
}
