package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/prodman/internal/auth"
	"github.com/skillsenselab/prodman/internal/authz"
	"github.com/skillsenselab/prodman/internal/component"
	"github.com/skillsenselab/prodman/internal/server/middleware"
)

// Role names used in route gates.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Router wires the API routes onto a Gin engine.
type Router struct {
	Auth     *AuthHandler
	Users    *UserHandler
	Products *ProductHandler
	Resolver *auth.Resolver
	Checker  authz.Checker
	Registry *component.Registry

	// StaticDir, when non-empty, is served under /static for uploaded files.
	StaticDir string
}

// Register mounts all routes. Write routes on the catalog require editor
// or admin; destructive routes require admin.
func (r *Router) Register(engine *gin.Engine) {
	engine.GET("/health", r.health)

	if r.StaticDir != "" {
		engine.Static("/static", r.StaticDir)
	}

	v1 := engine.Group("/api/v1")

	authn := middleware.Auth(r.Resolver)
	adminOnly := middleware.RequireRoles(r.Checker, RoleAdmin)
	writers := middleware.RequireRoles(r.Checker, RoleAdmin, RoleEditor)

	ar := v1.Group("/auth")
	{
		ar.POST("/register", r.Auth.Register)
		ar.POST("/login", r.Auth.Login)
		ar.GET("/me", authn, r.Auth.Me)
		ar.POST("/logout", authn, r.Auth.Logout)
	}

	users := v1.Group("/users", authn)
	{
		users.GET("", r.Users.List)
		users.GET("/:id", r.Users.Get)
		users.PUT("/:id", adminOnly, r.Users.Update)
		users.DELETE("/:id", adminOnly, r.Users.Delete)
		users.POST("/:id/avatar", r.Users.UploadAvatar)
	}

	products := v1.Group("/products", authn)
	{
		products.GET("", r.Products.List)
		products.GET("/:id", r.Products.Get)
		products.POST("", writers, r.Products.Create)
		products.PUT("/:id", writers, r.Products.Update)
		products.DELETE("/:id", adminOnly, r.Products.Delete)
		products.POST("/:id/image", writers, r.Products.UploadImage)
	}
}

// health reports component health; 503 when any component is unhealthy.
func (r *Router) health(c *gin.Context) {
	if r.Registry == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	checks := r.Registry.HealthAll(c.Request.Context())
	status := http.StatusOK
	overall := "ok"
	for _, h := range checks {
		if h.Status != component.StatusHealthy {
			status = http.StatusServiceUnavailable
			overall = "degraded"
			break
		}
	}
	c.JSON(status, gin.H{"status": overall, "components": checks})
}
