// Package api wires the HTTP routes and implements the request handlers
// for authentication, user management, and the product catalog.
package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/prodman/internal/identity"
	"github.com/skillsenselab/prodman/internal/product"
)

// Pagination bounds. A size outside [1, maxPageSize] is clamped rather
// than rejected.
const (
	defaultPageSize = 10
	maxPageSize     = 200
)

type registerRequest struct {
	Name     string   `json:"name" validate:"required,max=100"`
	Email    string   `json:"email" validate:"required,email"`
	Phone    string   `json:"phone" validate:"omitempty,max=32"`
	Password string   `json:"password" validate:"required,min=8,max=72"`
	Status   string   `json:"status" validate:"omitempty,oneof=active disabled"`
	Roles    []string `json:"roles" validate:"omitempty,max=10"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}

type updateUserRequest struct {
	Name   *string   `json:"name" validate:"omitempty,max=100"`
	Phone  *string   `json:"phone" validate:"omitempty,max=32"`
	Status *string   `json:"status" validate:"omitempty,oneof=active disabled"`
	Roles  *[]string `json:"roles" validate:"omitempty,max=10"`
}

type userView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	Roles     []string  `json:"roles"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserView(u *identity.User) userView {
	return userView{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Status:    u.Status,
		Roles:     []string(u.Roles),
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

type createProductRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Category    string  `json:"category" validate:"required,max=100"`
	Description string  `json:"description" validate:"max=2000"`
	UnitPrice   float64 `json:"unit_price" validate:"required,gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	LowStock    int     `json:"low_stock" validate:"gte=0"`
	Status      string  `json:"status" validate:"omitempty,oneof=active inactive"`
}

type updateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=200"`
	Category    *string  `json:"category" validate:"omitempty,max=100"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	UnitPrice   *float64 `json:"unit_price" validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	LowStock    *int     `json:"low_stock" validate:"omitempty,gte=0"`
	Status      *string  `json:"status" validate:"omitempty,oneof=active inactive"`
}

type productView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	UnitPrice   float64   `json:"unit_price"`
	Stock       int       `json:"stock"`
	LowStock    int       `json:"low_stock"`
	ImageURL    string    `json:"image_url,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func toProductView(p *product.Product) productView {
	return productView{
		ID:          p.ID.String(),
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		UnitPrice:   p.UnitPrice,
		Stock:       p.Stock,
		LowStock:    p.LowStock,
		ImageURL:    p.ImageURL,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
	}
}

// pageParams reads page/size query parameters, applying defaults and
// clamping out-of-range values.
func pageParams(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultPageSize)))
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}
