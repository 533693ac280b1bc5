package api

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	apperrors "github.com/skillsenselab/prodman/internal/errors"
	"github.com/skillsenselab/prodman/internal/logger"
	"github.com/skillsenselab/prodman/internal/product"
	"github.com/skillsenselab/prodman/internal/server"
	"github.com/skillsenselab/prodman/internal/storage"
	"github.com/skillsenselab/prodman/internal/validation"
)

// ProductHandler implements the product catalog endpoints.
type ProductHandler struct {
	products *product.Repository
	files    storage.Storage
	log      *logger.Logger
}

// NewProductHandler creates the product handler.
func NewProductHandler(products *product.Repository, files storage.Storage, log *logger.Logger) *ProductHandler {
	return &ProductHandler{products: products, files: files, log: log.WithComponent("product-handler")}
}

// Create accepts a batch of one or more products and inserts them
// atomically.
func (h *ProductHandler) Create(c *gin.Context) {
	var reqs []createProductRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		server.RespondWithError(c, apperrors.Validation("Request body must be a JSON array of products."))
		return
	}
	if len(reqs) == 0 {
		server.RespondWithError(c, apperrors.Validation("At least one product is required."))
		return
	}
	for i, req := range reqs {
		if err := validation.Struct(req); err != nil {
			server.RespondWithError(c, err.WithDetail("index", i))
			return
		}
	}

	batch := make([]*product.Product, 0, len(reqs))
	for _, req := range reqs {
		status := req.Status
		if status == "" {
			status = product.StatusActive
		}
		batch = append(batch, &product.Product{
			Name:        req.Name,
			Category:    req.Category,
			Description: req.Description,
			UnitPrice:   req.UnitPrice,
			Stock:       req.Stock,
			LowStock:    req.LowStock,
			Status:      status,
		})
	}
	if err := h.products.CreateBatch(c.Request.Context(), batch); err != nil {
		server.RespondWithError(c, apperrors.Database("create products", err))
		return
	}

	h.log.WithContext(c.Request.Context()).Info("Products created", map[string]interface{}{
		"count": len(batch),
	})

	views := make([]productView, 0, len(batch))
	for _, p := range batch {
		views = append(views, toProductView(p))
	}
	server.RespondCreated(c, views)
}

// List returns a paginated product listing with an optional name filter.
func (h *ProductHandler) List(c *gin.Context) {
	page, size := pageParams(c)
	products, total, err := h.products.List(c.Request.Context(), product.ListFilter{
		Name:   c.Query("name"),
		Offset: size * (page - 1),
		Limit:  size,
	})
	if err != nil {
		server.RespondWithError(c, apperrors.Database("list products", err))
		return
	}

	views := make([]productView, 0, len(products))
	for i := range products {
		views = append(views, toProductView(&products[i]))
	}
	server.RespondOKWithMeta(c, views, server.NewMeta(page, size, total))
}

// Get returns a single product by id.
func (h *ProductHandler) Get(c *gin.Context) {
	p, ok := h.findProduct(c)
	if !ok {
		return
	}
	server.RespondOK(c, toProductView(p))
}

// Update applies a partial update to a product.
func (h *ProductHandler) Update(c *gin.Context) {
	p, ok := h.findProduct(c)
	if !ok {
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.Validation("Request body must be valid JSON."))
		return
	}
	if err := validation.Struct(req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if req.Name == nil && req.Category == nil && req.Description == nil &&
		req.UnitPrice == nil && req.Stock == nil && req.LowStock == nil && req.Status == nil {
		server.RespondWithError(c, apperrors.Validation("At least one field must be provided."))
		return
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.UnitPrice != nil {
		p.UnitPrice = *req.UnitPrice
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.LowStock != nil {
		p.LowStock = *req.LowStock
	}
	if req.Status != nil {
		p.Status = *req.Status
	}

	if err := h.products.Update(c.Request.Context(), p); err != nil {
		server.RespondWithError(c, apperrors.Database("update product", err))
		return
	}
	server.RespondOK(c, toProductView(p))
}

// Delete removes a product. Restricted to admins at the routing layer.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			server.RespondWithError(c, apperrors.NotFound("product", id.String()))
			return
		}
		server.RespondWithError(c, apperrors.Database("delete product", err))
		return
	}

	h.log.WithContext(c.Request.Context()).Info("Product deleted", map[string]interface{}{
		"product_id": id.String(),
	})
	server.RespondNoContent(c)
}

// UploadImage stores a new product image and replaces the old one.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	p, ok := h.findProduct(c)
	if !ok {
		return
	}

	url, err := saveUpload(c, h.files, "products")
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	old := p.ImageURL
	p.ImageURL = url
	if dbErr := h.products.Update(c.Request.Context(), p); dbErr != nil {
		server.RespondWithError(c, apperrors.Database("update product", dbErr))
		return
	}
	if old != "" {
		if delErr := deleteByURL(c.Request.Context(), h.files, old); delErr != nil {
			h.log.WithContext(c.Request.Context()).Warn("Failed to delete replaced file", map[string]interface{}{
				"url":   old,
				"error": delErr.Error(),
			})
		}
	}

	server.RespondOK(c, toProductView(p))
}

func (h *ProductHandler) findProduct(c *gin.Context) (*product.Product, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}
	p, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			server.RespondWithError(c, apperrors.NotFound("product", id.String()))
			return nil, false
		}
		server.RespondWithError(c, apperrors.Database(fmt.Sprintf("get product %s", id), err))
		return nil, false
	}
	return p, true
}
