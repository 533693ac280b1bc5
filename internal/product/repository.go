package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillsenselab/prodman/internal/database"
)

// ErrNotFound is returned when no product matches the query.
var ErrNotFound = errors.New("product: not found")

// ListFilter narrows and paginates product listings.
type ListFilter struct {
	Name   string
	Offset int
	Limit  int
}

// Repository persists products in the database.
type Repository struct {
	db *database.DB
}

// NewRepository creates a product repository.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// CreateBatch inserts one or more products in a single transaction.
func (r *Repository) CreateBatch(ctx context.Context, products []*Product) error {
	if len(products) == 0 {
		return fmt.Errorf("product: empty batch")
	}
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		for _, p := range products {
			if err := tx.Create(p).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("product: create batch: %w", err)
	}
	return nil
}

// Get returns the product with the given id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	var p Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("product: get: %w", err)
	}
	return &p, nil
}

// List returns products matching the filter plus the unpaginated total.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&Product{})
	if filter.Name != "" {
		q = q.Where("name LIKE ?", "%"+filter.Name+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("product: count: %w", err)
	}

	var products []Product
	if err := q.Order("created_at").Offset(filter.Offset).Limit(filter.Limit).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("product: list: %w", err)
	}
	return products, total, nil
}

// Update saves changes to an existing product.
func (r *Repository) Update(ctx context.Context, p *Product) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("product: update: %w", err)
	}
	return nil
}

// Delete soft-deletes the product with the given id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("product: delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
