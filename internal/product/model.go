// Package product holds the product catalog model and its repository.
package product

import (
	"github.com/skillsenselab/prodman/internal/database"
)

// Product statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Product is a catalog entry. LowStock is the threshold below which the
// stock level counts as low.
type Product struct {
	database.BaseModel
	Name        string  `gorm:"size:200;not null;index" json:"name"`
	Category    string  `gorm:"size:100;not null;index" json:"category"`
	Description string  `gorm:"size:2000" json:"description"`
	UnitPrice   float64 `gorm:"not null" json:"unit_price"`
	Stock       int     `gorm:"not null;default:0" json:"stock"`
	LowStock    int     `gorm:"not null;default:0" json:"low_stock"`
	ImageURL    string  `gorm:"size:512" json:"image_url,omitempty"`
	Status      string  `gorm:"size:20;not null;default:active" json:"status"`
}
