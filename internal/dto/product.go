package dto

import (
	"strings"
	"time"

	"github.com/Additional-Code/geosstore/internal/entity"
)

// ProductResponse represents a catalog product.
type ProductResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Description string    `json:"description,omitempty"`
	Price       int64     `json:"price"`
	OldPrice    *int64    `json:"old_price"`
	Category    string    `json:"category"`
	Sizes       []string  `json:"sizes"`
	Stock       int       `json:"stock"`
	Featured    bool      `json:"featured"`
	IsNew       bool      `json:"is_new"`
	Status      string    `json:"status"`
	ImageURL    string    `json:"image_url,omitempty"`
	Images      []string  `json:"images"`
	Color       string    `json:"color,omitempty"`
	Location    string    `json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProductResponse maps a product entity.
func NewProductResponse(p *entity.Product) ProductResponse {
	sizes := p.SizeList()
	if sizes == nil {
		sizes = []string{}
	}
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Description: p.Description,
		Price:       p.Price,
		OldPrice:    p.OldPrice,
		Category:    p.Category,
		Sizes:       sizes,
		Stock:       p.Stock,
		Featured:    p.Featured,
		IsNew:       p.IsNew,
		Status:      p.Status,
		ImageURL:    p.ImageURL,
		Images:      splitList(p.Images),
		Color:       p.Color,
		Location:    p.Location,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewProductResponses maps a slice of products.
func NewProductResponses(products []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductResponse(p))
	}
	return out
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
