package entity

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Product statuses.
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// Product is a catalog item. Stock never drops below zero.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID          int64     `bun:",pk,autoincrement"`
	Name        string    `bun:"name,notnull"`
	Brand       string    `bun:"brand,notnull"`
	Description string    `bun:"description"`
	Price       int64     `bun:"price,notnull"`
	OldPrice    *int64    `bun:"old_price"`
	Category    string    `bun:"category,notnull"`
	Sizes       string    `bun:"sizes"`
	Stock       int       `bun:"stock,notnull"`
	Featured    bool      `bun:"featured,notnull"`
	IsNew       bool      `bun:"is_new,notnull"`
	Status      string    `bun:"status,notnull"`
	ImageURL    string    `bun:"image_url"`
	Images      string    `bun:"images"`
	Color       string    `bun:"color"`
	Location    string    `bun:"location"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// SizeList splits the comma separated size column.
func (p *Product) SizeList() []string {
	if strings.TrimSpace(p.Sizes) == "" {
		return nil
	}
	parts := strings.Split(p.Sizes, ",")
	sizes := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			sizes = append(sizes, s)
		}
	}
	return sizes
}
