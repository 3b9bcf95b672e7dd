package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Subscriber is a newsletter signup.
type Subscriber struct {
	bun.BaseModel `bun:"table:newsletter_subscribers,alias:ns"`

	ID           int64     `bun:",pk,autoincrement"`
	Email        string    `bun:"email,notnull,unique"`
	SubscribedAt time.Time `bun:"subscribed_at,nullzero,notnull,default:current_timestamp"`
}

// Review is a storefront testimonial, optionally tied to a product.
type Review struct {
	bun.BaseModel `bun:"table:reviews,alias:r"`

	ID           int64     `bun:",pk,autoincrement"`
	CustomerName string    `bun:"customer_name,notnull"`
	Rating       int       `bun:"rating,notnull"`
	Comment      string    `bun:"comment"`
	ProductID    *int64    `bun:"product_id"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
