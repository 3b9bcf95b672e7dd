package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Order statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// DefaultPaymentMethod is recorded when the checkout omits a payment tag.
const DefaultPaymentMethod = "transferencia"

// Order represents a customer purchase stored in the relational database.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID            int64     `bun:",pk,autoincrement"`
	Number        string    `bun:"order_number,notnull,unique"`
	FirstName     string    `bun:"first_name,notnull"`
	LastName      string    `bun:"last_name,notnull"`
	Email         string    `bun:"email"`
	Phone         string    `bun:"phone,notnull"`
	Address       string    `bun:"address,notnull"`
	City          string    `bun:"city,notnull"`
	Province      string    `bun:"province,notnull"`
	Notes         string    `bun:"notes"`
	PaymentMethod string    `bun:"payment_method,notnull"`
	Subtotal      int64     `bun:"subtotal,notnull"`
	Shipping      int64     `bun:"shipping,notnull"`
	Total         int64     `bun:"total,notnull"`
	Status        string    `bun:"status,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`

	Items []*OrderItem `bun:"rel:has-many,join:id=order_id"`
}

// OrderItem is one purchased product/size/quantity line. Name, image and
// price are snapshots taken when the order was placed.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items,alias:oi"`

	ID           int64  `bun:",pk,autoincrement"`
	OrderID      int64  `bun:"order_id,notnull"`
	ProductID    *int64 `bun:"product_id"`
	ProductName  string `bun:"product_name,notnull"`
	ProductImage string `bun:"product_image"`
	Size         string `bun:"size"`
	Quantity     int    `bun:"quantity,notnull"`
	Price        int64  `bun:"price,notnull"`
}

// LineTotal returns quantity times captured unit price.
func (i *OrderItem) LineTotal() int64 {
	return int64(i.Quantity) * i.Price
}
