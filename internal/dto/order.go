package dto

import (
	"time"

	"github.com/Additional-Code/geosstore/internal/entity"
)

// OrderItemResponse is one order line as exposed via transport layers.
type OrderItemResponse struct {
	ID           int64  `json:"id"`
	ProductID    *int64 `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image,omitempty"`
	Size         string `json:"size,omitempty"`
	Quantity     int    `json:"quantity"`
	Price        int64  `json:"price"`
	LineTotal    int64  `json:"line_total"`
}

// OrderResponse represents an order as exposed via transport layers.
type OrderResponse struct {
	ID            int64               `json:"id"`
	Number        string              `json:"order_number"`
	FirstName     string              `json:"first_name"`
	LastName      string              `json:"last_name"`
	Email         string              `json:"email,omitempty"`
	Phone         string              `json:"phone"`
	Address       string              `json:"address"`
	City          string              `json:"city"`
	Province      string              `json:"province"`
	Notes         string              `json:"notes,omitempty"`
	PaymentMethod string              `json:"payment_method"`
	Subtotal      int64               `json:"subtotal"`
	Shipping      int64               `json:"shipping"`
	Total         int64               `json:"total"`
	Status        string              `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	Items         []OrderItemResponse `json:"items,omitempty"`
}

// PlaceOrderResponse is returned after a successful checkout.
type PlaceOrderResponse struct {
	OrderCode string        `json:"order_code"`
	Order     OrderResponse `json:"order"`
}

// StatusUpdateRequest changes an order's status.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// NewOrderResponse maps an order entity.
func NewOrderResponse(o *entity.Order) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID,
		Number:        o.Number,
		FirstName:     o.FirstName,
		LastName:      o.LastName,
		Email:         o.Email,
		Phone:         o.Phone,
		Address:       o.Address,
		City:          o.City,
		Province:      o.Province,
		Notes:         o.Notes,
		PaymentMethod: o.PaymentMethod,
		Subtotal:      o.Subtotal,
		Shipping:      o.Shipping,
		Total:         o.Total,
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
	}
	if len(o.Items) > 0 {
		resp.Items = make([]OrderItemResponse, 0, len(o.Items))
		for _, it := range o.Items {
			resp.Items = append(resp.Items, OrderItemResponse{
				ID:           it.ID,
				ProductID:    it.ProductID,
				ProductName:  it.ProductName,
				ProductImage: it.ProductImage,
				Size:         it.Size,
				Quantity:     it.Quantity,
				Price:        it.Price,
				LineTotal:    it.LineTotal(),
			})
		}
	}
	return resp
}

// NewOrderResponses maps a slice of orders.
func NewOrderResponses(orders []*entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderResponse(o))
	}
	return out
}
