package order

import (
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Additional-Code/geosstore/internal/entity"
	"github.com/Additional-Code/geosstore/pkg/errorbank"
)

// Customer identifies who placed the order.
type Customer struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"omitempty,email,max=255"`
	Phone     string `json:"phone" validate:"required,max=30"`
}

// Shipping is the delivery address.
type Shipping struct {
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required,max=100"`
	Province string `json:"province" validate:"required,max=100"`
	Notes    string `json:"notes"`
}

// Item is one requested line. ProductID is nil for ad-hoc items.
type Item struct {
	ProductID *int64 `json:"product_id" validate:"omitempty,gt=0"`
	Name      string `json:"name" validate:"required,max=255"`
	Image     string `json:"image" validate:"max=500"`
	Size      string `json:"size" validate:"max=10"`
	Quantity  int    `json:"quantity" validate:"gt=0,lte=2147483647"`
	UnitPrice int64  `json:"unit_price" validate:"gte=0,lte=2147483647"`
}

// PlaceInput is a checkout request.
type PlaceInput struct {
	Customer      Customer `json:"customer" validate:"required"`
	Shipping      Shipping `json:"shipping" validate:"required"`
	PaymentMethod string   `json:"payment_method" validate:"max=50"`
	Items         []Item   `json:"items" validate:"required,min=1,dive"`
	Subtotal      int64    `json:"subtotal" validate:"gte=0,lte=2147483647"`
	ShippingCost  int64    `json:"shipping_cost" validate:"gte=0,lte=2147483647"`
}

// MaxAmount is the largest amount, in minor units, an order column can hold.
const MaxAmount int64 = math.MaxInt32

func amountTooLarge() error {
	return errorbank.BadRequest("order amount too large", errorbank.WithDetail("max", MaxAmount))
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (in *PlaceInput) normalize() {
	trim := func(s *string) { *s = strings.TrimSpace(*s) }
	trim(&in.Customer.FirstName)
	trim(&in.Customer.LastName)
	trim(&in.Customer.Phone)
	in.Customer.Email = strings.ToLower(strings.TrimSpace(in.Customer.Email))
	trim(&in.Shipping.Address)
	trim(&in.Shipping.City)
	trim(&in.Shipping.Province)
	trim(&in.Shipping.Notes)
	trim(&in.PaymentMethod)
	if in.PaymentMethod == "" {
		in.PaymentMethod = entity.DefaultPaymentMethod
	}
	for i := range in.Items {
		trim(&in.Items[i].Name)
		trim(&in.Items[i].Size)
	}
}

// Validate checks the request before anything touches storage.
func (in *PlaceInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make(map[string]any, len(verrs))
			for _, fe := range verrs {
				details[fieldPath(fe.Namespace())] = fe.Tag()
			}
			return errorbank.BadRequest("invalid order request", errorbank.WithDetails(details))
		}
		return errorbank.BadRequest("invalid order request", errorbank.WithCause(err))
	}

	// Line prices and quantities are already bounded, so the guard keeps
	// every partial sum within MaxAmount.
	var sum int64
	for _, item := range in.Items {
		if item.UnitPrice > 0 && int64(item.Quantity) > (MaxAmount-sum)/item.UnitPrice {
			return amountTooLarge()
		}
		sum += item.UnitPrice * int64(item.Quantity)
	}
	if sum != in.Subtotal {
		return errorbank.BadRequest("subtotal does not match items", errorbank.WithDetails(map[string]any{
			"subtotal": in.Subtotal,
			"expected": sum,
		}))
	}
	if in.ShippingCost > MaxAmount-in.Subtotal {
		return amountTooLarge()
	}
	return nil
}

// fieldPath turns "PlaceInput.Items[0].Quantity" into "Items[0].Quantity".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func (in *PlaceInput) order(code string) *entity.Order {
	return &entity.Order{
		Number:        code,
		FirstName:     in.Customer.FirstName,
		LastName:      in.Customer.LastName,
		Email:         in.Customer.Email,
		Phone:         in.Customer.Phone,
		Address:       in.Shipping.Address,
		City:          in.Shipping.City,
		Province:      in.Shipping.Province,
		Notes:         in.Shipping.Notes,
		PaymentMethod: in.PaymentMethod,
		Subtotal:      in.Subtotal,
		Shipping:      in.ShippingCost,
		Total:         in.Subtotal + in.ShippingCost,
		Status:        entity.OrderStatusPending,
	}
}
