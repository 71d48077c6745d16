package domain

import "time"

type OrderStatus string

const (
	OrderPlaced    OrderStatus = "placed"
	OrderConfirmed OrderStatus = "confirmed"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus maps a raw string onto a known order status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderPlaced, OrderConfirmed, OrderDelivered, OrderCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// OrderDraft is the transient price breakdown shown on the review step. It is
// recomputed from cart contents and selections on every change and never
// persisted on its own. All amounts are whole currency units.
type OrderDraft struct {
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"deliveryFee"`
	SlotFee     int64 `json:"slotFee"`
	PaymentFee  int64 `json:"paymentFee"`
	Taxes       int64 `json:"taxes"`
	Discount    int64 `json:"discount"`
	Total       int64 `json:"total"`
}

// Order is a placed order as persisted by the checkout operation, including a
// snapshot of the cart items and the authoritative price breakdown.
type Order struct {
	ID              string          `json:"id"`
	Address         DeliveryAddress `json:"address"`
	SlotID          string          `json:"slotId"`
	PaymentMethodID string          `json:"paymentMethodId"`
	PromoCode       string          `json:"promoCode,omitempty"`
	Items           []CartItem      `json:"items"`
	Pricing         OrderDraft      `json:"pricing"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}
