// Package pricing computes the checkout price breakdown and resolves promo
// code discounts. Calculations are pure so the review step can recompute the
// draft on every state change.
package pricing

import "freshmarket/internal/domain"

const (
	// Orders above this subtotal ship free.
	freeDeliveryThreshold = 500
	baseDeliveryFee       = 50
	taxRatePercent        = 5
)

// Quote builds the order draft for the given subtotal and selections.
// The discount is whatever the last successful promo application resolved to
// (zero when none was applied).
func Quote(subtotal int64, slot domain.DeliverySlot, method domain.PaymentMethod, discount int64) domain.OrderDraft {
	draft := domain.OrderDraft{
		Subtotal:    subtotal,
		DeliveryFee: baseDeliveryFee,
		SlotFee:     slot.Fee,
		PaymentFee:  method.Fee,
		Taxes:       percentOf(subtotal, taxRatePercent),
		Discount:    discount,
	}
	if subtotal > freeDeliveryThreshold {
		draft.DeliveryFee = 0
	}
	draft.Total = draft.Subtotal + draft.DeliveryFee + draft.SlotFee + draft.PaymentFee + draft.Taxes - draft.Discount
	return draft
}

// percentOf returns pct% of amount rounded to the nearest whole unit, half
// away from zero.
func percentOf(amount, pct int64) int64 {
	v := amount * pct
	if v < 0 {
		return (v - 50) / 100
	}
	return (v + 50) / 100
}
