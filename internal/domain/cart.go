package domain

// CartItem is a single line of the buyer's cart. The cart collaborator owns
// these records and guarantees Quantity >= 1 and Price >= 0; the checkout
// workflow reads them without re-validating.
type CartItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit,omitempty"`
	Image    string `json:"image,omitempty"`
}

// Subtotal sums price*quantity over the given items.
func Subtotal(items []CartItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Price * int64(it.Quantity)
	}
	return total
}
