package domain

// DeliverySlot is a delivery time window with an optional surcharge.
type DeliverySlot struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Fee       int64  `json:"fee"`
	Available bool   `json:"available"`
}

// PaymentMethod is one of the supported ways to pay for an order.
type PaymentMethod struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Fee       int64  `json:"fee"`
	Available bool   `json:"available"`
}

const (
	SlotMorning   = "morning"
	SlotAfternoon = "afternoon"
	SlotEvening   = "evening"
	SlotExpress   = "express"

	PaymentCOD    = "cod"
	PaymentWallet = "wallet"
)

// DeliverySlots returns the fixed slot catalog. Evening delivery is listed but
// currently not offered.
func DeliverySlots() []DeliverySlot {
	return []DeliverySlot{
		{ID: SlotMorning, Label: "Morning (6 AM - 10 AM)", Fee: 0, Available: true},
		{ID: SlotAfternoon, Label: "Afternoon (12 PM - 4 PM)", Fee: 0, Available: true},
		{ID: SlotEvening, Label: "Evening (5 PM - 9 PM)", Fee: 20, Available: false},
		{ID: SlotExpress, Label: "Express (within 2 hours)", Fee: 50, Available: true},
	}
}

// PaymentMethods returns the fixed payment method catalog.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		{ID: PaymentCOD, Label: "Cash on Delivery", Fee: 0, Available: true},
		{ID: PaymentWallet, Label: "Wallet", Fee: 0, Available: true},
	}
}

// SlotByID looks up a delivery slot in the catalog.
func SlotByID(id string) (DeliverySlot, bool) {
	for _, s := range DeliverySlots() {
		if s.ID == id {
			return s, true
		}
	}
	return DeliverySlot{}, false
}

// PaymentMethodByID looks up a payment method in the catalog.
func PaymentMethodByID(id string) (PaymentMethod, bool) {
	for _, m := range PaymentMethods() {
		if m.ID == id {
			return m, true
		}
	}
	return PaymentMethod{}, false
}
