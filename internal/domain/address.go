package domain

// DeliveryAddress holds the buyer-entered delivery details collected in the
// first checkout step. Landmark is the only optional field.
type DeliveryAddress struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Landmark string `json:"landmark,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}
