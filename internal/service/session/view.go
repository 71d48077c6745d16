package session

import "freshmarket/internal/domain"

// View is the session state returned to the storefront after every
// operation: current step, selections, the recomputed draft, and any pending
// redirect, confirmation, or inline error.
type View struct {
	ID              string                 `json:"id"`
	Step            int                    `json:"step"`
	Items           []domain.CartItem      `json:"items"`
	Address         domain.DeliveryAddress `json:"address"`
	SlotID          string                 `json:"slotId"`
	PaymentMethodID string                 `json:"paymentMethodId"`
	PromoCode       string                 `json:"promoCode,omitempty"`
	AgreeTerms      bool                   `json:"agreeTerms"`
	Draft           domain.OrderDraft      `json:"draft"`
	Error           string                 `json:"error,omitempty"`
	Confirmation    string                 `json:"confirmation,omitempty"`
	Redirect        string                 `json:"redirect,omitempty"`
}

func (sess *session) view() *View {
	return &View{
		ID:              sess.id,
		Step:            sess.wf.Step(),
		Items:           sess.cart.Items(),
		Address:         sess.wf.Address(),
		SlotID:          sess.wf.Slot().ID,
		PaymentMethodID: sess.wf.Payment().ID,
		PromoCode:       sess.wf.PromoCode(),
		AgreeTerms:      sess.wf.AgreeTerms(),
		Draft:           sess.wf.Draft(),
		Error:           sess.wf.Error(),
		Confirmation:    sess.notify.Last(),
		Redirect:        sess.nav.Last(),
	}
}
