// Package checkout implements the three-step checkout workflow: address entry,
// delivery/payment selection, and review with order submission. The workflow
// owns no I/O of its own; the cart, navigation, and notification collaborators
// are injected so the step gating and pricing logic stay testable in
// isolation.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"freshmarket/internal/domain"
	"freshmarket/internal/pricing"
)

// Cart is the external cart collaborator. Items are read-only from the
// workflow's perspective; Clear is only invoked after a confirmed successful
// checkout. Checkout owns authoritative pricing and persistence.
type Cart interface {
	Items() []domain.CartItem
	Clear()
	Checkout(ctx context.Context) (*domain.Order, error)
}

// Navigator moves the buyer to another view.
type Navigator interface {
	Push(path string)
}

// Notifier shows a blocking confirmation before navigating away.
type Notifier interface {
	Confirm(message string)
}

// User carries the signed-in buyer's profile, used only to pre-fill address
// defaults.
type User struct {
	Name  string
	Email string
}

const (
	StepAddress = 1
	StepPayment = 2
	StepReview  = 3
)

const fallbackSubmitMessage = "could not place order, please try again"

// Workflow is a single buyer's checkout session state machine.
type Workflow struct {
	cart   Cart
	nav    Navigator
	notify Notifier
	promos pricing.Resolver
	logger *log.Logger

	step       int
	address    domain.DeliveryAddress
	slot       domain.DeliverySlot
	payment    domain.PaymentMethod
	promoCode  string
	discount   int64
	agreeTerms bool
	errMsg     string
	processing bool
	submitted  bool
}

// New builds a workflow at the address step with the default slot and payment
// method pre-selected. If the cart is already empty the workflow immediately
// redirects to /cart.
func New(cart Cart, nav Navigator, notify Notifier, promos pricing.Resolver, logger *log.Logger, user *User) *Workflow {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	slot, _ := domain.SlotByID(domain.SlotMorning)
	payment, _ := domain.PaymentMethodByID(domain.PaymentCOD)
	w := &Workflow{
		cart:    cart,
		nav:     nav,
		notify:  notify,
		promos:  promos,
		logger:  logger,
		step:    StepAddress,
		slot:    slot,
		payment: payment,
	}
	if user != nil {
		w.address.Name = user.Name
		w.address.Email = user.Email
	}
	w.Refresh()
	return w
}

// Refresh re-checks the cart contents and redirects to /cart when they are
// empty. The check is suppressed once an order has been placed, so clearing
// the cart on success cannot race the order confirmation navigation.
func (w *Workflow) Refresh() {
	if w.submitted {
		return
	}
	if len(w.cart.Items()) == 0 {
		w.nav.Push("/cart")
	}
}

func (w *Workflow) Step() int                       { return w.step }
func (w *Workflow) Address() domain.DeliveryAddress { return w.address }
func (w *Workflow) Slot() domain.DeliverySlot       { return w.slot }
func (w *Workflow) Payment() domain.PaymentMethod   { return w.payment }
func (w *Workflow) PromoCode() string               { return w.promoCode }
func (w *Workflow) Discount() int64                 { return w.discount }
func (w *Workflow) AgreeTerms() bool                { return w.agreeTerms }
func (w *Workflow) Processing() bool                { return w.processing }
func (w *Workflow) Submitted() bool                 { return w.submitted }

// Error returns the currently displayed error message, if any.
func (w *Workflow) Error() string { return w.errMsg }

// DismissError clears the displayed error message.
func (w *Workflow) DismissError() { w.errMsg = "" }

// SetAddress replaces the delivery address being edited on step 1.
func (w *Workflow) SetAddress(a domain.DeliveryAddress) {
	w.address = a
}

// SetAgreeTerms records whether the buyer accepted the terms on the review
// step.
func (w *Workflow) SetAgreeTerms(v bool) {
	w.agreeTerms = v
}

// SelectSlot switches the delivery slot. Unavailable slots are rejected.
func (w *Workflow) SelectSlot(id string) error {
	slot, ok := domain.SlotByID(id)
	if !ok {
		return fmt.Errorf("unknown delivery slot %q", id)
	}
	if !slot.Available {
		return fmt.Errorf("delivery slot %q is not available", id)
	}
	w.slot = slot
	return nil
}

// SelectPayment switches the payment method. Unavailable methods are rejected.
func (w *Workflow) SelectPayment(id string) error {
	method, ok := domain.PaymentMethodByID(id)
	if !ok {
		return fmt.Errorf("unknown payment method %q", id)
	}
	if !method.Available {
		return fmt.Errorf("payment method %q is not available", id)
	}
	w.payment = method
	return nil
}

// ApplyPromo resolves a promo code against the catalog at the current
// subtotal. A successful application overwrites any earlier discount; a failed
// lookup surfaces an error and leaves the prior discount untouched.
func (w *Workflow) ApplyPromo(ctx context.Context, code string) error {
	code = pricing.NormalizeCode(code)
	if code == "" {
		w.errMsg = "enter a promo code"
		return errors.New(w.errMsg)
	}
	amount, err := w.promos.ResolveDiscount(ctx, code, w.Subtotal())
	if err != nil {
		if errors.Is(err, pricing.ErrUnknownCode) {
			w.errMsg = "invalid promo code"
			return err
		}
		w.logger.Printf("checkout: resolve promo %q: %v", code, err)
		w.errMsg = "could not apply promo code, please try again"
		return err
	}
	w.promoCode = code
	w.discount = amount
	w.errMsg = ""
	return nil
}

// Subtotal is the current cart subtotal.
func (w *Workflow) Subtotal() int64 {
	return domain.Subtotal(w.cart.Items())
}

// Draft recomputes the displayed price breakdown from the current state.
func (w *Workflow) Draft() domain.OrderDraft {
	return pricing.Quote(w.Subtotal(), w.slot, w.payment, w.discount)
}

// Advance moves to the next step if the current one validates. Leaving the
// address step requires every field except landmark to be filled in; the
// payment step always validates because a slot and method are pre-selected.
func (w *Workflow) Advance() error {
	switch w.step {
	case StepAddress:
		if missing := missingAddressFields(w.address); len(missing) > 0 {
			w.errMsg = "please fill in all required fields: " + strings.Join(missing, ", ")
			return errors.New(w.errMsg)
		}
		w.errMsg = ""
		w.step = StepPayment
	case StepPayment:
		w.errMsg = ""
		w.step = StepReview
	}
	return nil
}

// Retreat moves back one step, never below the address step.
func (w *Workflow) Retreat() {
	if w.step > StepAddress {
		w.step--
	}
	w.errMsg = ""
}

// Submit places the order via the cart's checkout operation. It is only
// permitted on the review step with the terms agreed, at most one submission
// may be in flight at a time, and a workflow that already placed its order
// rejects any further submission. On success the cart is cleared
// exactly once and the buyer is sent to the order confirmation view; on
// failure the cart is kept, the error is surfaced, and the terms must be
// accepted again before retrying.
func (w *Workflow) Submit(ctx context.Context) error {
	if w.submitted {
		return errors.New("order already placed")
	}
	if w.processing {
		return errors.New("submission already in progress")
	}
	if w.step != StepReview {
		return fmt.Errorf("cannot submit from step %d", w.step)
	}
	if !w.agreeTerms {
		w.errMsg = "please agree to the terms and conditions"
		return errors.New(w.errMsg)
	}

	w.processing = true
	defer func() { w.processing = false }()

	order, err := w.cart.Checkout(ctx)
	if err != nil {
		w.logger.Printf("checkout: submit failed: %v", err)
		msg := err.Error()
		if msg == "" {
			msg = fallbackSubmitMessage
		}
		w.errMsg = msg
		w.agreeTerms = false
		return err
	}

	w.submitted = true
	w.errMsg = ""
	w.notify.Confirm("order placed successfully")
	w.cart.Clear()
	w.nav.Push("/order-success?orderId=" + order.ID)
	return nil
}

func missingAddressFields(a domain.DeliveryAddress) []string {
	required := []struct {
		label string
		value string
	}{
		{"name", a.Name},
		{"phone", a.Phone},
		{"email", a.Email},
		{"address", a.Address},
		{"city", a.City},
		{"state", a.State},
		{"pincode", a.Pincode},
	}
	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.label)
		}
	}
	return missing
}
