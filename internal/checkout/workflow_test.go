package checkout

import (
	"context"
	"errors"
	"testing"

	"freshmarket/internal/domain"
	"freshmarket/internal/pricing"
)

type stubCart struct {
	items        []domain.CartItem
	clearCalls   int
	checkoutOut  *domain.Order
	checkoutErr  error
	checkoutHits int
}

func (c *stubCart) Items() []domain.CartItem { return c.items }

func (c *stubCart) Clear() {
	c.clearCalls++
	c.items = nil
}

func (c *stubCart) Checkout(_ context.Context) (*domain.Order, error) {
	c.checkoutHits++
	return c.checkoutOut, c.checkoutErr
}

type stubNav struct {
	paths []string
}

func (n *stubNav) Push(path string) { n.paths = append(n.paths, path) }

type stubNotifier struct {
	messages []string
}

func (n *stubNotifier) Confirm(msg string) { n.messages = append(n.messages, msg) }

func testItems() []domain.CartItem {
	return []domain.CartItem{
		{ID: "tomato", Name: "Tomatoes", Price: 40, Quantity: 5, Unit: "kg"},
		{ID: "spinach", Name: "Spinach", Price: 25, Quantity: 2, Unit: "bunch"},
	}
}

func newTestWorkflow(cart *stubCart) (*Workflow, *stubNav, *stubNotifier) {
	nav := &stubNav{}
	notify := &stubNotifier{}
	w := New(cart, nav, notify, pricing.NewStaticCatalog(), nil, nil)
	return w, nav, notify
}

func completeAddress() domain.DeliveryAddress {
	return domain.DeliveryAddress{
		Name:    "Asha",
		Phone:   "9876543210",
		Email:   "asha@example.com",
		Address: "12 Market Road",
		City:    "Pune",
		State:   "MH",
		Pincode: "411001",
	}
}

func TestNewEmptyCartRedirects(t *testing.T) {
	w, nav, _ := newTestWorkflow(&stubCart{})
	if len(nav.paths) != 1 || nav.paths[0] != "/cart" {
		t.Fatalf("expected redirect to /cart, got %v", nav.paths)
	}
	if w.Step() != StepAddress {
		t.Fatalf("expected step 1, got %d", w.Step())
	}
}

func TestNewNonEmptyCartDoesNotRedirect(t *testing.T) {
	_, nav, _ := newTestWorkflow(&stubCart{items: testItems()})
	if len(nav.paths) != 0 {
		t.Fatalf("unexpected navigation %v", nav.paths)
	}
}

func TestNewPrefillsAddressFromUser(t *testing.T) {
	cart := &stubCart{items: testItems()}
	w := New(cart, &stubNav{}, &stubNotifier{}, pricing.NewStaticCatalog(), nil, &User{Name: "Asha", Email: "asha@example.com"})
	addr := w.Address()
	if addr.Name != "Asha" || addr.Email != "asha@example.com" {
		t.Fatalf("expected prefilled address, got %+v", addr)
	}
}

func TestRefreshRedirectsWhenItemsBecomeEmpty(t *testing.T) {
	cart := &stubCart{items: testItems()}
	w, nav, _ := newTestWorkflow(cart)
	cart.items = nil
	w.Refresh()
	if len(nav.paths) != 1 || nav.paths[0] != "/cart" {
		t.Fatalf("expected redirect to /cart, got %v", nav.paths)
	}
}

func TestAdvanceBlockedWithIncompleteAddress(t *testing.T) {
	w, _, _ := newTestWorkflow(&stubCart{items: testItems()})
	addr := completeAddress()
	addr.Phone = "   "
	w.SetAddress(addr)
	if err := w.Advance(); err == nil {
		t.Fatalf("expected validation error")
	}
	if w.Step() != StepAddress {
		t.Fatalf("expected to stay on step 1, got %d", w.Step())
	}
	if w.Error() != "please fill in all required fields: phone" {
		t.Fatalf("unexpected error message %q", w.Error())
	}
}

func TestAdvanceThroughAllSteps(t *testing.T) {
	w, _, _ := newTestWorkflow(&stubCart{items: testItems()})
	w.SetAddress(completeAddress())
	if err := w.Advance(); err != nil {
		t.Fatalf("advance to payment: %v", err)
	}
	if w.Step() != StepPayment {
		t.Fatalf("expected step 2, got %d", w.Step())
	}
	if err := w.Advance(); err != nil {
		t.Fatalf("advance to review: %v", err)
	}
	if w.Step() != StepReview {
		t.Fatalf("expected step 3, got %d", w.Step())
	}
}

func TestRetreatStopsAtFirstStep(t *testing.T) {
	w, _, _ := newTestWorkflow(&stubCart{items: testItems()})
	w.Retreat()
	if w.Step() != StepAddress {
		t.Fatalf("expected step 1, got %d", w.Step())
	}
	w.SetAddress(completeAddress())
	_ = w.Advance()
	w.Retreat()
	if w.Step() != StepAddress {
		t.Fatalf("expected step 1 after retreat, got %d", w.Step())
	}
}

func TestSelectSlotRejectsUnavailable(t *testing.T) {
	w, _, _ := newTestWorkflow(&stubCart{items: testItems()})
	if err := w.SelectSlot(domain.SlotEvening); err == nil {
		t.Fatalf("expected unavailable slot to be rejected")
	}
	if w.Slot().ID != domain.SlotMorning {
		t.Fatalf("expected slot unchanged, got %s", w.Slot().ID)
	}
	if err := w.SelectSlot(domain.SlotExpress); err != nil {
		t.Fatalf("select express: %v", err)
	}
	if w.Slot().Fee != 50 {
		t.Fatalf("expected express fee 50, got %d", w.Slot().Fee)
	}
}

func TestSelectPaymentUnknown(t *testing.T) {
	w, _, _ := newTestWorkflow(&stubCart{items: testItems()})
	if err := w.SelectPayment("upi"); err == nil {
		t.Fatalf("expected unknown payment method to be rejected")
	}
	if err := w.SelectPayment(domain.PaymentWallet); err != nil {
		t.Fatalf("select wallet: %v", err)
	}
}

func TestApplyPromoOverwritesAndKeepsOnFailure(t *testing.T) {
	// Subtotal here is 40*5 + 25*2 = 250.
	w, _, _ := newTestWorkflow(&stubCart{items: testItems()})
	if err := w.ApplyPromo(context.Background(), "fresh10"); err != nil {
		t.Fatalf("apply FRESH10: %v", err)
	}
	if w.Discount() != 25 {
		t.Fatalf("expected discount 25, got %d", w.Discount())
	}
	if err := w.ApplyPromo(context.Background(), "SAVE50"); err != nil {
		t.Fatalf("apply SAVE50: %v", err)
	}
	if w.Discount() != 50 || w.PromoCode() != "SAVE50" {
		t.Fatalf("expected flat 50 discount, got %d (%s)", w.Discount(), w.PromoCode())
	}
	if err := w.ApplyPromo(context.Background(), "BADCODE"); !errors.Is(err, pricing.ErrUnknownCode) {
		t.Fatalf("expected unknown code error, got %v", err)
	}
	if w.Discount() != 50 {
		t.Fatalf("expected prior discount kept, got %d", w.Discount())
	}
	if w.Error() != "invalid promo code" {
		t.Fatalf("unexpected error message %q", w.Error())
	}
}

func TestDraftReflectsSelections(t *testing.T) {
	items := []domain.CartItem{{ID: "a", Name: "A", Price: 450, Quantity: 1}}
	w, _, _ := newTestWorkflow(&stubCart{items: items})
	if err := w.SelectSlot(domain.SlotExpress); err != nil {
		t.Fatalf("select slot: %v", err)
	}
	draft := w.Draft()
	if draft.DeliveryFee != 50 || draft.SlotFee != 50 || draft.Taxes != 23 {
		t.Fatalf("unexpected draft %+v", draft)
	}
	if draft.Total != 573 {
		t.Fatalf("expected total 573, got %d", draft.Total)
	}
}

func toReview(t *testing.T, w *Workflow) {
	t.Helper()
	w.SetAddress(completeAddress())
	if err := w.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := w.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
}

func TestSubmitRequiresReviewStep(t *testing.T) {
	cart := &stubCart{items: testItems()}
	w, _, _ := newTestWorkflow(cart)
	if err := w.Submit(context.Background()); err == nil {
		t.Fatalf("expected submit to be rejected on step 1")
	}
	if cart.checkoutHits != 0 {
		t.Fatalf("checkout should not have been called")
	}
}

func TestSubmitRequiresTerms(t *testing.T) {
	cart := &stubCart{items: testItems()}
	w, _, _ := newTestWorkflow(cart)
	toReview(t, w)
	if err := w.Submit(context.Background()); err == nil {
		t.Fatalf("expected submit to be blocked without terms")
	}
	if cart.checkoutHits != 0 {
		t.Fatalf("checkout should not have been called, got %d calls", cart.checkoutHits)
	}
	if w.Error() != "please agree to the terms and conditions" {
		t.Fatalf("unexpected error message %q", w.Error())
	}
}

func TestSubmitSuccess(t *testing.T) {
	cart := &stubCart{
		items:       testItems(),
		checkoutOut: &domain.Order{ID: "ord-123"},
	}
	w, nav, notify := newTestWorkflow(cart)
	toReview(t, w)
	w.SetAgreeTerms(true)
	if err := w.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if cart.clearCalls != 1 {
		t.Fatalf("expected cart cleared exactly once, got %d", cart.clearCalls)
	}
	if len(nav.paths) != 1 || nav.paths[0] != "/order-success?orderId=ord-123" {
		t.Fatalf("unexpected navigation %v", nav.paths)
	}
	if len(notify.messages) != 1 {
		t.Fatalf("expected one confirmation, got %v", notify.messages)
	}
	if !w.Submitted() {
		t.Fatalf("expected workflow marked submitted")
	}
}

func TestSubmitSuccessSuppressesEmptyCartRedirect(t *testing.T) {
	cart := &stubCart{items: testItems(), checkoutOut: &domain.Order{ID: "ord-1"}}
	w, nav, _ := newTestWorkflow(cart)
	toReview(t, w)
	w.SetAgreeTerms(true)
	if err := w.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	// Clearing the cart emptied it; a refresh must not bounce the buyer back
	// to /cart before they see the confirmation page.
	w.Refresh()
	if len(nav.paths) != 1 || nav.paths[0] != "/order-success?orderId=ord-1" {
		t.Fatalf("unexpected navigation %v", nav.paths)
	}
}

func TestSubmitFailureKeepsCartAndRequiresTermsAgain(t *testing.T) {
	cart := &stubCart{items: testItems(), checkoutErr: errors.New("payment gateway unavailable")}
	w, nav, _ := newTestWorkflow(cart)
	toReview(t, w)
	w.SetAgreeTerms(true)
	if err := w.Submit(context.Background()); err == nil {
		t.Fatalf("expected submit error")
	}
	if cart.clearCalls != 0 {
		t.Fatalf("cart must not be cleared on failure")
	}
	if len(cart.Items()) != 2 {
		t.Fatalf("cart should retain its items")
	}
	if w.Step() != StepReview {
		t.Fatalf("expected to stay on review step, got %d", w.Step())
	}
	if w.Error() != "payment gateway unavailable" {
		t.Fatalf("unexpected error message %q", w.Error())
	}
	if w.AgreeTerms() {
		t.Fatalf("expected terms agreement to be reset after failure")
	}
	if len(nav.paths) != 0 {
		t.Fatalf("unexpected navigation %v", nav.paths)
	}
}

func TestSubmitFailureWithEmptyMessageUsesFallback(t *testing.T) {
	cart := &stubCart{items: testItems(), checkoutErr: errors.New("")}
	w, _, _ := newTestWorkflow(cart)
	toReview(t, w)
	w.SetAgreeTerms(true)
	if err := w.Submit(context.Background()); err == nil {
		t.Fatalf("expected submit error")
	}
	if w.Error() != fallbackSubmitMessage {
		t.Fatalf("expected fallback message, got %q", w.Error())
	}
}

func TestSubmitRetryAfterFailure(t *testing.T) {
	cart := &stubCart{items: testItems(), checkoutErr: errors.New("boom")}
	w, nav, _ := newTestWorkflow(cart)
	toReview(t, w)
	w.SetAgreeTerms(true)
	if err := w.Submit(context.Background()); err == nil {
		t.Fatalf("expected first submit to fail")
	}

	cart.checkoutErr = nil
	cart.checkoutOut = &domain.Order{ID: "ord-2"}
	w.SetAgreeTerms(true)
	if err := w.Submit(context.Background()); err != nil {
		t.Fatalf("retry submit: %v", err)
	}
	if cart.checkoutHits != 2 {
		t.Fatalf("expected two checkout calls, got %d", cart.checkoutHits)
	}
	if nav.paths[len(nav.paths)-1] != "/order-success?orderId=ord-2" {
		t.Fatalf("unexpected navigation %v", nav.paths)
	}
}

type reentrantCart struct {
	items    []domain.CartItem
	onCheck  func(ctx context.Context) (*domain.Order, error)
	clearHit int
}

func (c *reentrantCart) Items() []domain.CartItem { return c.items }
func (c *reentrantCart) Clear()                   { c.clearHit++ }
func (c *reentrantCart) Checkout(ctx context.Context) (*domain.Order, error) {
	return c.onCheck(ctx)
}

func TestSubmitGuardsAgainstDuplicateInvocation(t *testing.T) {
	cart := &reentrantCart{items: testItems()}
	nav := &stubNav{}
	w := New(cart, nav, &stubNotifier{}, pricing.NewStaticCatalog(), nil, nil)
	toReview(t, w)
	w.SetAgreeTerms(true)

	var nestedErr error
	cart.onCheck = func(ctx context.Context) (*domain.Order, error) {
		// A second click while the first submission is in flight.
		nestedErr = w.Submit(ctx)
		return &domain.Order{ID: "ord-1"}, nil
	}
	if err := w.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if nestedErr == nil {
		t.Fatalf("expected nested submit to be rejected while processing")
	}
	if cart.clearHit != 1 {
		t.Fatalf("expected cart cleared once, got %d", cart.clearHit)
	}
}

func TestSubmitRejectedAfterSuccess(t *testing.T) {
	cart := &stubCart{items: testItems(), checkoutOut: &domain.Order{ID: "ord-9"}}
	w, _, _ := newTestWorkflow(cart)
	toReview(t, w)
	w.SetAgreeTerms(true)
	if err := w.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// A replayed submit against the placed workflow must not reach the
	// checkout operation or clear the cart again.
	w.SetAgreeTerms(true)
	if err := w.Submit(context.Background()); err == nil {
		t.Fatalf("expected second submit to be rejected")
	}
	if cart.checkoutHits != 1 {
		t.Fatalf("expected one checkout call, got %d", cart.checkoutHits)
	}
	if cart.clearCalls != 1 {
		t.Fatalf("expected cart cleared exactly once, got %d", cart.clearCalls)
	}
}
