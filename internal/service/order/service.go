// Package order places and retrieves orders. Place is the authoritative
// checkout operation: it recomputes pricing server-side from the cart snapshot
// rather than trusting any client-displayed breakdown.
package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"freshmarket/internal/domain"
	"freshmarket/internal/pricing"
	orderrepo "freshmarket/internal/repository/order"
)

type Service struct {
	repo   orderRepo
	promos pricing.Resolver
	logger *log.Logger
}

type orderRepo interface {
	Insert(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, limit int) ([]domain.Order, error)
	SetStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

func New(repo orderrepo.Repository, promos pricing.Resolver, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, promos: promos, logger: logger}
}

// PlaceInput is the cart state captured at submission time.
type PlaceInput struct {
	Items           []domain.CartItem
	Address         domain.DeliveryAddress
	SlotID          string
	PaymentMethodID string
	PromoCode       string
}

// Place validates the selections, recomputes the price breakdown, and
// persists the order. A promo code that no longer resolves is dropped rather
// than failing the order; the buyer already saw it as display-only.
func (s *Service) Place(ctx context.Context, in PlaceInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, errors.New("cart is empty")
	}

	slot, ok := domain.SlotByID(in.SlotID)
	if !ok || !slot.Available {
		return nil, fmt.Errorf("delivery slot %q is not available", in.SlotID)
	}
	method, ok := domain.PaymentMethodByID(in.PaymentMethodID)
	if !ok || !method.Available {
		return nil, fmt.Errorf("payment method %q is not available", in.PaymentMethodID)
	}

	subtotal := domain.Subtotal(in.Items)

	var discount int64
	promoCode := pricing.NormalizeCode(in.PromoCode)
	if promoCode != "" && s.promos != nil {
		amount, err := s.promos.ResolveDiscount(ctx, promoCode, subtotal)
		switch {
		case err == nil:
			discount = amount
		case errors.Is(err, pricing.ErrUnknownCode):
			s.logger.Printf("order service: dropping unknown promo %q", promoCode)
			promoCode = ""
		default:
			return nil, fmt.Errorf("resolve promo %q: %w", promoCode, err)
		}
	}

	o := domain.Order{
		Address:         in.Address,
		SlotID:          slot.ID,
		PaymentMethodID: method.ID,
		PromoCode:       promoCode,
		Items:           in.Items,
		Pricing:         pricing.Quote(subtotal, slot, method, discount),
		Status:          domain.OrderPlaced,
	}
	placed, err := s.repo.Insert(ctx, o)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("order service: placed id=%s items=%d total=%d", placed.ID, len(placed.Items), placed.Pricing.Total)
	return placed, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit int) ([]domain.Order, error) {
	return s.repo.List(ctx, limit)
}

// UpdateStatus moves a placed order to another known status and returns the
// updated record.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if _, ok := domain.ParseOrderStatus(string(status)); !ok {
		return nil, fmt.Errorf("unknown order status %q", status)
	}
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.logger.Printf("order service: status id=%s -> %s", id, status)
	return s.repo.GetByID(ctx, id)
}
