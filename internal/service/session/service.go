// Package session holds live checkout sessions, one workflow engine per
// session, keyed by an opaque ID handed to the storefront. Sessions are
// in-memory and expire after a period of inactivity; a placed order is the
// only durable artifact.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"log"
	"sync"
	"time"

	"freshmarket/internal/checkout"
	"freshmarket/internal/domain"
	"freshmarket/internal/pricing"
	ordersvc "freshmarket/internal/service/order"
)

// OrderPlacer is the authoritative checkout operation the engine submits to.
type OrderPlacer interface {
	Place(ctx context.Context, in ordersvc.PlaceInput) (*domain.Order, error)
}

const defaultTTL = 2 * time.Hour

type Service struct {
	mu       sync.Mutex
	sessions map[string]*session
	orders   OrderPlacer
	promos   pricing.Resolver
	ttl      time.Duration
	logger   *log.Logger
}

type session struct {
	mu        sync.Mutex
	id        string
	wf        *checkout.Workflow
	cart      *snapshotCart
	nav       *recordingNav
	notify    *recordingNotifier
	expiresAt time.Time
}

func New(orders OrderPlacer, promos pricing.Resolver, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		sessions: make(map[string]*session),
		orders:   orders,
		promos:   promos,
		ttl:      defaultTTL,
		logger:   logger,
	}
}

// CreateInput opens a session from a cart snapshot. User, when present,
// pre-fills the address.
type CreateInput struct {
	Items []domain.CartItem
	User  *checkout.User
}

func (s *Service) Create(in CreateInput) (*View, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, err
	}

	sess := &session{id: id}
	cart := &snapshotCart{items: in.Items}
	cart.place = func(ctx context.Context, items []domain.CartItem) (*domain.Order, error) {
		return s.orders.Place(ctx, ordersvc.PlaceInput{
			Items:           items,
			Address:         sess.wf.Address(),
			SlotID:          sess.wf.Slot().ID,
			PaymentMethodID: sess.wf.Payment().ID,
			PromoCode:       sess.wf.PromoCode(),
		})
	}
	sess.cart = cart
	sess.nav = &recordingNav{}
	sess.notify = &recordingNotifier{}
	sess.wf = checkout.New(cart, sess.nav, sess.notify, s.promos, s.logger, in.User)
	sess.expiresAt = time.Now().Add(s.ttl)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.logger.Printf("session service: created id=%s items=%d", id, len(in.Items))
	return sess.view(), nil
}

func (s *Service) Get(id string) (*View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

func (s *Service) UpdateAddress(id string, addr domain.DeliveryAddress) (*View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.wf.SetAddress(addr)
	return sess.view(), nil
}

func (s *Service) SelectSlot(id, slotID string) (*View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.wf.SelectSlot(slotID); err != nil {
		return nil, err
	}
	return sess.view(), nil
}

func (s *Service) SelectPayment(id, methodID string) (*View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.wf.SelectPayment(methodID); err != nil {
		return nil, err
	}
	return sess.view(), nil
}

func (s *Service) ApplyPromo(ctx context.Context, id, code string) (*View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	// Lookup misses land in the view's error field rather than failing the
	// request: the buyer can proceed without a valid promo.
	_ = sess.wf.ApplyPromo(ctx, code)
	return sess.view(), nil
}

// DismissError clears the session's displayed alert.
func (s *Service) DismissError(id string) (*View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.wf.DismissError()
	return sess.view(), nil
}

func (s *Service) SetTerms(id string, agree bool) (*View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.wf.SetAgreeTerms(agree)
	return sess.view(), nil
}

func (s *Service) Advance(id string) (*View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	// Validation failures land in the view's error field.
	_ = sess.wf.Advance()
	return sess.view(), nil
}

func (s *Service) Retreat(id string) (*View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.wf.Retreat()
	return sess.view(), nil
}

// Submit places the order. The returned view carries either the
// order-success redirect or the surfaced submission error; err is non-nil
// only for failures the buyer cannot see inline (unknown session).
func (s *Service) Submit(ctx context.Context, id string) (*View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.wf.Submit(ctx); err != nil {
		s.logger.Printf("session service: submit id=%s failed: %v", id, err)
	}
	return sess.view(), nil
}

func (s *Service) lookup(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, id)
		return nil, domain.ErrNotFound
	}
	sess.expiresAt = time.Now().Add(s.ttl)
	return sess, nil
}

func newSessionID() (string, error) {
	var b [18]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}
