package httpserver

import (
	"context"
	"errors"
	"net/http"

	"freshmarket/internal/checkout"
	"freshmarket/internal/domain"
	"freshmarket/internal/repository/promo"
	"freshmarket/internal/service/session"
	"github.com/gin-gonic/gin"
)

// Deps carries the services the router depends on.
type Deps struct {
	Sessions SessionService
	Orders   OrderService
	Promos   PromoLister
}

type SessionService interface {
	Create(in session.CreateInput) (*session.View, error)
	Get(id string) (*session.View, error)
	UpdateAddress(id string, addr domain.DeliveryAddress) (*session.View, error)
	SelectSlot(id, slotID string) (*session.View, error)
	SelectPayment(id, methodID string) (*session.View, error)
	ApplyPromo(ctx context.Context, id, code string) (*session.View, error)
	SetTerms(id string, agree bool) (*session.View, error)
	DismissError(id string) (*session.View, error)
	Advance(id string) (*session.View, error)
	Retreat(id string) (*session.View, error)
	Submit(ctx context.Context, id string) (*session.View, error)
}

type OrderService interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, limit int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

type PromoLister interface {
	List(ctx context.Context, activeOnly bool) ([]promo.Record, error)
}

type createCheckoutRequest struct {
	Items []domain.CartItem `json:"items"`
	User  *checkout.User    `json:"user,omitempty"`
}

func createCheckoutHandler(svc SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createCheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}
		view, err := svc.Create(session.CreateInput{Items: req.Items, User: req.User})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, view)
	}
}

func getCheckoutHandler(svc SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondView(c, func(id string) (*session.View, error) {
			return svc.Get(id)
		})
	}
}

func updateAddressHandler(svc SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var addr domain.DeliveryAddress
		if err := c.ShouldBindJSON(&addr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}
		respondView(c, func(id string) (*session.View, error) {
			return svc.UpdateAddress(id, addr)
		})
	}
}

type selectionRequest struct {
	ID string `json:"id" binding:"required"`
}

func selectSlotHandler(svc SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req selectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}
		respondView(c, func(id string) (*session.View, error) {
			return svc.SelectSlot(id, req.ID)
		})
	}
}

func selectPaymentHandler(svc SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req selectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}
		respondView(c, func(id string) (*session.View, error) {
			return svc.SelectPayment(id, req.ID)
		})
	}
}

type termsRequest struct {
	AgreeTerms bool `json:"agreeTerms"`
}

func setTermsHandler(svc SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req termsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}
		respondView(c, func(id string) (*session.View, error) {
			return svc.SetTerms(id, req.AgreeTerms)
		})
	}
}

type promoRequest struct {
	Code string `json:"code" binding:"required"`
}

func applyPromoHandler(svc SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req promoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}
		respondView(c, func(id string) (*session.View, error) {
			return svc.ApplyPromo(c.Request.Context(), id, req.Code)
		})
	}
}

func dismissErrorHandler(svc SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondView(c, svc.DismissError)
	}
}

func advanceHandler(svc SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondView(c, svc.Advance)
	}
}

func retreatHandler(svc SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondView(c, svc.Retreat)
	}
}

func submitHandler(svc SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondView(c, func(id string) (*session.View, error) {
			return svc.Submit(c.Request.Context(), id)
		})
	}
}

// respondView runs op for the session named in the path and renders the
// resulting view. Workflow-level problems (blocked advance, bad promo,
// submission failure) ride inside the view; only unknown sessions and
// rejected selections become HTTP errors.
func respondView(c *gin.Context, op func(id string) (*session.View, error)) {
	view, err := op(c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "checkout session not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}
