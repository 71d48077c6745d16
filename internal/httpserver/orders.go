package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"freshmarket/internal/domain"
	"freshmarket/internal/repository/promo"
	"github.com/gin-gonic/gin"
)

func getOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := orders.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func listOrdersHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		list, err := orders.List(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not list orders"})
			return
		}
		if list == nil {
			list = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	}
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func updateOrderStatusHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}
		status, ok := domain.ParseOrderStatus(req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "unknown order status"})
			return
		}
		order, err := orders.UpdateStatus(c.Request.Context(), c.Param("id"), status)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func listSlotsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"slots": domain.DeliverySlots()})
}

func listPaymentMethodsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"paymentMethods": domain.PaymentMethods()})
}

func listPromosHandler(promos PromoLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		if promos == nil {
			c.JSON(http.StatusOK, gin.H{"promos": []any{}})
			return
		}
		records, err := promos.List(c.Request.Context(), true)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load promo codes"})
			return
		}
		if records == nil {
			records = []promo.Record{}
		}
		c.JSON(http.StatusOK, gin.H{"promos": records})
	}
}
