package httpserver

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires routes for the checkout API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	if len(corsOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = corsOrigins
		cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
		router.Use(cors.New(cfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	checkouts := router.Group("/checkouts")
	{
		checkouts.POST("", createCheckoutHandler(deps.Sessions))
		checkouts.GET("/:id", getCheckoutHandler(deps.Sessions))
		checkouts.PUT("/:id/address", updateAddressHandler(deps.Sessions))
		checkouts.PUT("/:id/slot", selectSlotHandler(deps.Sessions))
		checkouts.PUT("/:id/payment", selectPaymentHandler(deps.Sessions))
		checkouts.PUT("/:id/terms", setTermsHandler(deps.Sessions))
		checkouts.POST("/:id/promo", applyPromoHandler(deps.Sessions))
		checkouts.DELETE("/:id/error", dismissErrorHandler(deps.Sessions))
		checkouts.POST("/:id/advance", advanceHandler(deps.Sessions))
		checkouts.POST("/:id/retreat", retreatHandler(deps.Sessions))
		checkouts.POST("/:id/submit", submitHandler(deps.Sessions))
	}

	router.GET("/orders", listOrdersHandler(deps.Orders))
	router.GET("/orders/:id", getOrderHandler(deps.Orders))
	router.PUT("/orders/:id/status", updateOrderStatusHandler(deps.Orders))
	router.GET("/delivery-slots", listSlotsHandler)
	router.GET("/payment-methods", listPaymentMethodsHandler)
	router.GET("/promos", listPromosHandler(deps.Promos))

	return router
}
