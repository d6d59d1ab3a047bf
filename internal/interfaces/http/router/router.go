package router

import (
	"github.com/gin-gonic/gin"

	"github.com/lanchonete/backend/internal/interfaces/http/handler"
)

// Router wires the API handlers onto a gin engine
type Router struct {
	sale       *handler.SaleHandler
	payment    *handler.PaymentHandler
	production *handler.ProductionHandler
	cashier    *handler.CashierHandler
	system     *handler.SystemHandler
}

// New creates a Router over the given handlers
func New(
	sale *handler.SaleHandler,
	payment *handler.PaymentHandler,
	production *handler.ProductionHandler,
	cashier *handler.CashierHandler,
	system *handler.SystemHandler,
) *Router {
	return &Router{
		sale:       sale,
		payment:    payment,
		production: production,
		cashier:    cashier,
		system:     system,
	}
}

// Setup registers every route on the engine
func (r *Router) Setup(engine *gin.Engine) {
	engine.GET("/health", r.system.Health)

	api := engine.Group("/api/v1")
	api.GET("/system/info", r.system.GetSystemInfo)

	sales := api.Group("/sales")
	{
		sales.POST("", r.sale.Create)
		sales.GET("", r.sale.List)
		sales.GET("/:id", r.sale.GetByID)
		sales.PUT("/:id/discount", r.sale.UpdateDiscount)
		sales.PUT("/:id/status", r.sale.SetStatus)
		sales.POST("/:id/payments", r.payment.ProcessPayment)
		sales.POST("/:id/payments/split", r.payment.PayItems)
	}

	items := api.Group("/items")
	{
		items.POST("/:itemId/payments", r.payment.PayItem)
		items.POST("/:itemId/production/start", r.production.Start)
		items.POST("/:itemId/production/complete", r.production.Complete)
		items.POST("/:itemId/production/deliver", r.production.Deliver)
		items.POST("/:itemId/production/revert", r.production.Revert)
	}

	api.GET("/production/queue", r.production.KitchenQueue)
	api.POST("/payments/:recordId/refund", r.payment.RefundPayment)

	closings := api.Group("/register/closings")
	{
		closings.POST("", r.cashier.Close)
		closings.GET("", r.cashier.List)
		closings.GET("/:id", r.cashier.GetByID)
		closings.DELETE("/:id", r.cashier.Delete)
	}
}
