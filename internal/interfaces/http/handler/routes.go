package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the quotation endpoints
func (h *QuotationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotations := rg.Group("/quotations")
	{
		quotations.POST("", h.Create)
		quotations.GET("", h.List)
		quotations.POST("/expire", h.Expire)
		quotations.GET("/:id", h.GetByID)
		quotations.POST("/:id/items", h.AddItem)
		quotations.PUT("/:id/items/:item_id", h.UpdateItem)
		quotations.DELETE("/:id/items/:item_id", h.RemoveItem)
		quotations.POST("/:id/discount", h.ApplyDiscount)
		quotations.POST("/:id/shipping", h.SetShipping)
		quotations.POST("/:id/submit", h.Submit)
		quotations.POST("/:id/approve", h.Approve)
		quotations.POST("/:id/send", h.Send)
		quotations.POST("/:id/accept", h.Accept)
		quotations.POST("/:id/reject", h.Reject)
		quotations.POST("/:id/cancel", h.Cancel)
		quotations.POST("/:id/revise", h.Revise)
		quotations.POST("/:id/convert", h.ConvertToOrder)
	}
}

// RegisterRoutes mounts the sales order endpoints
func (h *SalesOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/sales-orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.GetByID)
		orders.POST("/:id/approve", h.Approve)
		orders.POST("/:id/confirm", h.Confirm)
		orders.POST("/:id/ship", h.Ship)
		orders.POST("/:id/deliver", h.Deliver)
		orders.POST("/:id/complete", h.Complete)
		orders.POST("/:id/cancel", h.Cancel)
	}
}

// RegisterRoutes mounts the sales return endpoints
func (h *SalesReturnHandler) RegisterRoutes(rg *gin.RouterGroup) {
	returns := rg.Group("/sales-returns")
	{
		returns.POST("", h.Create)
		returns.GET("", h.List)
		returns.GET("/:id", h.GetByID)
		returns.POST("/:id/submit", h.Submit)
		returns.POST("/:id/approve", h.Approve)
		returns.POST("/:id/reject", h.Reject)
		returns.POST("/:id/receive", h.Receive)
		returns.POST("/:id/refund", h.Refund)
		returns.POST("/:id/complete", h.Complete)
		returns.POST("/:id/cancel", h.Cancel)
	}
}

// RegisterRoutes mounts the back order and reservation endpoints
func (h *FulfillmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	backOrders := rg.Group("/back-orders")
	{
		backOrders.GET("/:id", h.GetBackOrder)
		backOrders.POST("/:id/fulfillments", h.RecordFulfillment)
		backOrders.POST("/:id/cancel", h.CancelBackOrder)
	}

	reservations := rg.Group("/reservations")
	{
		reservations.POST("", h.Reserve)
		reservations.POST("/expire", h.ExpireReservations)
		reservations.POST("/:id/consume", h.Consume)
		reservations.POST("/:id/release", h.Release)
	}

	orders := rg.Group("/sales-orders")
	{
		orders.GET("/:id/back-orders", h.ListBackOrdersForOrder)
		orders.GET("/:id/reservations", h.ListReservationsForOrder)
	}
}

// RegisterRoutes mounts the invoice endpoints
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.Create)
		invoices.GET("", h.List)
		invoices.GET("/overdue", h.ListOverdue)
		invoices.GET("/:id", h.GetByID)
		invoices.POST("/:id/items", h.AddItem)
		invoices.DELETE("/:id/items/:item_id", h.RemoveItem)
		invoices.POST("/:id/discount", h.ApplyDiscount)
		invoices.POST("/:id/issue", h.Issue)
		invoices.POST("/:id/send", h.Send)
		invoices.POST("/:id/cancel", h.Cancel)
	}
}

// RegisterRoutes mounts the payment endpoints
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("", h.Record)
		payments.GET("/:id", h.GetByID)
		payments.POST("/:id/reverse", h.Reverse)
	}

	rg.GET("/invoices/:id/payments", h.ListForInvoice)
}

// RegisterRoutes mounts the advance payment endpoints
func (h *AdvancePaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	advances := rg.Group("/advance-payments")
	{
		advances.POST("", h.Create)
		advances.GET("/:id", h.GetByID)
		advances.POST("/:id/capture", h.Capture)
		advances.POST("/:id/apply", h.Apply)
		advances.POST("/:id/reverse-application", h.ReverseApplication)
		advances.POST("/:id/refund", h.Refund)
		advances.POST("/:id/cancel", h.Cancel)
	}

	rg.GET("/customers/:id/advance-payments", h.ListWithBalance)
}

// RegisterRoutes mounts the credit note endpoints
func (h *CreditNoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	creditNotes := rg.Group("/credit-notes")
	{
		creditNotes.POST("", h.Create)
		creditNotes.GET("/:id", h.GetByID)
		creditNotes.POST("/:id/submit", h.Submit)
		creditNotes.POST("/:id/approve", h.Approve)
		creditNotes.POST("/:id/reject", h.Reject)
		creditNotes.POST("/:id/issue", h.Issue)
		creditNotes.POST("/:id/apply", h.Apply)
		creditNotes.POST("/:id/void", h.Void)
	}

	rg.GET("/invoices/:id/credit-notes", h.ListForInvoice)
}

// RegisterRoutes mounts the commission plan endpoints
func (h *CommissionPlanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	plans := rg.Group("/commission-plans")
	{
		plans.POST("", h.Create)
		plans.GET("", h.List)
		plans.GET("/active", h.ListActive)
		plans.GET("/:id", h.GetByID)
		plans.POST("/:id/tiers", h.AddTier)
		plans.DELETE("/:id/tiers/:tier_id", h.RemoveTier)
		plans.PUT("/:id/validity", h.SetValidity)
		plans.POST("/:id/activate", h.Activate)
		plans.POST("/:id/deactivate", h.Deactivate)
		plans.POST("/:id/preview", h.CalculatePreview)
	}
}

// RegisterRoutes mounts the commission endpoints
func (h *CommissionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	commissions := rg.Group("/commissions")
	{
		commissions.POST("", h.Calculate)
		commissions.GET("", h.List)
		commissions.GET("/:id", h.GetByID)
		commissions.POST("/:id/approve", h.Approve)
		commissions.POST("/:id/pay", h.MarkPaid)
		commissions.POST("/:id/cancel", h.Cancel)
	}
}

// RegisterRoutes mounts the discount endpoints
func (h *DiscountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	discounts := rg.Group("/discounts")
	{
		discounts.POST("", h.Create)
		discounts.GET("/active", h.ListActive)
		discounts.POST("/compute", h.Compute)
		discounts.GET("/:id", h.GetByID)
		discounts.POST("/:id/activate", h.Activate)
		discounts.POST("/:id/deactivate", h.Deactivate)
		discounts.POST("/:id/usages", h.RecordUsage)
	}
}
