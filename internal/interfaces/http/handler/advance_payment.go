package handler

import (
	"github.com/gin-gonic/gin"

	billingapp "github.com/erp/sales/internal/application/billing"
)

// AdvancePaymentHandler handles advance payment API endpoints
type AdvancePaymentHandler struct {
	BaseHandler
	advanceService *billingapp.AdvancePaymentService
}

// NewAdvancePaymentHandler creates a new AdvancePaymentHandler
func NewAdvancePaymentHandler(advanceService *billingapp.AdvancePaymentService) *AdvancePaymentHandler {
	return &AdvancePaymentHandler{advanceService: advanceService}
}

// Create records a new pending advance payment
func (h *AdvancePaymentHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	var req billingapp.CreateAdvancePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.CreatedBy = getUserIDPtr(c)

	advance, err := h.advanceService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, advance)
}

// GetByID retrieves an advance payment by ID
func (h *AdvancePaymentHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	advanceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid advance payment ID format")
		return
	}

	advance, err := h.advanceService.GetByID(c.Request.Context(), tenantID, advanceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, advance)
}

// ListWithBalance lists a customer's advances that still carry a balance
func (h *AdvancePaymentHandler) ListWithBalance(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid customer ID format")
		return
	}

	advances, err := h.advanceService.ListWithBalance(c.Request.Context(), tenantID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, advances)
}

// Capture confirms receipt of a pending advance's funds
func (h *AdvancePaymentHandler) Capture(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	advanceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid advance payment ID format")
		return
	}

	advance, err := h.advanceService.Capture(c.Request.Context(), tenantID, advanceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, advance)
}

// Apply applies part of the advance balance to an open invoice
func (h *AdvancePaymentHandler) Apply(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	advanceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid advance payment ID format")
		return
	}

	var req billingapp.ApplyAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	advance, err := h.advanceService.ApplyToInvoice(c.Request.Context(), tenantID, advanceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, advance)
}

// ReverseApplication reverses a prior application, restoring the balance
func (h *AdvancePaymentHandler) ReverseApplication(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	advanceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid advance payment ID format")
		return
	}

	var req billingapp.ReverseAdvanceApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	advance, err := h.advanceService.ReverseApplication(c.Request.Context(), tenantID, advanceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, advance)
}

// Refund refunds part or all of the unapplied advance balance
func (h *AdvancePaymentHandler) Refund(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	advanceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid advance payment ID format")
		return
	}

	var req billingapp.RefundAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	advance, err := h.advanceService.Refund(c.Request.Context(), tenantID, advanceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, advance)
}

// Cancel cancels a pending advance before capture
func (h *AdvancePaymentHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	advanceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid advance payment ID format")
		return
	}

	var req billingapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	advance, err := h.advanceService.Cancel(c.Request.Context(), tenantID, advanceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, advance)
}
