package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/erp/sales/internal/application/billing"
)

// CreditNoteHandler handles credit note API endpoints
type CreditNoteHandler struct {
	BaseHandler
	creditNoteService *billingapp.CreditNoteService
}

// NewCreditNoteHandler creates a new CreditNoteHandler
func NewCreditNoteHandler(creditNoteService *billingapp.CreditNoteService) *CreditNoteHandler {
	return &CreditNoteHandler{creditNoteService: creditNoteService}
}

// Create creates a new draft credit note against an invoice
func (h *CreditNoteHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	var req billingapp.CreateCreditNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.CreatedBy = getUserIDPtr(c)

	creditNote, err := h.creditNoteService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, creditNote)
}

// GetByID retrieves a credit note by ID
func (h *CreditNoteHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	creditNoteID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid credit note ID format")
		return
	}

	creditNote, err := h.creditNoteService.GetByID(c.Request.Context(), tenantID, creditNoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, creditNote)
}

// ListForInvoice lists the credit notes raised against an invoice
func (h *CreditNoteHandler) ListForInvoice(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid invoice ID format")
		return
	}

	creditNotes, err := h.creditNoteService.ListForInvoice(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, creditNotes)
}

// Submit submits a draft credit note for approval
func (h *CreditNoteHandler) Submit(c *gin.Context) {
	h.transition(c, h.creditNoteService.Submit)
}

// Approve approves a submitted credit note
func (h *CreditNoteHandler) Approve(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	creditNoteID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid credit note ID format")
		return
	}
	approverID, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, "approver ID is required")
		return
	}

	creditNote, err := h.creditNoteService.Approve(c.Request.Context(), tenantID, creditNoteID, approverID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, creditNote)
}

// Reject rejects a submitted credit note
func (h *CreditNoteHandler) Reject(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	creditNoteID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid credit note ID format")
		return
	}

	var req billingapp.RejectCreditNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	creditNote, err := h.creditNoteService.Reject(c.Request.Context(), tenantID, creditNoteID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, creditNote)
}

// Issue issues an approved credit note, opening its balance for application
func (h *CreditNoteHandler) Issue(c *gin.Context) {
	h.transition(c, h.creditNoteService.Issue)
}

// Apply applies part of the credit balance to an invoice
func (h *CreditNoteHandler) Apply(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	creditNoteID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid credit note ID format")
		return
	}

	var req billingapp.ApplyCreditNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	creditNote, err := h.creditNoteService.Apply(c.Request.Context(), tenantID, creditNoteID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, creditNote)
}

// Void voids a credit note with no applications
func (h *CreditNoteHandler) Void(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	creditNoteID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid credit note ID format")
		return
	}

	var req billingapp.VoidCreditNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	creditNote, err := h.creditNoteService.Void(c.Request.Context(), tenantID, creditNoteID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, creditNote)
}

func (h *CreditNoteHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, tenantID, creditNoteID uuid.UUID) (*billingapp.CreditNoteResponse, error),
) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	creditNoteID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid credit note ID format")
		return
	}

	creditNote, err := fn(c.Request.Context(), tenantID, creditNoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, creditNote)
}
