package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	salesapp "github.com/erp/sales/internal/application/sales"
	"github.com/erp/sales/internal/interfaces/http/dto"
)

// QuotationHandler handles quotation-related API endpoints
type QuotationHandler struct {
	BaseHandler
	quotationService *salesapp.QuotationService
}

// NewQuotationHandler creates a new QuotationHandler
func NewQuotationHandler(quotationService *salesapp.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

// Create creates a new draft quotation
func (h *QuotationHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	var req salesapp.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.CreatedBy = getUserIDPtr(c)

	quotation, err := h.quotationService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, quotation)
}

// GetByID retrieves a quotation by ID
func (h *QuotationHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	quotationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid quotation ID format")
		return
	}

	quotation, err := h.quotationService.GetByID(c.Request.Context(), tenantID, quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// List retrieves a paginated list of quotations
func (h *QuotationHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.quotationService.List(c.Request.Context(), tenantID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AddItem adds a line item to a draft quotation
func (h *QuotationHandler) AddItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	quotationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid quotation ID format")
		return
	}

	var req salesapp.AddQuotationItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	quotation, err := h.quotationService.AddItem(c.Request.Context(), tenantID, quotationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// UpdateItem updates the quantity or price of a draft quotation item
func (h *QuotationHandler) UpdateItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	quotationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid quotation ID format")
		return
	}
	itemID, err := parseIDParam(c, "item_id")
	if err != nil {
		h.BadRequest(c, "invalid item ID format")
		return
	}

	var req salesapp.UpdateQuotationItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	quotation, err := h.quotationService.UpdateItem(c.Request.Context(), tenantID, quotationID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// RemoveItem removes a line item from a draft quotation
func (h *QuotationHandler) RemoveItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	quotationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid quotation ID format")
		return
	}
	itemID, err := parseIDParam(c, "item_id")
	if err != nil {
		h.BadRequest(c, "invalid item ID format")
		return
	}

	quotation, err := h.quotationService.RemoveItem(c.Request.Context(), tenantID, quotationID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// ApplyDiscount applies a document level discount to a draft quotation
func (h *QuotationHandler) ApplyDiscount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	quotationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid quotation ID format")
		return
	}

	var req salesapp.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	quotation, err := h.quotationService.ApplyDiscount(c.Request.Context(), tenantID, quotationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// SetShipping sets the shipping amount on a draft quotation
func (h *QuotationHandler) SetShipping(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	quotationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid quotation ID format")
		return
	}

	var req salesapp.SetShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	quotation, err := h.quotationService.SetShipping(c.Request.Context(), tenantID, quotationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// Submit submits a draft quotation for approval
func (h *QuotationHandler) Submit(c *gin.Context) {
	h.transition(c, h.quotationService.Submit)
}

// Approve approves a submitted quotation
func (h *QuotationHandler) Approve(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	quotationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid quotation ID format")
		return
	}
	approverID, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, "approver ID is required")
		return
	}

	quotation, err := h.quotationService.Approve(c.Request.Context(), tenantID, quotationID, approverID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// Send marks an approved quotation as sent to the customer
func (h *QuotationHandler) Send(c *gin.Context) {
	h.transition(c, h.quotationService.Send)
}

// Accept records the customer's acceptance of a sent quotation
func (h *QuotationHandler) Accept(c *gin.Context) {
	h.transition(c, h.quotationService.Accept)
}

// Reject records the customer's rejection of a sent quotation
func (h *QuotationHandler) Reject(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	quotationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid quotation ID format")
		return
	}

	var req salesapp.RejectQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	quotation, err := h.quotationService.Reject(c.Request.Context(), tenantID, quotationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// Cancel cancels a quotation that has not reached a terminal state
func (h *QuotationHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	quotationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid quotation ID format")
		return
	}

	var req salesapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	quotation, err := h.quotationService.Cancel(c.Request.Context(), tenantID, quotationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// Revise creates a new draft revision of a sent or rejected quotation
func (h *QuotationHandler) Revise(c *gin.Context) {
	h.transition(c, h.quotationService.Revise)
}

// ConvertToOrder converts an accepted quotation into a sales order
func (h *QuotationHandler) ConvertToOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	quotationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid quotation ID format")
		return
	}

	order, err := h.quotationService.ConvertToOrder(c.Request.Context(), tenantID, quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Expire marks all overdue sent quotations as expired
func (h *QuotationHandler) Expire(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	count, err := h.quotationService.ExpireDue(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"expired": count})
}

// transition runs a body-less lifecycle transition shared by several endpoints
func (h *QuotationHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, tenantID, quotationID uuid.UUID) (*salesapp.QuotationResponse, error),
) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	quotationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid quotation ID format")
		return
	}

	quotation, err := fn(c.Request.Context(), tenantID, quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}
