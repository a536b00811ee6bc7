package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	salesapp "github.com/erp/sales/internal/application/sales"
	"github.com/erp/sales/internal/interfaces/http/dto"
)

// SalesReturnHandler handles sales return-related API endpoints
type SalesReturnHandler struct {
	BaseHandler
	returnService *salesapp.SalesReturnService
}

// NewSalesReturnHandler creates a new SalesReturnHandler
func NewSalesReturnHandler(returnService *salesapp.SalesReturnService) *SalesReturnHandler {
	return &SalesReturnHandler{returnService: returnService}
}

// RejectReturnRequest carries the reviewer's rejection reason
type RejectReturnRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// Create creates a new draft sales return against a shipped order
func (h *SalesReturnHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	var req salesapp.CreateSalesReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.CreatedBy = getUserIDPtr(c)

	ret, err := h.returnService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ret)
}

// GetByID retrieves a sales return by ID
func (h *SalesReturnHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	returnID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid return ID format")
		return
	}

	ret, err := h.returnService.GetByID(c.Request.Context(), tenantID, returnID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

// List retrieves a paginated list of sales returns
func (h *SalesReturnHandler) List(c *gin.Context) {
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

	page, err := h.returnService.List(c.Request.Context(), tenantID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Submit submits a draft return for approval
func (h *SalesReturnHandler) Submit(c *gin.Context) {
	h.transition(c, h.returnService.Submit)
}

// Approve approves a submitted return
func (h *SalesReturnHandler) Approve(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	returnID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid return ID format")
		return
	}
	approverID, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, "approver ID is required")
		return
	}

	ret, err := h.returnService.Approve(c.Request.Context(), tenantID, returnID, approverID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

// Reject rejects a submitted return
func (h *SalesReturnHandler) Reject(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	returnID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid return ID format")
		return
	}

	var req RejectReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ret, err := h.returnService.Reject(c.Request.Context(), tenantID, returnID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

// Receive records the physical receipt of approved returned goods
func (h *SalesReturnHandler) Receive(c *gin.Context) {
	h.transition(c, h.returnService.Receive)
}

// Refund records the refund issued for a received return
func (h *SalesReturnHandler) Refund(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	returnID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid return ID format")
		return
	}

	var req salesapp.RefundSalesReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ret, err := h.returnService.Refund(c.Request.Context(), tenantID, returnID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

// Complete closes a refunded return
func (h *SalesReturnHandler) Complete(c *gin.Context) {
	h.transition(c, h.returnService.Complete)
}

// Cancel cancels a return before receipt
func (h *SalesReturnHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	returnID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid return ID format")
		return
	}

	var req salesapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ret, err := h.returnService.Cancel(c.Request.Context(), tenantID, returnID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

func (h *SalesReturnHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, tenantID, returnID uuid.UUID) (*salesapp.SalesReturnResponse, error),
) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	returnID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid return ID format")
		return
	}

	ret, err := fn(c.Request.Context(), tenantID, returnID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}
