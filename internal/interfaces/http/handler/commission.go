package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	commissionapp "github.com/erp/sales/internal/application/commission"
	"github.com/erp/sales/internal/domain/commission"
	"github.com/erp/sales/internal/domain/shared/valueobject"
	"github.com/erp/sales/internal/interfaces/http/dto"
)

// CommissionHandler handles sales commission API endpoints
type CommissionHandler struct {
	BaseHandler
	commissionService *commissionapp.CommissionService
}

// NewCommissionHandler creates a new CommissionHandler
func NewCommissionHandler(commissionService *commissionapp.CommissionService) *CommissionHandler {
	return &CommissionHandler{commissionService: commissionService}
}

// CalculateCommissionRequest triggers a manual commission calculation for an order
type CalculateCommissionRequest struct {
	PlanID        uuid.UUID       `json:"plan_id" binding:"required"`
	SalesPersonID uuid.UUID       `json:"sales_person_id" binding:"required"`
	SalesOrderID  uuid.UUID       `json:"sales_order_id" binding:"required"`
	OrderNumber   string          `json:"order_number" binding:"required"`
	BaseAmount    decimal.Decimal `json:"base_amount" binding:"required"`
	Currency      string          `json:"currency" binding:"omitempty,len=3"`
}

// Calculate calculates a commission for an order against a plan.
// Commissions are normally raised by the order completion event; this
// endpoint covers manual corrections.
func (h *CommissionHandler) Calculate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	var req CalculateCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	currency := valueobject.DefaultCurrency
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
	}

	result, err := h.commissionService.CalculateForOrder(
		c.Request.Context(),
		tenantID,
		req.PlanID,
		req.SalesPersonID,
		req.SalesOrderID,
		req.OrderNumber,
		req.BaseAmount,
		currency,
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// GetByID retrieves a commission by ID
func (h *CommissionHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	commissionID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid commission ID format")
		return
	}

	result, err := h.commissionService.GetByID(c.Request.Context(), tenantID, commissionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// List lists commissions filtered by status, sales person or order
func (h *CommissionHandler) List(c *gin.Context) {
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
	filter := req.ToFilter()

	switch {
	case req.SalesPersonID != "":
		salesPersonID, err := uuid.Parse(req.SalesPersonID)
		if err != nil {
			h.BadRequest(c, "invalid sales person ID format")
			return
		}
		results, err := h.commissionService.ListForSalesPerson(c.Request.Context(), tenantID, salesPersonID, filter)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, results)
	case req.SalesOrderID != "":
		salesOrderID, err := uuid.Parse(req.SalesOrderID)
		if err != nil {
			h.BadRequest(c, "invalid sales order ID format")
			return
		}
		results, err := h.commissionService.ListForOrder(c.Request.Context(), tenantID, salesOrderID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, results)
	case req.Status != "":
		results, err := h.commissionService.ListByStatus(c.Request.Context(), tenantID, commission.CommissionStatus(req.Status), filter)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, results)
	default:
		h.BadRequest(c, "one of sales_person_id, sales_order_id or status is required")
	}
}

// Approve approves a calculated commission for payout
func (h *CommissionHandler) Approve(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	commissionID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid commission ID format")
		return
	}
	approverID, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, "approver ID is required")
		return
	}

	result, err := h.commissionService.Approve(c.Request.Context(), tenantID, commissionID, commissionapp.ApproveCommissionRequest{
		ApproverID: approverID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// MarkPaid records the payout of an approved commission
func (h *CommissionHandler) MarkPaid(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	commissionID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid commission ID format")
		return
	}

	var req commissionapp.MarkCommissionPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.commissionService.MarkPaid(c.Request.Context(), tenantID, commissionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Cancel cancels a commission that will not be paid
func (h *CommissionHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	commissionID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid commission ID format")
		return
	}

	var req commissionapp.CancelCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.commissionService.Cancel(c.Request.Context(), tenantID, commissionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
