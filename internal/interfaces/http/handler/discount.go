package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	commissionapp "github.com/erp/sales/internal/application/commission"
)

// DiscountHandler handles discount API endpoints
type DiscountHandler struct {
	BaseHandler
	discountService *commissionapp.DiscountService
}

// NewDiscountHandler creates a new DiscountHandler
func NewDiscountHandler(discountService *commissionapp.DiscountService) *DiscountHandler {
	return &DiscountHandler{discountService: discountService}
}

// Create creates a new discount definition
func (h *DiscountHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	var req commissionapp.CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.CreatedBy = getUserIDPtr(c)

	discount, err := h.discountService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, discount)
}

// GetByID retrieves a discount by ID
func (h *DiscountHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	discountID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid discount ID format")
		return
	}

	discount, err := h.discountService.GetByID(c.Request.Context(), tenantID, discountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, discount)
}

// ListActive lists the discounts currently available
func (h *DiscountHandler) ListActive(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	discounts, err := h.discountService.ListActive(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, discounts)
}

// Activate activates a discount
func (h *DiscountHandler) Activate(c *gin.Context) {
	h.transition(c, h.discountService.Activate)
}

// Deactivate deactivates a discount
func (h *DiscountHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.discountService.Deactivate)
}

// Compute evaluates a discount code against an order amount
func (h *DiscountHandler) Compute(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	var req commissionapp.ComputeDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.discountService.ComputeForOrder(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RecordUsage increments a discount's usage counter after an order uses it
func (h *DiscountHandler) RecordUsage(c *gin.Context) {
	h.transition(c, h.discountService.RecordUsage)
}

func (h *DiscountHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, tenantID, discountID uuid.UUID) (*commissionapp.DiscountResponse, error),
) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	discountID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid discount ID format")
		return
	}

	discount, err := fn(c.Request.Context(), tenantID, discountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, discount)
}
