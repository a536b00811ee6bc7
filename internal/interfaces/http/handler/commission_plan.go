package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	commissionapp "github.com/erp/sales/internal/application/commission"
	"github.com/erp/sales/internal/interfaces/http/dto"
)

// CommissionPlanHandler handles commission plan API endpoints
type CommissionPlanHandler struct {
	BaseHandler
	planService *commissionapp.PlanService
}

// NewCommissionPlanHandler creates a new CommissionPlanHandler
func NewCommissionPlanHandler(planService *commissionapp.PlanService) *CommissionPlanHandler {
	return &CommissionPlanHandler{planService: planService}
}

// Create creates a new commission plan
func (h *CommissionPlanHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	var req commissionapp.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.CreatedBy = getUserIDPtr(c)

	plan, err := h.planService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, plan)
}

// GetByID retrieves a commission plan by ID
func (h *CommissionPlanHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	planID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid plan ID format")
		return
	}

	plan, err := h.planService.GetByID(c.Request.Context(), tenantID, planID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

// List retrieves commission plans for the tenant
func (h *CommissionPlanHandler) List(c *gin.Context) {
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

	plans, err := h.planService.List(c.Request.Context(), tenantID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plans)
}

// ListActive retrieves the plans currently accepting new commissions
func (h *CommissionPlanHandler) ListActive(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	plans, err := h.planService.ListActive(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plans)
}

// AddTier adds a tier to a tiered plan
func (h *CommissionPlanHandler) AddTier(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	planID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid plan ID format")
		return
	}

	var req commissionapp.AddTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	plan, err := h.planService.AddTier(c.Request.Context(), tenantID, planID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

// RemoveTier removes a tier from a tiered plan
func (h *CommissionPlanHandler) RemoveTier(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	planID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid plan ID format")
		return
	}
	tierID, err := parseIDParam(c, "tier_id")
	if err != nil {
		h.BadRequest(c, "invalid tier ID format")
		return
	}

	plan, err := h.planService.RemoveTier(c.Request.Context(), tenantID, planID, tierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

// SetValidity bounds the period a plan is effective
func (h *CommissionPlanHandler) SetValidity(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	planID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid plan ID format")
		return
	}

	var req commissionapp.SetPlanValidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	plan, err := h.planService.SetValidity(c.Request.Context(), tenantID, planID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

// Activate activates a plan
func (h *CommissionPlanHandler) Activate(c *gin.Context) {
	h.transition(c, h.planService.Activate)
}

// Deactivate deactivates a plan
func (h *CommissionPlanHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.planService.Deactivate)
}

// CalculatePreview previews the commission a plan would yield for a sale amount
func (h *CommissionPlanHandler) CalculatePreview(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	planID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid plan ID format")
		return
	}

	var req commissionapp.CalculatePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	preview, err := h.planService.CalculatePreview(c.Request.Context(), tenantID, planID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

func (h *CommissionPlanHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, tenantID, planID uuid.UUID) (*commissionapp.PlanResponse, error),
) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	planID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid plan ID format")
		return
	}

	plan, err := fn(c.Request.Context(), tenantID, planID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}
