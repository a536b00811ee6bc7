package commission

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/erp/sales/internal/domain/commission"
	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// PlanService handles commission plan configuration
type PlanService struct {
	planRepo commission.CommissionPlanRepository
}

// NewPlanService creates a new plan service
func NewPlanService(planRepo commission.CommissionPlanRepository) *PlanService {
	return &PlanService{planRepo: planRepo}
}

// Create creates a commission plan with its initial tiers
func (s *PlanService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePlanRequest) (*PlanResponse, error) {
	plan, err := commission.NewCommissionPlan(tenantID, req.Name, commission.PlanType(req.Type))
	if err != nil {
		return nil, err
	}
	plan.Description = req.Description

	if req.BaseRate != nil {
		rate, err := valueobject.NewPercent(*req.BaseRate)
		if err != nil {
			return nil, err
		}
		plan.SetFlatRate(rate)
	}
	if req.BaseAmount != nil {
		if err := plan.SetFixedAmount(*req.BaseAmount); err != nil {
			return nil, err
		}
	}
	if req.MinimumSaleAmount != nil {
		if err := plan.SetMinimumSaleAmount(*req.MinimumSaleAmount); err != nil {
			return nil, err
		}
	}
	if req.MaximumCommission != nil {
		if err := plan.SetMaximumCommission(*req.MaximumCommission); err != nil {
			return nil, err
		}
	}
	if req.StartDate != nil || req.EndDate != nil {
		if err := plan.SetValidity(req.StartDate, req.EndDate); err != nil {
			return nil, err
		}
	}
	for _, tier := range req.Tiers {
		if _, err := plan.AddTier(tier.FromAmount, tier.ToAmount, tier.Rate, tier.FixedAmount); err != nil {
			return nil, err
		}
	}
	if req.CreatedBy != nil {
		plan.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}

	response := ToPlanResponse(plan)
	return &response, nil
}

// GetByID returns a plan by ID
func (s *PlanService) GetByID(ctx context.Context, tenantID, planID uuid.UUID) (*PlanResponse, error) {
	plan, err := s.planRepo.FindByIDForTenant(ctx, tenantID, planID)
	if err != nil {
		return nil, err
	}
	response := ToPlanResponse(plan)
	return &response, nil
}

// List returns plans for a tenant with pagination
func (s *PlanService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PlanResponse, error) {
	plans, err := s.planRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]PlanResponse, len(plans))
	for i := range plans {
		responses[i] = ToPlanResponse(&plans[i])
	}
	return responses, nil
}

// ListActive returns the plans currently active for a tenant
func (s *PlanService) ListActive(ctx context.Context, tenantID uuid.UUID) ([]PlanResponse, error) {
	plans, err := s.planRepo.FindActiveForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]PlanResponse, len(plans))
	for i := range plans {
		responses[i] = ToPlanResponse(&plans[i])
	}
	return responses, nil
}

// AddTier adds a tier to an existing plan
func (s *PlanService) AddTier(ctx context.Context, tenantID, planID uuid.UUID, req AddTierRequest) (*PlanResponse, error) {
	return s.mutate(ctx, tenantID, planID, func(plan *commission.CommissionPlan) error {
		_, err := plan.AddTier(req.FromAmount, req.ToAmount, req.Rate, req.FixedAmount)
		return err
	})
}

// RemoveTier removes a tier from a plan
func (s *PlanService) RemoveTier(ctx context.Context, tenantID, planID, tierID uuid.UUID) (*PlanResponse, error) {
	return s.mutate(ctx, tenantID, planID, func(plan *commission.CommissionPlan) error {
		return plan.RemoveTier(tierID)
	})
}

// SetValidity bounds the period a plan is effective
func (s *PlanService) SetValidity(ctx context.Context, tenantID, planID uuid.UUID, req SetPlanValidityRequest) (*PlanResponse, error) {
	return s.mutate(ctx, tenantID, planID, func(plan *commission.CommissionPlan) error {
		return plan.SetValidity(req.StartDate, req.EndDate)
	})
}

// Activate re-enables a deactivated plan
func (s *PlanService) Activate(ctx context.Context, tenantID, planID uuid.UUID) (*PlanResponse, error) {
	return s.mutate(ctx, tenantID, planID, func(plan *commission.CommissionPlan) error {
		plan.Activate()
		return nil
	})
}

// Deactivate disables a plan without losing its configuration
func (s *PlanService) Deactivate(ctx context.Context, tenantID, planID uuid.UUID) (*PlanResponse, error) {
	return s.mutate(ctx, tenantID, planID, func(plan *commission.CommissionPlan) error {
		plan.Deactivate()
		return nil
	})
}

// CalculatePreview runs a plan against a hypothetical sale amount without
// recording anything
func (s *PlanService) CalculatePreview(ctx context.Context, tenantID, planID uuid.UUID, req CalculatePreviewRequest) (*CalculatePreviewResponse, error) {
	plan, err := s.planRepo.FindByIDForTenant(ctx, tenantID, planID)
	if err != nil {
		return nil, err
	}

	at := time.Now()
	if req.At != nil {
		at = *req.At
	}
	amount, err := plan.Calculate(req.BaseAmount, at)
	if err != nil {
		return nil, err
	}

	return &CalculatePreviewResponse{
		PlanID:           plan.ID,
		PlanName:         plan.Name,
		BaseAmount:       req.BaseAmount,
		CommissionAmount: amount,
	}, nil
}

// mutate loads a plan, applies fn and saves with optimistic locking
func (s *PlanService) mutate(ctx context.Context, tenantID, planID uuid.UUID, fn func(*commission.CommissionPlan) error) (*PlanResponse, error) {
	plan, err := s.planRepo.FindByIDForTenant(ctx, tenantID, planID)
	if err != nil {
		return nil, err
	}
	if err := fn(plan); err != nil {
		return nil, err
	}
	if err := s.planRepo.SaveWithLock(ctx, plan); err != nil {
		return nil, err
	}

	response := ToPlanResponse(plan)
	return &response, nil
}
