package commission

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/erp/sales/internal/domain/commission"
)

// DiscountService handles discount configuration and evaluation
type DiscountService struct {
	discountRepo commission.DiscountRepository
}

// NewDiscountService creates a new discount service
func NewDiscountService(discountRepo commission.DiscountRepository) *DiscountService {
	return &DiscountService{discountRepo: discountRepo}
}

// Create creates a discount. Codes are unique per tenant; the repository
// enforces the constraint.
func (s *DiscountService) Create(ctx context.Context, tenantID uuid.UUID, req CreateDiscountRequest) (*DiscountResponse, error) {
	d, err := commission.NewDiscount(tenantID, req.Name, req.Code, commission.DiscountType(req.Type), req.Value)
	if err != nil {
		return nil, err
	}

	if req.MinimumOrderAmount != nil {
		if err := d.SetMinimumOrderAmount(*req.MinimumOrderAmount); err != nil {
			return nil, err
		}
	}
	if req.MaximumDiscount != nil {
		if err := d.SetMaximumDiscount(*req.MaximumDiscount); err != nil {
			return nil, err
		}
	}
	if req.StartDate != nil || req.EndDate != nil {
		if err := d.SetValidity(req.StartDate, req.EndDate); err != nil {
			return nil, err
		}
	}
	if req.UsageLimit != nil {
		if err := d.SetUsageLimit(*req.UsageLimit); err != nil {
			return nil, err
		}
	}
	if req.CreatedBy != nil {
		d.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.discountRepo.Save(ctx, d); err != nil {
		return nil, err
	}

	response := ToDiscountResponse(d)
	return &response, nil
}

// GetByID returns a discount by ID
func (s *DiscountService) GetByID(ctx context.Context, tenantID, discountID uuid.UUID) (*DiscountResponse, error) {
	d, err := s.discountRepo.FindByIDForTenant(ctx, tenantID, discountID)
	if err != nil {
		return nil, err
	}
	response := ToDiscountResponse(d)
	return &response, nil
}

// ListActive returns the discounts currently active for a tenant
func (s *DiscountService) ListActive(ctx context.Context, tenantID uuid.UUID) ([]DiscountResponse, error) {
	discounts, err := s.discountRepo.FindActiveForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]DiscountResponse, len(discounts))
	for i := range discounts {
		responses[i] = ToDiscountResponse(&discounts[i])
	}
	return responses, nil
}

// Activate re-enables a deactivated discount
func (s *DiscountService) Activate(ctx context.Context, tenantID, discountID uuid.UUID) (*DiscountResponse, error) {
	return s.mutate(ctx, tenantID, discountID, func(d *commission.Discount) error {
		d.Activate()
		return nil
	})
}

// Deactivate disables a discount without losing its configuration
func (s *DiscountService) Deactivate(ctx context.Context, tenantID, discountID uuid.UUID) (*DiscountResponse, error) {
	return s.mutate(ctx, tenantID, discountID, func(d *commission.Discount) error {
		d.Deactivate()
		return nil
	})
}

// ComputeForOrder evaluates a discount code against an order amount without
// consuming a usage
func (s *DiscountService) ComputeForOrder(ctx context.Context, tenantID uuid.UUID, req ComputeDiscountRequest) (*ComputeDiscountResponse, error) {
	d, err := s.discountRepo.FindByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}

	value, err := d.ComputeValue(req.OrderAmount, time.Now())
	if err != nil {
		return nil, err
	}

	return &ComputeDiscountResponse{
		DiscountID:     d.ID,
		Code:           d.Code,
		OrderAmount:    req.OrderAmount,
		DiscountAmount: value,
	}, nil
}

// RecordUsage consumes one usage of a discount after it has been applied
// to an order
func (s *DiscountService) RecordUsage(ctx context.Context, tenantID, discountID uuid.UUID) (*DiscountResponse, error) {
	return s.mutate(ctx, tenantID, discountID, func(d *commission.Discount) error {
		return d.RecordUsage()
	})
}

func (s *DiscountService) mutate(ctx context.Context, tenantID, discountID uuid.UUID, fn func(*commission.Discount) error) (*DiscountResponse, error) {
	d, err := s.discountRepo.FindByIDForTenant(ctx, tenantID, discountID)
	if err != nil {
		return nil, err
	}
	if err := fn(d); err != nil {
		return nil, err
	}
	if err := s.discountRepo.SaveWithLock(ctx, d); err != nil {
		return nil, err
	}

	response := ToDiscountResponse(d)
	return &response, nil
}
