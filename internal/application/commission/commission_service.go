package commission

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/commission"
	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// CommissionService handles the payout lifecycle of calculated commissions
type CommissionService struct {
	commissionRepo commission.SalesCommissionRepository
	planRepo       commission.CommissionPlanRepository
}

// NewCommissionService creates a new commission service
func NewCommissionService(
	commissionRepo commission.SalesCommissionRepository,
	planRepo commission.CommissionPlanRepository,
) *CommissionService {
	return &CommissionService{
		commissionRepo: commissionRepo,
		planRepo:       planRepo,
	}
}

// CalculateForOrder runs the given plan against an order amount and records
// the resulting commission. An order that already has a commission for the
// same sales person is rejected.
func (s *CommissionService) CalculateForOrder(ctx context.Context, tenantID, planID, salesPersonID, salesOrderID uuid.UUID, orderNumber string, baseAmount decimal.Decimal, currency valueobject.Currency) (*CommissionResponse, error) {
	existing, err := s.commissionRepo.FindBySalesOrder(ctx, tenantID, salesOrderID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].SalesPersonID == salesPersonID && existing[i].Status != commission.CommissionStatusCancelled {
			return nil, shared.NewConflictError("COMMISSION_EXISTS", "A commission has already been calculated for this order")
		}
	}

	plan, err := s.planRepo.FindByIDForTenant(ctx, tenantID, planID)
	if err != nil {
		return nil, err
	}
	amount, err := plan.Calculate(baseAmount, time.Now())
	if err != nil {
		return nil, err
	}

	c, err := commission.NewSalesCommission(tenantID, salesPersonID, salesOrderID, orderNumber, plan, baseAmount, amount, currency)
	if err != nil {
		return nil, err
	}
	if err := s.commissionRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCommissionResponse(c)
	return &response, nil
}

// GetByID returns a commission by ID
func (s *CommissionService) GetByID(ctx context.Context, tenantID, commissionID uuid.UUID) (*CommissionResponse, error) {
	c, err := s.commissionRepo.FindByIDForTenant(ctx, tenantID, commissionID)
	if err != nil {
		return nil, err
	}
	response := ToCommissionResponse(c)
	return &response, nil
}

// ListForSalesPerson returns the commissions earned by a sales person
func (s *CommissionService) ListForSalesPerson(ctx context.Context, tenantID, salesPersonID uuid.UUID, filter shared.Filter) ([]CommissionResponse, error) {
	commissions, err := s.commissionRepo.FindBySalesPerson(ctx, tenantID, salesPersonID, filter)
	if err != nil {
		return nil, err
	}
	return toCommissionResponses(commissions), nil
}

// ListForOrder returns the commissions computed for an order
func (s *CommissionService) ListForOrder(ctx context.Context, tenantID, salesOrderID uuid.UUID) ([]CommissionResponse, error) {
	commissions, err := s.commissionRepo.FindBySalesOrder(ctx, tenantID, salesOrderID)
	if err != nil {
		return nil, err
	}
	return toCommissionResponses(commissions), nil
}

// ListByStatus returns commissions in the given status
func (s *CommissionService) ListByStatus(ctx context.Context, tenantID uuid.UUID, status commission.CommissionStatus, filter shared.Filter) ([]CommissionResponse, error) {
	commissions, err := s.commissionRepo.FindByStatus(ctx, tenantID, status, filter)
	if err != nil {
		return nil, err
	}
	return toCommissionResponses(commissions), nil
}

// Approve approves a calculated commission for payout
func (s *CommissionService) Approve(ctx context.Context, tenantID, commissionID uuid.UUID, req ApproveCommissionRequest) (*CommissionResponse, error) {
	return s.mutate(ctx, tenantID, commissionID, func(c *commission.SalesCommission) error {
		return c.Approve(req.ApproverID)
	})
}

// MarkPaid records that an approved commission has been paid out
func (s *CommissionService) MarkPaid(ctx context.Context, tenantID, commissionID uuid.UUID, req MarkCommissionPaidRequest) (*CommissionResponse, error) {
	return s.mutate(ctx, tenantID, commissionID, func(c *commission.SalesCommission) error {
		return c.MarkPaid(req.PaymentReference)
	})
}

// Cancel cancels a commission that will not be paid
func (s *CommissionService) Cancel(ctx context.Context, tenantID, commissionID uuid.UUID, req CancelCommissionRequest) (*CommissionResponse, error) {
	return s.mutate(ctx, tenantID, commissionID, func(c *commission.SalesCommission) error {
		return c.Cancel(req.Reason)
	})
}

func (s *CommissionService) mutate(ctx context.Context, tenantID, commissionID uuid.UUID, fn func(*commission.SalesCommission) error) (*CommissionResponse, error) {
	c, err := s.commissionRepo.FindByIDForTenant(ctx, tenantID, commissionID)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.commissionRepo.SaveWithLock(ctx, c); err != nil {
		return nil, err
	}

	response := ToCommissionResponse(c)
	return &response, nil
}

func toCommissionResponses(commissions []commission.SalesCommission) []CommissionResponse {
	responses := make([]CommissionResponse, len(commissions))
	for i := range commissions {
		responses[i] = ToCommissionResponse(&commissions[i])
	}
	return responses
}
