package commission

import (
	"context"

	"github.com/google/uuid"

	"github.com/erp/sales/internal/domain/shared"
)

// CommissionPlanRepository defines the interface for plan persistence
type CommissionPlanRepository interface {
	// FindByIDForTenant finds a plan by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CommissionPlan, error)

	// FindActiveForTenant finds the active plans for a tenant
	FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]CommissionPlan, error)

	// FindAllForTenant finds all plans for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CommissionPlan, error)

	// Save creates or updates a plan and its tiers
	Save(ctx context.Context, plan *CommissionPlan) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, plan *CommissionPlan) error
}

// SalesCommissionRepository defines the interface for commission
// persistence
type SalesCommissionRepository interface {
	// FindByIDForTenant finds a commission by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SalesCommission, error)

	// FindBySalesPerson finds commissions earned by a sales person
	FindBySalesPerson(ctx context.Context, tenantID, salesPersonID uuid.UUID, filter shared.Filter) ([]SalesCommission, error)

	// FindBySalesOrder finds the commissions computed for an order
	FindBySalesOrder(ctx context.Context, tenantID, salesOrderID uuid.UUID) ([]SalesCommission, error)

	// FindByStatus finds commissions by status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status CommissionStatus, filter shared.Filter) ([]SalesCommission, error)

	// Save creates or updates a commission
	Save(ctx context.Context, commission *SalesCommission) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, commission *SalesCommission) error
}

// DiscountRepository defines the interface for discount persistence
type DiscountRepository interface {
	// FindByIDForTenant finds a discount by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Discount, error)

	// FindByCode finds a discount by its code for a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Discount, error)

	// FindActiveForTenant finds the active discounts for a tenant
	FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]Discount, error)

	// Save creates or updates a discount
	Save(ctx context.Context, discount *Discount) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, discount *Discount) error
}
