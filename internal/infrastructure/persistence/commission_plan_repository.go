package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/sales/internal/domain/commission"
	"github.com/erp/sales/internal/domain/shared"
)

// GormCommissionPlanRepository implements
// commission.CommissionPlanRepository using GORM
type GormCommissionPlanRepository struct {
	db *gorm.DB
}

// NewGormCommissionPlanRepository creates a new GORM commission plan
// repository
func NewGormCommissionPlanRepository(db *gorm.DB) *GormCommissionPlanRepository {
	return &GormCommissionPlanRepository{db: db}
}

var _ commission.CommissionPlanRepository = (*GormCommissionPlanRepository)(nil)

func (r *GormCommissionPlanRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*commission.CommissionPlan, error) {
	var plan commission.CommissionPlan
	err := session(ctx, r.db).
		Preload("Tiers").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *GormCommissionPlanRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]commission.CommissionPlan, error) {
	var plans []commission.CommissionPlan
	err := session(ctx, r.db).
		Preload("Tiers").
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("created_at ASC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *GormCommissionPlanRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]commission.CommissionPlan, error) {
	var plans []commission.CommissionPlan
	query := session(ctx, r.db).
		Preload("Tiers").
		Where("tenant_id = ?", tenantID)
	query = applyFilter(query, filter, "name")
	if err := query.Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *GormCommissionPlanRepository) Save(ctx context.Context, plan *commission.CommissionPlan) error {
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tiers").Save(plan).Error; err != nil {
			return err
		}
		return r.saveTiers(tx, plan)
	})
}

func (r *GormCommissionPlanRepository) SaveWithLock(ctx context.Context, plan *commission.CommissionPlan) error {
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := updateWithVersion(tx, plan, plan.ID, &plan.Version, &plan.UpdatedAt, "Tiers"); err != nil {
			return err
		}
		return r.saveTiers(tx, plan)
	})
}

func (r *GormCommissionPlanRepository) saveTiers(tx *gorm.DB, plan *commission.CommissionPlan) error {
	keep := make([]uuid.UUID, 0, len(plan.Tiers))
	for _, tier := range plan.Tiers {
		keep = append(keep, tier.ID)
	}

	query := tx.Where("plan_id = ?", plan.ID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	if err := query.Delete(&commission.CommissionTier{}).Error; err != nil {
		return err
	}

	for i := range plan.Tiers {
		plan.Tiers[i].PlanID = plan.ID
		if err := tx.Save(&plan.Tiers[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
