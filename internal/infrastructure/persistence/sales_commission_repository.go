package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/sales/internal/domain/commission"
	"github.com/erp/sales/internal/domain/shared"
)

// GormSalesCommissionRepository implements
// commission.SalesCommissionRepository using GORM
type GormSalesCommissionRepository struct {
	db *gorm.DB
}

// NewGormSalesCommissionRepository creates a new GORM commission repository
func NewGormSalesCommissionRepository(db *gorm.DB) *GormSalesCommissionRepository {
	return &GormSalesCommissionRepository{db: db}
}

var _ commission.SalesCommissionRepository = (*GormSalesCommissionRepository)(nil)

func (r *GormSalesCommissionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*commission.SalesCommission, error) {
	var com commission.SalesCommission
	err := session(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&com).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &com, nil
}

func (r *GormSalesCommissionRepository) FindBySalesPerson(ctx context.Context, tenantID, salesPersonID uuid.UUID, filter shared.Filter) ([]commission.SalesCommission, error) {
	var commissions []commission.SalesCommission
	query := session(ctx, r.db).
		Where("tenant_id = ? AND sales_person_id = ?", tenantID, salesPersonID)
	query = applyFilter(query, filter, "order_number")
	if err := query.Find(&commissions).Error; err != nil {
		return nil, err
	}
	return commissions, nil
}

func (r *GormSalesCommissionRepository) FindBySalesOrder(ctx context.Context, tenantID, salesOrderID uuid.UUID) ([]commission.SalesCommission, error) {
	var commissions []commission.SalesCommission
	err := session(ctx, r.db).
		Where("tenant_id = ? AND sales_order_id = ?", tenantID, salesOrderID).
		Order("created_at ASC").
		Find(&commissions).Error
	if err != nil {
		return nil, err
	}
	return commissions, nil
}

func (r *GormSalesCommissionRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status commission.CommissionStatus, filter shared.Filter) ([]commission.SalesCommission, error) {
	var commissions []commission.SalesCommission
	query := session(ctx, r.db).
		Where("tenant_id = ? AND status = ?", tenantID, status)
	query = applyFilter(query, filter, "order_number")
	if err := query.Find(&commissions).Error; err != nil {
		return nil, err
	}
	return commissions, nil
}

func (r *GormSalesCommissionRepository) Save(ctx context.Context, com *commission.SalesCommission) error {
	return session(ctx, r.db).Save(com).Error
}

func (r *GormSalesCommissionRepository) SaveWithLock(ctx context.Context, com *commission.SalesCommission) error {
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return updateWithVersion(tx, com, com.ID, &com.Version, &com.UpdatedAt)
	})
}
