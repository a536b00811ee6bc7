package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/sales/internal/domain/sales"
	"github.com/erp/sales/internal/domain/shared"
)

// GormBackOrderRepository implements sales.BackOrderRepository using GORM
type GormBackOrderRepository struct {
	db *gorm.DB
}

// NewGormBackOrderRepository creates a new GORM back order repository
func NewGormBackOrderRepository(db *gorm.DB) *GormBackOrderRepository {
	return &GormBackOrderRepository{db: db}
}

var _ sales.BackOrderRepository = (*GormBackOrderRepository)(nil)

func (r *GormBackOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.BackOrder, error) {
	var backOrder sales.BackOrder
	err := session(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&backOrder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &backOrder, nil
}

func (r *GormBackOrderRepository) FindBySalesOrder(ctx context.Context, tenantID, salesOrderID uuid.UUID) ([]sales.BackOrder, error) {
	var backOrders []sales.BackOrder
	err := session(ctx, r.db).
		Where("tenant_id = ? AND sales_order_id = ?", tenantID, salesOrderID).
		Order("created_at DESC").
		Find(&backOrders).Error
	if err != nil {
		return nil, err
	}
	return backOrders, nil
}

func (r *GormBackOrderRepository) FindOpenByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]sales.BackOrder, error) {
	var backOrders []sales.BackOrder
	err := session(ctx, r.db).
		Where("tenant_id = ? AND product_id = ? AND status IN ?",
			tenantID, productID,
			[]sales.BackOrderStatus{sales.BackOrderStatusPending, sales.BackOrderStatusPartiallyFulfilled}).
		Order("created_at ASC").
		Find(&backOrders).Error
	if err != nil {
		return nil, err
	}
	return backOrders, nil
}

func (r *GormBackOrderRepository) Save(ctx context.Context, backOrder *sales.BackOrder) error {
	return session(ctx, r.db).Save(backOrder).Error
}

func (r *GormBackOrderRepository) SaveWithLock(ctx context.Context, backOrder *sales.BackOrder) error {
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return updateWithVersion(tx, backOrder, backOrder.ID, &backOrder.Version, &backOrder.UpdatedAt)
	})
}
