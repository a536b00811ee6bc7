package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/sales/internal/domain/sales"
	"github.com/erp/sales/internal/domain/shared"
)

// GormSalesOrderRepository implements sales.SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GORM sales order repository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

var _ sales.SalesOrderRepository = (*GormSalesOrderRepository)(nil)

func (r *GormSalesOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.SalesOrder, error) {
	var order sales.SalesOrder
	err := session(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormSalesOrderRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*sales.SalesOrder, error) {
	var order sales.SalesOrder
	err := session(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND order_number = ?", tenantID, number).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormSalesOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.SalesOrder, error) {
	var orders []sales.SalesOrder
	query := session(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ?", tenantID)
	query = applyFilter(query, filter, "order_number", "customer_name")
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormSalesOrderRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]sales.SalesOrder, error) {
	var orders []sales.SalesOrder
	query := session(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID)
	query = applyFilter(query, filter, "order_number")
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormSalesOrderRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status sales.SalesOrderStatus, filter shared.Filter) ([]sales.SalesOrder, error) {
	var orders []sales.SalesOrder
	query := session(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND status = ?", tenantID, status)
	query = applyFilter(query, filter, "order_number", "customer_name")
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormSalesOrderRepository) Save(ctx context.Context, order *sales.SalesOrder) error {
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}
		return r.saveItems(tx, order)
	})
}

func (r *GormSalesOrderRepository) SaveWithLock(ctx context.Context, order *sales.SalesOrder) error {
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := updateWithVersion(tx, order, order.ID, &order.Version, &order.UpdatedAt, "Items"); err != nil {
			return err
		}
		return r.saveItems(tx, order)
	})
}

func (r *GormSalesOrderRepository) saveItems(tx *gorm.DB, order *sales.SalesOrder) error {
	keep := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		keep = append(keep, item.ID)
	}

	query := tx.Where("sales_order_id = ?", order.ID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	if err := query.Delete(&sales.SalesOrderItem{}).Error; err != nil {
		return err
	}

	for i := range order.Items {
		order.Items[i].SalesOrderID = order.ID
		if err := tx.Save(&order.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormSalesOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := session(ctx, r.db).
		Model(&sales.SalesOrder{}).
		Where("tenant_id = ?", tenantID)
	query = applyFilterWithoutPagination(query, filter, "order_number", "customer_name")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormSalesOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, tenantID, &sales.SalesOrder{}, "order_number", "SO")
}
