package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/sales/internal/domain/sales"
	"github.com/erp/sales/internal/domain/shared"
)

// GormSalesReturnRepository implements sales.SalesReturnRepository using GORM
type GormSalesReturnRepository struct {
	db *gorm.DB
}

// NewGormSalesReturnRepository creates a new GORM sales return repository
func NewGormSalesReturnRepository(db *gorm.DB) *GormSalesReturnRepository {
	return &GormSalesReturnRepository{db: db}
}

var _ sales.SalesReturnRepository = (*GormSalesReturnRepository)(nil)

func (r *GormSalesReturnRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.SalesReturn, error) {
	var ret sales.SalesReturn
	err := session(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&ret).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ret, nil
}

func (r *GormSalesReturnRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*sales.SalesReturn, error) {
	var ret sales.SalesReturn
	err := session(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND return_number = ?", tenantID, number).
		First(&ret).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ret, nil
}

func (r *GormSalesReturnRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.SalesReturn, error) {
	var returns []sales.SalesReturn
	query := session(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ?", tenantID)
	query = applyFilter(query, filter, "return_number", "customer_name")
	if err := query.Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

func (r *GormSalesReturnRepository) FindBySalesOrder(ctx context.Context, tenantID, salesOrderID uuid.UUID) ([]sales.SalesReturn, error) {
	var returns []sales.SalesReturn
	err := session(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND sales_order_id = ?", tenantID, salesOrderID).
		Order("created_at DESC").
		Find(&returns).Error
	if err != nil {
		return nil, err
	}
	return returns, nil
}

func (r *GormSalesReturnRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status sales.SalesReturnStatus, filter shared.Filter) ([]sales.SalesReturn, error) {
	var returns []sales.SalesReturn
	query := session(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND status = ?", tenantID, status)
	query = applyFilter(query, filter, "return_number", "customer_name")
	if err := query.Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

func (r *GormSalesReturnRepository) Save(ctx context.Context, ret *sales.SalesReturn) error {
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(ret).Error; err != nil {
			return err
		}
		return r.saveItems(tx, ret)
	})
}

func (r *GormSalesReturnRepository) SaveWithLock(ctx context.Context, ret *sales.SalesReturn) error {
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := updateWithVersion(tx, ret, ret.ID, &ret.Version, &ret.UpdatedAt, "Items"); err != nil {
			return err
		}
		return r.saveItems(tx, ret)
	})
}

func (r *GormSalesReturnRepository) saveItems(tx *gorm.DB, ret *sales.SalesReturn) error {
	keep := make([]uuid.UUID, 0, len(ret.Items))
	for _, item := range ret.Items {
		keep = append(keep, item.ID)
	}

	query := tx.Where("sales_return_id = ?", ret.ID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	if err := query.Delete(&sales.SalesReturnItem{}).Error; err != nil {
		return err
	}

	for i := range ret.Items {
		ret.Items[i].SalesReturnID = ret.ID
		if err := tx.Save(&ret.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormSalesReturnRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := session(ctx, r.db).
		Model(&sales.SalesReturn{}).
		Where("tenant_id = ?", tenantID)
	query = applyFilterWithoutPagination(query, filter, "return_number", "customer_name")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormSalesReturnRepository) GenerateReturnNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, tenantID, &sales.SalesReturn{}, "return_number", "RET")
}
