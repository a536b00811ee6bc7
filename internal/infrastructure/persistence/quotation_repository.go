package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/sales/internal/domain/sales"
	"github.com/erp/sales/internal/domain/shared"
)

// GormQuotationRepository implements sales.QuotationRepository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GORM quotation repository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

var _ sales.QuotationRepository = (*GormQuotationRepository)(nil)

func (r *GormQuotationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Quotation, error) {
	var quotation sales.Quotation
	err := session(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&quotation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quotation, nil
}

func (r *GormQuotationRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*sales.Quotation, error) {
	var quotation sales.Quotation
	err := session(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND quotation_number = ?", tenantID, number).
		First(&quotation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quotation, nil
}

func (r *GormQuotationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Quotation, error) {
	var quotations []sales.Quotation
	query := session(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ?", tenantID)
	query = applyFilter(query, filter, "quotation_number", "customer_name")
	if err := query.Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

func (r *GormQuotationRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]sales.Quotation, error) {
	var quotations []sales.Quotation
	query := session(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID)
	query = applyFilter(query, filter, "quotation_number")
	if err := query.Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

func (r *GormQuotationRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status sales.QuotationStatus, filter shared.Filter) ([]sales.Quotation, error) {
	var quotations []sales.Quotation
	query := session(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND status = ?", tenantID, status)
	query = applyFilter(query, filter, "quotation_number", "customer_name")
	if err := query.Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

func (r *GormQuotationRepository) FindExpirable(ctx context.Context, tenantID uuid.UUID) ([]sales.Quotation, error) {
	var quotations []sales.Quotation
	err := session(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND status = ? AND expiration_date IS NOT NULL AND expiration_date < ?",
			tenantID, sales.QuotationStatusSent, time.Now()).
		Find(&quotations).Error
	if err != nil {
		return nil, err
	}
	return quotations, nil
}

func (r *GormQuotationRepository) Save(ctx context.Context, quotation *sales.Quotation) error {
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(quotation).Error; err != nil {
			return err
		}
		return r.saveItems(tx, quotation)
	})
}

func (r *GormQuotationRepository) SaveWithLock(ctx context.Context, quotation *sales.Quotation) error {
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := updateWithVersion(tx, quotation, quotation.ID, &quotation.Version, &quotation.UpdatedAt, "Items"); err != nil {
			return err
		}
		return r.saveItems(tx, quotation)
	})
}

// saveItems reconciles the item rows with the aggregate: rows no longer
// present are deleted, the rest are upserted.
func (r *GormQuotationRepository) saveItems(tx *gorm.DB, quotation *sales.Quotation) error {
	keep := make([]uuid.UUID, 0, len(quotation.Items))
	for _, item := range quotation.Items {
		keep = append(keep, item.ID)
	}

	query := tx.Where("quotation_id = ?", quotation.ID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	if err := query.Delete(&sales.QuotationItem{}).Error; err != nil {
		return err
	}

	for i := range quotation.Items {
		quotation.Items[i].QuotationID = quotation.ID
		if err := tx.Save(&quotation.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormQuotationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := session(ctx, r.db).
		Model(&sales.Quotation{}).
		Where("tenant_id = ?", tenantID)
	query = applyFilterWithoutPagination(query, filter, "quotation_number", "customer_name")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormQuotationRepository) GenerateQuotationNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, tenantID, &sales.Quotation{}, "quotation_number", "QT")
}
