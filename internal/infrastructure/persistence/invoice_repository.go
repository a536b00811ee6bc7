package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/sales/internal/domain/billing"
	"github.com/erp/sales/internal/domain/shared"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GORM invoice repository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)

func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	err := session(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*billing.Invoice, error) {
	var invoice billing.Invoice
	err := session(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND invoice_number = ?", tenantID, number).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := session(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ?", tenantID)
	query = applyFilter(query, filter, "invoice_number", "customer_name")
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *GormInvoiceRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := session(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID)
	query = applyFilter(query, filter, "invoice_number")
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *GormInvoiceRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status billing.InvoiceStatus, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := session(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND status = ?", tenantID, status)
	query = applyFilter(query, filter, "invoice_number", "customer_name")
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *GormInvoiceRepository) FindOverdue(ctx context.Context, tenantID uuid.UUID) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	err := session(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND status IN ? AND due_date IS NOT NULL AND due_date < ?",
			tenantID,
			[]billing.InvoiceStatus{billing.InvoiceStatusIssued, billing.InvoiceStatusSent, billing.InvoiceStatusPartiallyPaid},
			time.Now()).
		Order("due_date ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(invoice).Error; err != nil {
			return err
		}
		return r.saveItems(tx, invoice)
	})
}

func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := updateWithVersion(tx, invoice, invoice.ID, &invoice.Version, &invoice.UpdatedAt, "Items"); err != nil {
			return err
		}
		return r.saveItems(tx, invoice)
	})
}

func (r *GormInvoiceRepository) saveItems(tx *gorm.DB, invoice *billing.Invoice) error {
	keep := make([]uuid.UUID, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		keep = append(keep, item.ID)
	}

	query := tx.Where("invoice_id = ?", invoice.ID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	if err := query.Delete(&billing.InvoiceItem{}).Error; err != nil {
		return err
	}

	for i := range invoice.Items {
		invoice.Items[i].InvoiceID = invoice.ID
		if err := tx.Save(&invoice.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := session(ctx, r.db).
		Model(&billing.Invoice{}).
		Where("tenant_id = ?", tenantID)
	query = applyFilterWithoutPagination(query, filter, "invoice_number", "customer_name")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormInvoiceRepository) GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, tenantID, &billing.Invoice{}, "invoice_number", "INV")
}
