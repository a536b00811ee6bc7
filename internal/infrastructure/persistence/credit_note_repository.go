package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/sales/internal/domain/billing"
	"github.com/erp/sales/internal/domain/shared"
)

// GormCreditNoteRepository implements billing.CreditNoteRepository using
// GORM
type GormCreditNoteRepository struct {
	db *gorm.DB
}

// NewGormCreditNoteRepository creates a new GORM credit note repository
func NewGormCreditNoteRepository(db *gorm.DB) *GormCreditNoteRepository {
	return &GormCreditNoteRepository{db: db}
}

var _ billing.CreditNoteRepository = (*GormCreditNoteRepository)(nil)

func (r *GormCreditNoteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.CreditNote, error) {
	var creditNote billing.CreditNote
	err := session(ctx, r.db).
		Preload("Items").
		Preload("Applications").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&creditNote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &creditNote, nil
}

func (r *GormCreditNoteRepository) FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]billing.CreditNote, error) {
	var creditNotes []billing.CreditNote
	err := session(ctx, r.db).
		Preload("Items").
		Preload("Applications").
		Where("tenant_id = ? AND invoice_id = ?", tenantID, invoiceID).
		Order("created_at DESC").
		Find(&creditNotes).Error
	if err != nil {
		return nil, err
	}
	return creditNotes, nil
}

func (r *GormCreditNoteRepository) FindByReturn(ctx context.Context, tenantID, salesReturnID uuid.UUID) ([]billing.CreditNote, error) {
	var creditNotes []billing.CreditNote
	err := session(ctx, r.db).
		Preload("Items").
		Preload("Applications").
		Where("tenant_id = ? AND sales_return_id = ?", tenantID, salesReturnID).
		Order("created_at DESC").
		Find(&creditNotes).Error
	if err != nil {
		return nil, err
	}
	return creditNotes, nil
}

func (r *GormCreditNoteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.CreditNote, error) {
	var creditNotes []billing.CreditNote
	query := session(ctx, r.db).
		Preload("Items").
		Preload("Applications").
		Where("tenant_id = ?", tenantID)
	query = applyFilter(query, filter, "credit_note_number", "customer_name")
	if err := query.Find(&creditNotes).Error; err != nil {
		return nil, err
	}
	return creditNotes, nil
}

func (r *GormCreditNoteRepository) Save(ctx context.Context, creditNote *billing.CreditNote) error {
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "Applications").Save(creditNote).Error; err != nil {
			return err
		}
		return r.saveChildren(tx, creditNote)
	})
}

func (r *GormCreditNoteRepository) SaveWithLock(ctx context.Context, creditNote *billing.CreditNote) error {
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := updateWithVersion(tx, creditNote, creditNote.ID, &creditNote.Version, &creditNote.UpdatedAt, "Items", "Applications"); err != nil {
			return err
		}
		return r.saveChildren(tx, creditNote)
	})
}

func (r *GormCreditNoteRepository) saveChildren(tx *gorm.DB, creditNote *billing.CreditNote) error {
	keepItems := make([]uuid.UUID, 0, len(creditNote.Items))
	for _, item := range creditNote.Items {
		keepItems = append(keepItems, item.ID)
	}

	query := tx.Where("credit_note_id = ?", creditNote.ID)
	if len(keepItems) > 0 {
		query = query.Where("id NOT IN ?", keepItems)
	}
	if err := query.Delete(&billing.CreditNoteItem{}).Error; err != nil {
		return err
	}

	for i := range creditNote.Items {
		creditNote.Items[i].CreditNoteID = creditNote.ID
		if err := tx.Save(&creditNote.Items[i]).Error; err != nil {
			return err
		}
	}

	// Applications are append-only, so no delete pass is needed
	for i := range creditNote.Applications {
		creditNote.Applications[i].CreditNoteID = creditNote.ID
		if err := tx.Save(&creditNote.Applications[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormCreditNoteRepository) GenerateCreditNoteNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, tenantID, &billing.CreditNote{}, "credit_note_number", "CN")
}
