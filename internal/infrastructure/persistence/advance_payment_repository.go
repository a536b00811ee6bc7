package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/sales/internal/domain/billing"
	"github.com/erp/sales/internal/domain/shared"
)

// GormAdvancePaymentRepository implements billing.AdvancePaymentRepository
// using GORM
type GormAdvancePaymentRepository struct {
	db *gorm.DB
}

// NewGormAdvancePaymentRepository creates a new GORM advance payment
// repository
func NewGormAdvancePaymentRepository(db *gorm.DB) *GormAdvancePaymentRepository {
	return &GormAdvancePaymentRepository{db: db}
}

var _ billing.AdvancePaymentRepository = (*GormAdvancePaymentRepository)(nil)

func (r *GormAdvancePaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.AdvancePayment, error) {
	var advance billing.AdvancePayment
	err := session(ctx, r.db).
		Preload("Applications").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&advance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &advance, nil
}

func (r *GormAdvancePaymentRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]billing.AdvancePayment, error) {
	var advances []billing.AdvancePayment
	query := session(ctx, r.db).
		Preload("Applications").
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID)
	query = applyFilter(query, filter, "advance_number")
	if err := query.Find(&advances).Error; err != nil {
		return nil, err
	}
	return advances, nil
}

func (r *GormAdvancePaymentRepository) FindWithRemainingBalance(ctx context.Context, tenantID, customerID uuid.UUID) ([]billing.AdvancePayment, error) {
	var advances []billing.AdvancePayment
	err := session(ctx, r.db).
		Preload("Applications").
		Where("tenant_id = ? AND customer_id = ? AND status IN ?",
			tenantID, customerID,
			[]billing.AdvancePaymentStatus{billing.AdvancePaymentStatusCaptured, billing.AdvancePaymentStatusPartiallyApplied}).
		Order("created_at ASC").
		Find(&advances).Error
	if err != nil {
		return nil, err
	}
	return advances, nil
}

func (r *GormAdvancePaymentRepository) Save(ctx context.Context, advance *billing.AdvancePayment) error {
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Applications").Save(advance).Error; err != nil {
			return err
		}
		return r.saveApplications(tx, advance)
	})
}

func (r *GormAdvancePaymentRepository) SaveWithLock(ctx context.Context, advance *billing.AdvancePayment) error {
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := updateWithVersion(tx, advance, advance.ID, &advance.Version, &advance.UpdatedAt, "Applications"); err != nil {
			return err
		}
		return r.saveApplications(tx, advance)
	})
}

// saveApplications reconciles the application rows with the aggregate:
// rows no longer present are deleted, the rest are upserted.
func (r *GormAdvancePaymentRepository) saveApplications(tx *gorm.DB, advance *billing.AdvancePayment) error {
	keep := make([]uuid.UUID, 0, len(advance.Applications))
	for _, app := range advance.Applications {
		keep = append(keep, app.ID)
	}

	query := tx.Where("advance_payment_id = ?", advance.ID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	if err := query.Delete(&billing.AdvancePaymentApplication{}).Error; err != nil {
		return err
	}

	for i := range advance.Applications {
		advance.Applications[i].AdvancePaymentID = advance.ID
		if err := tx.Save(&advance.Applications[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormAdvancePaymentRepository) GenerateAdvanceNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, tenantID, &billing.AdvancePayment{}, "advance_number", "ADV")
}
