package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/sales/internal/domain/commission"
	"github.com/erp/sales/internal/domain/shared"
)

// GormDiscountRepository implements commission.DiscountRepository using
// GORM
type GormDiscountRepository struct {
	db *gorm.DB
}

// NewGormDiscountRepository creates a new GORM discount repository
func NewGormDiscountRepository(db *gorm.DB) *GormDiscountRepository {
	return &GormDiscountRepository{db: db}
}

var _ commission.DiscountRepository = (*GormDiscountRepository)(nil)

func (r *GormDiscountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*commission.Discount, error) {
	var discount commission.Discount
	err := session(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&discount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &discount, nil
}

func (r *GormDiscountRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*commission.Discount, error) {
	var discount commission.Discount
	err := session(ctx, r.db).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&discount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &discount, nil
}

func (r *GormDiscountRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]commission.Discount, error) {
	var discounts []commission.Discount
	err := session(ctx, r.db).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("created_at ASC").
		Find(&discounts).Error
	if err != nil {
		return nil, err
	}
	return discounts, nil
}

func (r *GormDiscountRepository) Save(ctx context.Context, discount *commission.Discount) error {
	return session(ctx, r.db).Save(discount).Error
}

func (r *GormDiscountRepository) SaveWithLock(ctx context.Context, discount *commission.Discount) error {
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return updateWithVersion(tx, discount, discount.ID, &discount.Version, &discount.UpdatedAt)
	})
}
