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

// GormInventoryReservationRepository implements
// sales.InventoryReservationRepository using GORM
type GormInventoryReservationRepository struct {
	db *gorm.DB
}

// NewGormInventoryReservationRepository creates a new GORM reservation
// repository
func NewGormInventoryReservationRepository(db *gorm.DB) *GormInventoryReservationRepository {
	return &GormInventoryReservationRepository{db: db}
}

var _ sales.InventoryReservationRepository = (*GormInventoryReservationRepository)(nil)

func (r *GormInventoryReservationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.InventoryReservation, error) {
	var reservation sales.InventoryReservation
	err := session(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *GormInventoryReservationRepository) FindBySalesOrder(ctx context.Context, tenantID, salesOrderID uuid.UUID) ([]sales.InventoryReservation, error) {
	var reservations []sales.InventoryReservation
	err := session(ctx, r.db).
		Where("tenant_id = ? AND sales_order_id = ?", tenantID, salesOrderID).
		Order("created_at ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *GormInventoryReservationRepository) FindActiveExpired(ctx context.Context, tenantID uuid.UUID) ([]sales.InventoryReservation, error) {
	var reservations []sales.InventoryReservation
	err := session(ctx, r.db).
		Where("tenant_id = ? AND status = ? AND expires_at IS NOT NULL AND expires_at < ?",
			tenantID, sales.ReservationStatusActive, time.Now()).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *GormInventoryReservationRepository) Save(ctx context.Context, reservation *sales.InventoryReservation) error {
	return session(ctx, r.db).Save(reservation).Error
}

func (r *GormInventoryReservationRepository) SaveWithLock(ctx context.Context, reservation *sales.InventoryReservation) error {
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return updateWithVersion(tx, reservation, reservation.ID, &reservation.Version, &reservation.UpdatedAt)
	})
}
