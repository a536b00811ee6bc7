package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SweepTenantSource lists tenants that own expirable documents. The
// expiry sweeper iterates these because expiry queries are tenant
// scoped like everything else.
type SweepTenantSource struct {
	db *gorm.DB
}

// NewSweepTenantSource creates a tenant source backed by the document tables
func NewSweepTenantSource(db *gorm.DB) *SweepTenantSource {
	return &SweepTenantSource{db: db}
}

// TenantIDs returns the distinct tenants holding quotations or reservations
func (s *SweepTenantSource) TenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Raw("SELECT tenant_id FROM quotations UNION SELECT tenant_id FROM inventory_reservations").
		Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
