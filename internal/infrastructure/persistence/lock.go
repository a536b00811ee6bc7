package persistence

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/sales/internal/domain/shared"
)

// ErrConcurrentModification signals a lost optimistic lock
var ErrConcurrentModification = shared.NewConflictError("CONCURRENT_MODIFICATION", "The document has been modified by another user")

// updateWithVersion writes every column of the aggregate guarded by a
// version check, incrementing the version on success. The caller passes the
// association fields to omit; children are written separately. The version
// and UpdatedAt fields on the aggregate are mutated before the write so the
// in-memory copy matches the row.
func updateWithVersion(tx *gorm.DB, model any, id uuid.UUID, version *int, updatedAt *time.Time, omitFields ...string) error {
	var currentVersion int
	if err := tx.Model(model).
		Where("id = ?", id).
		Select("version").
		Scan(&currentVersion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}
	if currentVersion != *version {
		return ErrConcurrentModification
	}

	*version = currentVersion + 1
	*updatedAt = time.Now()

	omit := append([]string{"id", "created_at"}, omitFields...)
	result := tx.Model(model).
		Where("id = ? AND version = ?", id, currentVersion).
		Select("*").
		Omit(omit...).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConcurrentModification
	}
	return nil
}
