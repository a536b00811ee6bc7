package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// nextDocumentNumber generates the next sequential document number for a
// tenant in the form PREFIX-YYYY-NNNNN. The sequence restarts each year.
// It reads the highest existing number and probes forward on collision,
// so a lost race costs one retry instead of a duplicate.
func nextDocumentNumber(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, model any, column, prefix string) (string, error) {
	yearPrefix := fmt.Sprintf("%s-%d-", prefix, time.Now().Year())

	var last string
	err := session(ctx, db).
		Model(model).
		Where("tenant_id = ? AND "+column+" LIKE ?", tenantID, yearPrefix+"%").
		Order(column + " DESC").
		Limit(1).
		Pluck(column, &last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var next int64 = 1
	if last != "" {
		parts := strings.Split(last, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				next = num + 1
			}
		}
	}

	for attempt := 0; attempt < 100; attempt++ {
		number := fmt.Sprintf("%s%05d", yearPrefix, next)
		var count int64
		if err := session(ctx, db).
			Model(model).
			Where("tenant_id = ? AND "+column+" = ?", tenantID, number).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return number, nil
		}
		next++
	}

	return "", fmt.Errorf("could not allocate a %s number after 100 attempts", prefix)
}
