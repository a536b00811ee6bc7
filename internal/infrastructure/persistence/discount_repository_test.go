package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/sales/internal/domain/commission"
	"github.com/erp/sales/internal/domain/shared"
)

func TestGormDiscountRepository_FindByCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDiscountRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	discount, err := commission.NewDiscount(tenantID, "Autumn sale", "AUTUMN10",
		commission.DiscountTypePercentage, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, discount))

	found, err := repo.FindByCode(ctx, tenantID, "AUTUMN10")
	require.NoError(t, err)
	assert.Equal(t, discount.ID, found.ID)

	_, err = repo.FindByCode(ctx, tenantID, "WINTER20")
	assert.True(t, shared.IsNotFound(err))

	// Codes are scoped per tenant
	_, err = repo.FindByCode(ctx, uuid.New(), "AUTUMN10")
	assert.True(t, shared.IsNotFound(err))
}

func TestGormDiscountRepository_FindActiveForTenant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDiscountRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	active, err := commission.NewDiscount(tenantID, "Autumn sale", "AUTUMN10",
		commission.DiscountTypePercentage, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, active))

	retired, err := commission.NewDiscount(tenantID, "Winter sale", "WINTER20",
		commission.DiscountTypePercentage, decimal.NewFromInt(20))
	require.NoError(t, err)
	retired.Deactivate()
	require.NoError(t, repo.Save(ctx, retired))

	discounts, err := repo.FindActiveForTenant(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, discounts, 1)
	assert.Equal(t, "AUTUMN10", discounts[0].Code)
}

func TestGormDiscountRepository_UsagePersists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDiscountRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	discount, err := commission.NewDiscount(tenantID, "Autumn sale", "AUTUMN10",
		commission.DiscountTypePercentage, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, discount))

	require.NoError(t, discount.RecordUsage())
	require.NoError(t, repo.SaveWithLock(ctx, discount))

	found, err := repo.FindByIDForTenant(ctx, tenantID, discount.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, found.UsageCount)
	assert.Equal(t, 2, found.Version)
}
