package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/sales/internal/domain/sales"
)

func TestGormBackOrderRepository_FindOpenByProduct(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormBackOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	productID := uuid.New()

	pending, err := sales.NewBackOrder(tenantID, "BO-2026-00001", uuid.New(), uuid.New(), productID,
		"Widget", decimal.NewFromInt(10), decimal.NewFromInt(4))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, pending))

	fulfilled, err := sales.NewBackOrder(tenantID, "BO-2026-00002", uuid.New(), uuid.New(), productID,
		"Widget", decimal.NewFromInt(10), decimal.NewFromInt(4))
	require.NoError(t, err)
	require.NoError(t, fulfilled.RecordFulfillment(fulfilled.RemainingQuantity()))
	require.NoError(t, repo.Save(ctx, fulfilled))

	otherProduct, err := sales.NewBackOrder(tenantID, "BO-2026-00003", uuid.New(), uuid.New(), uuid.New(),
		"Gadget", decimal.NewFromInt(5), decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, otherProduct))

	backOrders, err := repo.FindOpenByProduct(ctx, tenantID, productID)
	require.NoError(t, err)
	require.Len(t, backOrders, 1)
	assert.Equal(t, "BO-2026-00001", backOrders[0].BackOrderNumber)
}

func TestGormBackOrderRepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormBackOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	backOrder, err := sales.NewBackOrder(tenantID, "BO-2026-00001", uuid.New(), uuid.New(), uuid.New(),
		"Widget", decimal.NewFromInt(10), decimal.NewFromInt(4))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, backOrder))

	require.NoError(t, backOrder.RecordFulfillment(decimal.NewFromInt(2)))
	require.NoError(t, repo.SaveWithLock(ctx, backOrder))

	found, err := repo.FindByIDForTenant(ctx, tenantID, backOrder.ID)
	require.NoError(t, err)
	assert.Equal(t, sales.BackOrderStatusPartiallyFulfilled, found.Status)
	assert.Equal(t, 2, found.Version)
}
