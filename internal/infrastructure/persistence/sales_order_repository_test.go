package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/sales/internal/domain/sales"
	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

func newTestOrder(t *testing.T, tenantID uuid.UUID, number, customerName string) *sales.SalesOrder {
	t.Helper()

	order, err := sales.NewSalesOrder(tenantID, number, uuid.New(), customerName, valueobject.TRY)
	require.NoError(t, err)

	_, err = order.AddItem(uuid.New(), "Widget", "WDG-1", "pcs",
		decimal.NewFromInt(1), decimal.NewFromInt(100), valueobject.MustPercent(20))
	require.NoError(t, err)

	return order
}

func TestGormSalesOrderRepository_FindByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSalesOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	draft := newTestOrder(t, tenantID, "SO-2026-00001", "Acme Ltd")
	require.NoError(t, repo.Save(ctx, draft))

	approved := newTestOrder(t, tenantID, "SO-2026-00002", "Globex Corp")
	require.NoError(t, approved.Approve(uuid.New()))
	require.NoError(t, repo.Save(ctx, approved))

	orders, err := repo.FindByStatus(ctx, tenantID, sales.SalesOrderStatusApproved, shared.Filter{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "SO-2026-00002", orders[0].OrderNumber)
}

func TestGormSalesOrderRepository_Search(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSalesOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	require.NoError(t, repo.Save(ctx, newTestOrder(t, tenantID, "SO-2026-00001", "Acme Ltd")))
	require.NoError(t, repo.Save(ctx, newTestOrder(t, tenantID, "SO-2026-00002", "Globex Corp")))

	orders, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{Search: "Globex"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Globex Corp", orders[0].CustomerName)

	count, err := repo.CountForTenant(ctx, tenantID, shared.Filter{Search: "Globex"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormSalesOrderRepository_Pagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSalesOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	for i := 1; i <= 5; i++ {
		order := newTestOrder(t, tenantID, formatNumber("SO", 2026, i), "Acme Ltd")
		require.NoError(t, repo.Save(ctx, order))
	}

	page, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	count, err := repo.CountForTenant(ctx, tenantID, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestGormSalesOrderRepository_GenerateOrderNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSalesOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	number, err := repo.GenerateOrderNumber(ctx, tenantID)
	require.NoError(t, err)

	order := newTestOrder(t, tenantID, number, "Acme Ltd")
	require.NoError(t, repo.Save(ctx, order))

	next, err := repo.GenerateOrderNumber(ctx, tenantID)
	require.NoError(t, err)
	assert.NotEqual(t, number, next)
}
