package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

func newTestOrder(t *testing.T) *SalesOrder {
	t.Helper()
	o, err := NewSalesOrder(uuid.New(), "ORD-2026-00001", uuid.New(), "Acme Corp", valueobject.TRY)
	require.NoError(t, err)
	return o
}

func addTestOrderItem(t *testing.T, o *SalesOrder, qty, price float64, vat float64) *SalesOrderItem {
	t.Helper()
	item, err := o.AddItem(uuid.New(), "Widget", "WID-001", "pcs",
		decimal.NewFromFloat(qty), decimal.NewFromFloat(price), valueobject.MustPercent(vat))
	require.NoError(t, err)
	return item
}

func TestNewSalesOrder(t *testing.T) {
	t.Run("creates draft order", func(t *testing.T) {
		tenantID := uuid.New()

		o, err := NewSalesOrder(tenantID, "ORD-2026-00001", uuid.New(), "Acme Corp", valueobject.TRY)

		require.NoError(t, err)
		assert.Equal(t, SalesOrderStatusDraft, o.Status)
		assert.Equal(t, tenantID, o.TenantID)
		assert.True(t, o.TotalAmount.IsZero())
		assert.Len(t, o.GetDomainEvents(), 1)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		_, err := NewSalesOrder(uuid.New(), "", uuid.New(), "Acme Corp", valueobject.TRY)
		assert.True(t, shared.IsValidation(err))

		_, err = NewSalesOrder(uuid.New(), "ORD-2026-00001", uuid.Nil, "Acme Corp", valueobject.TRY)
		assert.True(t, shared.IsValidation(err))
	})
}

func TestSalesOrderTotals(t *testing.T) {
	t.Run("recomputes on every mutation", func(t *testing.T) {
		o := newTestOrder(t)
		item := addTestOrderItem(t, o, 2, 100, 20)
		assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(240)))

		require.NoError(t, o.UpdateItemQuantity(item.ID, decimal.NewFromInt(3)))
		assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(360)))

		require.NoError(t, o.ApplyDiscount(decimal.NewFromInt(50), valueobject.ZeroPercent()))
		assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(310)))

		require.NoError(t, o.RemoveItem(item.ID))
		assert.True(t, o.SubTotal.IsZero())
		assert.True(t, o.TotalAmount.IsZero())
	})
}

func TestSalesOrderLifecycle(t *testing.T) {
	t.Run("full happy path", func(t *testing.T) {
		o := newTestOrder(t)
		addTestOrderItem(t, o, 2, 100, 20)

		require.NoError(t, o.Approve(uuid.New()))
		require.NoError(t, o.Confirm())
		require.NoError(t, o.Ship(nil))
		require.NoError(t, o.Deliver())
		require.NoError(t, o.Complete())

		assert.Equal(t, SalesOrderStatusCompleted, o.Status)
		assert.NotNil(t, o.CompletedAt)
		assert.True(t, o.IsTerminal())
		assert.False(t, o.HasPendingQuantities())
	})

	t.Run("cannot approve without items", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.Approve(uuid.New())

		assert.True(t, shared.IsValidation(err))
		assert.Equal(t, SalesOrderStatusDraft, o.Status)
	})

	t.Run("cannot skip states", func(t *testing.T) {
		o := newTestOrder(t)
		addTestOrderItem(t, o, 1, 100, 0)

		assert.True(t, shared.IsConflict(o.Confirm()))
		assert.True(t, shared.IsConflict(o.Ship(nil)))
		assert.True(t, shared.IsConflict(o.Complete()))
	})

	t.Run("guard failure is repeatable and mutation free", func(t *testing.T) {
		o := newTestOrder(t)
		addTestOrderItem(t, o, 1, 100, 0)

		err1 := o.Ship(nil)
		err2 := o.Ship(nil)

		assert.Equal(t, shared.CodeOf(err1), shared.CodeOf(err2))
		assert.Equal(t, SalesOrderStatusDraft, o.Status)
		assert.Nil(t, o.ShippedAt)
	})

	t.Run("cancel allowed before completed", func(t *testing.T) {
		o := newTestOrder(t)
		addTestOrderItem(t, o, 1, 100, 0)
		require.NoError(t, o.Approve(uuid.New()))
		require.NoError(t, o.Confirm())
		require.NoError(t, o.Ship(nil))

		require.NoError(t, o.Cancel("customer refused delivery"))
		assert.Equal(t, SalesOrderStatusCancelled, o.Status)
	})

	t.Run("cancel rejected after completed", func(t *testing.T) {
		o := newTestOrder(t)
		addTestOrderItem(t, o, 1, 100, 0)
		require.NoError(t, o.Approve(uuid.New()))
		require.NoError(t, o.Confirm())
		require.NoError(t, o.Ship(nil))
		require.NoError(t, o.Deliver())
		require.NoError(t, o.Complete())

		err := o.Cancel("too late")

		assert.True(t, shared.IsConflict(err))
	})
}

func TestSalesOrderShipping(t *testing.T) {
	t.Run("partial shipment leaves pending quantity", func(t *testing.T) {
		o := newTestOrder(t)
		item := addTestOrderItem(t, o, 10, 50, 0)
		require.NoError(t, o.Approve(uuid.New()))
		require.NoError(t, o.Confirm())

		err := o.Ship(map[uuid.UUID]decimal.Decimal{item.ID: decimal.NewFromInt(6)})

		require.NoError(t, err)
		assert.True(t, o.HasPendingQuantities())
		assert.True(t, o.GetItem(item.ID).PendingQuantity().Equal(decimal.NewFromInt(4)))
	})

	t.Run("rejects over-shipment", func(t *testing.T) {
		o := newTestOrder(t)
		item := addTestOrderItem(t, o, 10, 50, 0)
		require.NoError(t, o.Approve(uuid.New()))
		require.NoError(t, o.Confirm())

		err := o.Ship(map[uuid.UUID]decimal.Decimal{item.ID: decimal.NewFromInt(11)})

		assert.True(t, shared.IsValidation(err))
		assert.Equal(t, SalesOrderStatusConfirmed, o.Status)
	})
}

func TestNewSalesOrderFromQuotation(t *testing.T) {
	t.Run("copies customer terms and items", func(t *testing.T) {
		q := newTestQuotation(t)
		addTestItem(t, q, 2, 100, 20)
		require.NoError(t, q.ApplyDiscount(decimal.NewFromInt(10), valueobject.ZeroPercent()))
		require.NoError(t, q.Submit())
		require.NoError(t, q.Approve(uuid.New()))
		require.NoError(t, q.Send())
		require.NoError(t, q.Accept())

		o, err := NewSalesOrderFromQuotation(q, "ORD-2026-00001")

		require.NoError(t, err)
		assert.Equal(t, q.CustomerID, o.CustomerID)
		assert.Equal(t, q.ID, *o.QuotationID)
		assert.Equal(t, 1, o.ItemCount())
		assert.True(t, o.TotalAmount.Equal(q.TotalAmount))
	})

	t.Run("rejects non-accepted quotation", func(t *testing.T) {
		q := newTestQuotation(t)
		addTestItem(t, q, 2, 100, 20)

		_, err := NewSalesOrderFromQuotation(q, "ORD-2026-00001")

		assert.True(t, shared.IsConflict(err))
	})
}
