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

func newTestReturn(t *testing.T) *SalesReturn {
	t.Helper()
	r, err := NewSalesReturn(uuid.New(), "RET-2026-00001", uuid.New(), "ORD-2026-00001",
		uuid.New(), "Acme Corp", "damaged on arrival", valueobject.TRY)
	require.NoError(t, err)
	return r
}

func addTestReturnItem(t *testing.T, r *SalesReturn, qty, price float64) *SalesReturnItem {
	t.Helper()
	item, err := r.AddItem(uuid.New(), uuid.New(), "Widget",
		decimal.NewFromFloat(qty), decimal.NewFromFloat(price), valueobject.MustPercent(20),
		ReturnConditionDamaged, "crushed box")
	require.NoError(t, err)
	return item
}

func TestNewSalesReturn(t *testing.T) {
	t.Run("creates pending return", func(t *testing.T) {
		r := newTestReturn(t)

		assert.Equal(t, SalesReturnStatusPending, r.Status)
		assert.True(t, r.RefundAmount.IsZero())
		assert.Nil(t, r.CreditNoteID)
		assert.Len(t, r.GetDomainEvents(), 1)
	})

	t.Run("requires order and reason", func(t *testing.T) {
		_, err := NewSalesReturn(uuid.New(), "RET-2026-00001", uuid.Nil, "",
			uuid.New(), "Acme Corp", "damaged", valueobject.TRY)
		assert.True(t, shared.IsValidation(err))

		_, err = NewSalesReturn(uuid.New(), "RET-2026-00001", uuid.New(), "",
			uuid.New(), "Acme Corp", "", valueobject.TRY)
		assert.True(t, shared.IsValidation(err))
	})
}

func TestSalesReturnItems(t *testing.T) {
	t.Run("computes totals from items", func(t *testing.T) {
		r := newTestReturn(t)

		addTestReturnItem(t, r, 2, 100)

		assert.True(t, r.SubTotal.Equal(decimal.NewFromInt(200)))
		assert.True(t, r.VatAmount.Equal(decimal.NewFromInt(40)))
		assert.True(t, r.TotalAmount.Equal(decimal.NewFromInt(240)))
	})

	t.Run("item requires a reason", func(t *testing.T) {
		r := newTestReturn(t)

		_, err := r.AddItem(uuid.New(), uuid.New(), "Widget",
			decimal.NewFromInt(1), decimal.NewFromInt(100), valueobject.ZeroPercent(),
			ReturnConditionNew, "")

		assert.True(t, shared.IsValidation(err))
	})

	t.Run("cannot mutate after submit", func(t *testing.T) {
		r := newTestReturn(t)
		item := addTestReturnItem(t, r, 1, 100)
		require.NoError(t, r.Submit())

		_, addErr := r.AddItem(uuid.New(), uuid.New(), "Gadget",
			decimal.NewFromInt(1), decimal.NewFromInt(50), valueobject.ZeroPercent(),
			ReturnConditionUsed, "wrong size")
		remErr := r.RemoveItem(item.ID)

		assert.True(t, shared.IsConflict(addErr))
		assert.True(t, shared.IsConflict(remErr))
	})
}

func TestSalesReturnLifecycle(t *testing.T) {
	t.Run("full happy path", func(t *testing.T) {
		r := newTestReturn(t)
		addTestReturnItem(t, r, 2, 100)

		require.NoError(t, r.Submit())
		require.NoError(t, r.Approve(uuid.New()))
		require.NoError(t, r.Receive())
		require.NoError(t, r.Refund(decimal.NewFromInt(240)))
		require.NoError(t, r.Complete())

		assert.Equal(t, SalesReturnStatusCompleted, r.Status)
		assert.True(t, r.RefundAmount.Equal(decimal.NewFromInt(240)))
		assert.True(t, r.IsTerminal())
	})

	t.Run("cannot submit without items", func(t *testing.T) {
		r := newTestReturn(t)

		assert.True(t, shared.IsValidation(r.Submit()))
	})

	t.Run("reject only from submitted", func(t *testing.T) {
		r := newTestReturn(t)
		addTestReturnItem(t, r, 1, 100)

		assert.True(t, shared.IsConflict(r.Reject("not eligible")))

		require.NoError(t, r.Submit())
		require.NoError(t, r.Reject("outside return window"))
		assert.Equal(t, SalesReturnStatusRejected, r.Status)
		assert.True(t, r.IsTerminal())
	})

	t.Run("refund bounded by total", func(t *testing.T) {
		r := newTestReturn(t)
		addTestReturnItem(t, r, 1, 100)
		require.NoError(t, r.Submit())
		require.NoError(t, r.Approve(uuid.New()))
		require.NoError(t, r.Receive())

		err := r.Refund(decimal.NewFromInt(500))

		assert.True(t, shared.IsValidation(err))
		assert.Equal(t, SalesReturnStatusReceived, r.Status)
		assert.True(t, r.RefundAmount.IsZero())
	})

	t.Run("cancel allowed before refunded", func(t *testing.T) {
		r := newTestReturn(t)
		addTestReturnItem(t, r, 1, 100)
		require.NoError(t, r.Submit())
		require.NoError(t, r.Approve(uuid.New()))
		require.NoError(t, r.Receive())

		require.NoError(t, r.Cancel("customer kept the goods"))
		assert.Equal(t, SalesReturnStatusCancelled, r.Status)
	})

	t.Run("cancel rejected after refunded", func(t *testing.T) {
		r := newTestReturn(t)
		addTestReturnItem(t, r, 1, 100)
		require.NoError(t, r.Submit())
		require.NoError(t, r.Approve(uuid.New()))
		require.NoError(t, r.Receive())
		require.NoError(t, r.Refund(decimal.NewFromInt(120)))

		assert.True(t, shared.IsConflict(r.Cancel("too late")))
	})
}

func TestSalesReturnCreditNoteLink(t *testing.T) {
	t.Run("links once after approval", func(t *testing.T) {
		r := newTestReturn(t)
		addTestReturnItem(t, r, 1, 100)
		require.NoError(t, r.Submit())
		require.NoError(t, r.Approve(uuid.New()))

		creditNoteID := uuid.New()
		require.NoError(t, r.SetCreditNote(creditNoteID))
		assert.Equal(t, creditNoteID, *r.CreditNoteID)

		err := r.SetCreditNote(uuid.New())
		assert.True(t, shared.IsConflict(err))
	})

	t.Run("cannot link before approval", func(t *testing.T) {
		r := newTestReturn(t)
		addTestReturnItem(t, r, 1, 100)

		err := r.SetCreditNote(uuid.New())

		assert.True(t, shared.IsConflict(err))
	})
}
