package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

func newTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	inv, err := NewInvoice(uuid.New(), "INV-2026-00001", uuid.New(), "Acme Corp", valueobject.TRY)
	require.NoError(t, err)
	return inv
}

func addTestInvoiceItem(t *testing.T, inv *Invoice, qty, price, vat float64) *InvoiceItem {
	t.Helper()
	item, err := inv.AddItem(uuid.New(), "Widget", "WID-001", "pcs",
		decimal.NewFromFloat(qty), decimal.NewFromFloat(price), valueobject.MustPercent(vat))
	require.NoError(t, err)
	return item
}

func TestNewInvoice(t *testing.T) {
	t.Run("creates draft invoice", func(t *testing.T) {
		inv := newTestInvoice(t)

		assert.Equal(t, InvoiceStatusDraft, inv.Status)
		assert.True(t, inv.PaidAmount.IsZero())
		assert.True(t, inv.RemainingAmount().IsZero())
		assert.Len(t, inv.GetDomainEvents(), 1)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "", uuid.New(), "Acme Corp", valueobject.TRY)
		assert.True(t, shared.IsValidation(err))

		_, err = NewInvoice(uuid.New(), "INV-2026-00001", uuid.Nil, "Acme Corp", valueobject.TRY)
		assert.True(t, shared.IsValidation(err))
	})
}

func TestInvoiceTotals(t *testing.T) {
	t.Run("line with vat", func(t *testing.T) {
		inv := newTestInvoice(t)

		item := addTestInvoiceItem(t, inv, 2, 100, 20)

		assert.True(t, item.LineTotal.Equal(decimal.NewFromInt(240)), "line total %s", item.LineTotal)
		assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(240)))
		assert.True(t, inv.RemainingAmount().Equal(decimal.NewFromInt(240)))
	})

	t.Run("recompute is pure", func(t *testing.T) {
		inv := newTestInvoice(t)
		addTestInvoiceItem(t, inv, 3, 19.99, 18)

		first := inv.TotalAmount
		inv.recalculateTotals()
		inv.recalculateTotals()

		assert.True(t, inv.TotalAmount.Equal(first))
	})

	t.Run("items frozen after issue", func(t *testing.T) {
		inv := newTestInvoice(t)
		item := addTestInvoiceItem(t, inv, 2, 100, 20)
		require.NoError(t, inv.Issue())

		_, addErr := inv.AddItem(uuid.New(), "Gadget", "GAD-001", "pcs",
			decimal.NewFromInt(1), decimal.NewFromInt(50), valueobject.ZeroPercent())
		updErr := inv.UpdateItemQuantity(item.ID, decimal.NewFromInt(9))

		assert.True(t, shared.IsConflict(addErr))
		assert.True(t, shared.IsConflict(updErr))
		assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(240)))
	})
}

func TestInvoiceIssue(t *testing.T) {
	t.Run("requires items", func(t *testing.T) {
		inv := newTestInvoice(t)

		err := inv.Issue()

		assert.True(t, shared.IsValidation(err))
		assert.Equal(t, InvoiceStatusDraft, inv.Status)
	})

	t.Run("issue then send", func(t *testing.T) {
		inv := newTestInvoice(t)
		addTestInvoiceItem(t, inv, 2, 100, 20)

		require.NoError(t, inv.Issue())
		assert.Equal(t, InvoiceStatusIssued, inv.Status)
		assert.NotNil(t, inv.IssuedAt)

		require.NoError(t, inv.Send())
		assert.Equal(t, InvoiceStatusSent, inv.Status)
	})
}

func TestInvoicePayments(t *testing.T) {
	t.Run("full payment marks paid", func(t *testing.T) {
		inv := newTestInvoice(t)
		addTestInvoiceItem(t, inv, 2, 100, 20)
		require.NoError(t, inv.Issue())

		require.NoError(t, inv.RecordPayment(decimal.NewFromInt(240)))

		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.True(t, inv.RemainingAmount().IsZero())
		assert.NotNil(t, inv.PaidAt)
	})

	t.Run("partial payment derives partially paid", func(t *testing.T) {
		inv := newTestInvoice(t)
		addTestInvoiceItem(t, inv, 2, 100, 20)
		require.NoError(t, inv.Issue())

		require.NoError(t, inv.RecordPayment(decimal.NewFromInt(100)))

		assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
		assert.True(t, inv.RemainingAmount().Equal(decimal.NewFromInt(140)))
	})

	t.Run("payment bounded by remaining", func(t *testing.T) {
		inv := newTestInvoice(t)
		addTestInvoiceItem(t, inv, 2, 100, 20)
		require.NoError(t, inv.Issue())
		require.NoError(t, inv.RecordPayment(decimal.NewFromInt(200)))

		err := inv.RecordPayment(decimal.NewFromInt(41))

		assert.True(t, shared.IsValidation(err))
		assert.Equal(t, "PAYMENT_EXCEEDS_REMAINING", shared.CodeOf(err))
		assert.True(t, inv.PaidAmount.Equal(decimal.NewFromInt(200)))
	})

	t.Run("cannot pay a draft", func(t *testing.T) {
		inv := newTestInvoice(t)
		addTestInvoiceItem(t, inv, 2, 100, 20)

		err := inv.RecordPayment(decimal.NewFromInt(50))

		assert.True(t, shared.IsConflict(err))
	})

	t.Run("reversal falls back through statuses", func(t *testing.T) {
		inv := newTestInvoice(t)
		addTestInvoiceItem(t, inv, 2, 100, 20)
		require.NoError(t, inv.Issue())
		require.NoError(t, inv.Send())
		require.NoError(t, inv.RecordPayment(decimal.NewFromInt(240)))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)

		require.NoError(t, inv.ReversePayment(decimal.NewFromInt(100)))
		assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)

		require.NoError(t, inv.ReversePayment(decimal.NewFromInt(140)))
		assert.Equal(t, InvoiceStatusSent, inv.Status)
		assert.True(t, inv.PaidAmount.IsZero())
	})
}

func TestInvoiceCancel(t *testing.T) {
	t.Run("allowed while unpaid", func(t *testing.T) {
		inv := newTestInvoice(t)
		addTestInvoiceItem(t, inv, 2, 100, 20)
		require.NoError(t, inv.Issue())

		require.NoError(t, inv.Cancel("billing error"))

		assert.Equal(t, InvoiceStatusCancelled, inv.Status)
	})

	t.Run("rejected once payments exist", func(t *testing.T) {
		inv := newTestInvoice(t)
		addTestInvoiceItem(t, inv, 2, 100, 20)
		require.NoError(t, inv.Issue())
		require.NoError(t, inv.RecordPayment(decimal.NewFromInt(240)))

		err := inv.Cancel("should not work")

		assert.True(t, shared.IsConflict(err))
		assert.Equal(t, "INVOICE_INVALID_STATE", shared.CodeOf(err))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})
}

func TestInvoiceOverdue(t *testing.T) {
	inv := newTestInvoice(t)
	addTestInvoiceItem(t, inv, 2, 100, 20)
	require.NoError(t, inv.Issue())

	assert.False(t, inv.IsOverdue())

	past := time.Now().Add(-time.Hour)
	inv.DueDate = &past
	assert.True(t, inv.IsOverdue())

	require.NoError(t, inv.RecordPayment(decimal.NewFromInt(240)))
	assert.False(t, inv.IsOverdue())
}
