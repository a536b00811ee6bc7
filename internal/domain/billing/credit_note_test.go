package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

func newTestCreditNote(t *testing.T) *CreditNote {
	t.Helper()
	cn, err := NewCreditNote(uuid.New(), "CN-2026-00001", uuid.New(), "INV-2026-00001",
		uuid.New(), "Acme Corp", "billing correction", valueobject.TRY)
	require.NoError(t, err)
	return cn
}

func addTestCreditItem(t *testing.T, cn *CreditNote, qty, price, vat float64) *CreditNoteItem {
	t.Helper()
	item, err := cn.AddItem(uuid.New(), "Widget",
		decimal.NewFromFloat(qty), decimal.NewFromFloat(price), valueobject.MustPercent(vat))
	require.NoError(t, err)
	return item
}

func issueTestCreditNote(t *testing.T, cn *CreditNote, invoiceBalance int64) {
	t.Helper()
	require.NoError(t, cn.ValidateAgainstInvoice(decimal.NewFromInt(invoiceBalance)))
	require.NoError(t, cn.Submit())
	require.NoError(t, cn.Approve(uuid.New()))
	require.NoError(t, cn.Issue())
}

func TestNewCreditNote(t *testing.T) {
	t.Run("creates draft note", func(t *testing.T) {
		cn := newTestCreditNote(t)

		assert.Equal(t, CreditNoteStatusDraft, cn.Status)
		assert.True(t, cn.AppliedAmount.IsZero())
		assert.False(t, cn.IsValidated())
	})

	t.Run("requires invoice and reason", func(t *testing.T) {
		_, err := NewCreditNote(uuid.New(), "CN-2026-00001", uuid.Nil, "",
			uuid.New(), "Acme Corp", "reason", valueobject.TRY)
		assert.True(t, shared.IsValidation(err))

		_, err = NewCreditNote(uuid.New(), "CN-2026-00001", uuid.New(), "INV-2026-00001",
			uuid.New(), "Acme Corp", "", valueobject.TRY)
		assert.True(t, shared.IsValidation(err))
	})
}

func TestCreateForReturn(t *testing.T) {
	t.Run("links the return", func(t *testing.T) {
		returnID := uuid.New()

		cn, err := CreateForReturn(uuid.New(), "CN-2026-00002", uuid.New(), "INV-2026-00001",
			returnID, "RET-2026-00001", uuid.New(), "Acme Corp", valueobject.TRY)

		require.NoError(t, err)
		assert.Equal(t, returnID, *cn.SalesReturnID)
		assert.Equal(t, "RET-2026-00001", cn.ReturnNumber)
		assert.Contains(t, cn.Reason, "RET-2026-00001")
	})

	t.Run("requires a return", func(t *testing.T) {
		_, err := CreateForReturn(uuid.New(), "CN-2026-00002", uuid.New(), "INV-2026-00001",
			uuid.Nil, "", uuid.New(), "Acme Corp", valueobject.TRY)

		assert.True(t, shared.IsValidation(err))
	})
}

func TestCreditNoteValidation(t *testing.T) {
	t.Run("rejects total over invoice balance", func(t *testing.T) {
		cn := newTestCreditNote(t)
		addTestCreditItem(t, cn, 1, 150, 0)

		err := cn.ValidateAgainstInvoice(decimal.NewFromInt(100))

		assert.True(t, shared.IsValidation(err))
		assert.Equal(t, "CREDIT_NOTE_EXCEEDS_BALANCE", shared.CodeOf(err))
		assert.False(t, cn.IsValidated())
	})

	t.Run("submit requires validation", func(t *testing.T) {
		cn := newTestCreditNote(t)
		addTestCreditItem(t, cn, 1, 100, 0)

		err := cn.Submit()

		assert.True(t, shared.IsConflict(err))
		assert.Equal(t, "CREDIT_NOTE_NOT_VALIDATED", shared.CodeOf(err))
	})

	t.Run("line change invalidates a prior validation", func(t *testing.T) {
		cn := newTestCreditNote(t)
		addTestCreditItem(t, cn, 1, 100, 0)
		require.NoError(t, cn.ValidateAgainstInvoice(decimal.NewFromInt(500)))
		assert.True(t, cn.IsValidated())

		addTestCreditItem(t, cn, 1, 100, 0)

		assert.False(t, cn.IsValidated())
		assert.True(t, shared.IsConflict(cn.Submit()))
	})

	t.Run("submit requires items", func(t *testing.T) {
		cn := newTestCreditNote(t)
		require.NoError(t, cn.ValidateAgainstInvoice(decimal.NewFromInt(500)))

		assert.True(t, shared.IsValidation(cn.Submit()))
	})
}

func TestCreditNoteLifecycle(t *testing.T) {
	t.Run("full path to fully applied", func(t *testing.T) {
		cn := newTestCreditNote(t)
		addTestCreditItem(t, cn, 2, 100, 20)
		issueTestCreditNote(t, cn, 500)

		invoiceID := cn.InvoiceID
		require.NoError(t, cn.Apply(decimal.NewFromInt(140), invoiceID, "partial credit"))
		assert.Equal(t, CreditNoteStatusPartiallyApplied, cn.Status)
		assert.True(t, cn.RemainingAmount().Equal(decimal.NewFromInt(100)))

		require.NoError(t, cn.Apply(decimal.NewFromInt(100), invoiceID, "rest"))
		assert.Equal(t, CreditNoteStatusFullyApplied, cn.Status)
		assert.True(t, cn.RemainingAmount().IsZero())
		assert.True(t, cn.Status.IsTerminal())
	})

	t.Run("apply bounded by remaining credit", func(t *testing.T) {
		cn := newTestCreditNote(t)
		addTestCreditItem(t, cn, 2, 100, 20)
		issueTestCreditNote(t, cn, 500)

		err := cn.Apply(decimal.NewFromInt(241), cn.InvoiceID, "too much")

		assert.True(t, shared.IsValidation(err))
		assert.True(t, cn.AppliedAmount.IsZero())
	})

	t.Run("cannot apply before issue", func(t *testing.T) {
		cn := newTestCreditNote(t)
		addTestCreditItem(t, cn, 1, 100, 0)

		err := cn.Apply(decimal.NewFromInt(50), cn.InvoiceID, "early")

		assert.True(t, shared.IsConflict(err))
	})

	t.Run("reject from pending approval", func(t *testing.T) {
		cn := newTestCreditNote(t)
		addTestCreditItem(t, cn, 1, 100, 0)
		require.NoError(t, cn.ValidateAgainstInvoice(decimal.NewFromInt(500)))
		require.NoError(t, cn.Submit())

		require.NoError(t, cn.Reject("not justified"))
		assert.Equal(t, CreditNoteStatusRejected, cn.Status)
		assert.True(t, cn.Status.IsTerminal())
	})
}

func TestCreditNoteVoid(t *testing.T) {
	t.Run("void draft and approved", func(t *testing.T) {
		cn := newTestCreditNote(t)
		require.NoError(t, cn.Void("entered in error"))
		assert.Equal(t, CreditNoteStatusVoided, cn.Status)

		cn2 := newTestCreditNote(t)
		addTestCreditItem(t, cn2, 1, 100, 0)
		require.NoError(t, cn2.ValidateAgainstInvoice(decimal.NewFromInt(500)))
		require.NoError(t, cn2.Submit())
		require.NoError(t, cn2.Approve(uuid.New()))
		require.NoError(t, cn2.Void("superseded"))
		assert.Equal(t, CreditNoteStatusVoided, cn2.Status)
	})

	t.Run("cannot void once applied", func(t *testing.T) {
		cn := newTestCreditNote(t)
		addTestCreditItem(t, cn, 1, 100, 0)
		issueTestCreditNote(t, cn, 500)
		require.NoError(t, cn.Apply(decimal.NewFromInt(50), cn.InvoiceID, "partial"))

		err := cn.Void("too late")

		assert.True(t, shared.IsConflict(err))
	})
}
