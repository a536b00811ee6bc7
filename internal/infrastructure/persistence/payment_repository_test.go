package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/sales/internal/domain/billing"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

func TestGormPaymentRepository_FindByInvoice(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	invoiceID := uuid.New()
	customerID := uuid.New()

	first, err := billing.NewPayment(tenantID, "PAY-2026-00001", invoiceID, "INV-2026-00001",
		customerID, "Acme Ltd", decimal.NewFromInt(100), billing.PaymentMethodBankTransfer, valueobject.TRY)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	second, err := billing.NewPayment(tenantID, "PAY-2026-00002", invoiceID, "INV-2026-00001",
		customerID, "Acme Ltd", decimal.NewFromInt(50), billing.PaymentMethodCash, valueobject.TRY)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, second))

	unrelated, err := billing.NewPayment(tenantID, "PAY-2026-00003", uuid.New(), "INV-2026-00002",
		customerID, "Acme Ltd", decimal.NewFromInt(70), billing.PaymentMethodCash, valueobject.TRY)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, unrelated))

	payments, err := repo.FindByInvoice(ctx, tenantID, invoiceID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "PAY-2026-00001", payments[0].PaymentNumber)
	assert.Equal(t, "PAY-2026-00002", payments[1].PaymentNumber)
}

func TestGormPaymentRepository_GeneratePaymentNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	number, err := repo.GeneratePaymentNumber(ctx, tenantID)
	require.NoError(t, err)

	payment, err := billing.NewPayment(tenantID, number, uuid.New(), "INV-2026-00001",
		uuid.New(), "Acme Ltd", decimal.NewFromInt(100), billing.PaymentMethodCash, valueobject.TRY)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, payment))

	next, err := repo.GeneratePaymentNumber(ctx, tenantID)
	require.NoError(t, err)
	assert.NotEqual(t, number, next)
}
