package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/erp/sales/internal/domain/billing"
	"github.com/erp/sales/internal/domain/shared"
)

// capturedAdvance builds a captured advance payment of the given amount
func capturedAdvance(t *testing.T, tenantID uuid.UUID, amount int64) *billing.AdvancePayment {
	t.Helper()

	advance, err := billing.NewAdvancePayment(tenantID, "ADV-2026-00001", uuid.New(), "Acme Corp",
		decimal.NewFromInt(amount), billing.PaymentMethodBankTransfer, "TRY")
	require.NoError(t, err)
	require.NoError(t, advance.Capture())
	advance.ClearDomainEvents()
	return advance
}

func TestAdvancePaymentService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	advanceRepo := new(MockAdvancePaymentRepository)
	advanceRepo.On("GenerateAdvanceNumber", ctx, tenantID).Return("ADV-2026-00009", nil)
	advanceRepo.On("Save", ctx, mock.AnythingOfType("*billing.AdvancePayment")).Return(nil)

	service := NewAdvancePaymentService(advanceRepo, new(MockInvoiceRepository))

	resp, err := service.Create(ctx, tenantID, CreateAdvancePaymentRequest{
		CustomerID:   uuid.New(),
		CustomerName: "Acme Corp",
		Amount:       decimal.NewFromInt(1000),
		Method:       string(billing.PaymentMethodBankTransfer),
	})

	require.NoError(t, err)
	assert.Equal(t, "ADV-2026-00009", resp.AdvanceNumber)
	assert.Equal(t, string(billing.AdvancePaymentStatusPending), resp.Status)
	assert.True(t, resp.RemainingAmt.Equal(decimal.NewFromInt(1000)))
	advanceRepo.AssertExpectations(t)
}

func TestAdvancePaymentService_ApplyToInvoice(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	advance := capturedAdvance(t, tenantID, 1000)
	inv := issuedInvoice(t, tenantID, 10, 100)

	advanceRepo := new(MockAdvancePaymentRepository)
	advanceRepo.On("FindByIDForTenant", ctx, tenantID, advance.ID).Return(advance, nil)
	advanceRepo.On("SaveWithLock", ctx, advance).Return(nil)

	invoiceRepo := new(MockInvoiceRepository)
	invoiceRepo.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)
	invoiceRepo.On("SaveWithLock", ctx, inv).Return(nil)

	service := NewAdvancePaymentService(advanceRepo, invoiceRepo)

	resp, err := service.ApplyToInvoice(ctx, tenantID, advance.ID, ApplyAdvanceRequest{
		InvoiceID: inv.ID,
		Amount:    decimal.NewFromInt(600),
	})

	require.NoError(t, err)
	assert.Equal(t, string(billing.AdvancePaymentStatusPartiallyApplied), resp.Status)
	assert.True(t, resp.AppliedAmount.Equal(decimal.NewFromInt(600)))
	assert.True(t, resp.RemainingAmt.Equal(decimal.NewFromInt(400)))
	require.Len(t, resp.Applications, 1)
	assert.Equal(t, inv.ID, resp.Applications[0].InvoiceID)

	assert.True(t, inv.PaidAmount.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, billing.InvoiceStatusPartiallyPaid, inv.Status)
	advanceRepo.AssertExpectations(t)
	invoiceRepo.AssertExpectations(t)
}

func TestAdvancePaymentService_Apply_ExceedsBalance(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	advance := capturedAdvance(t, tenantID, 1000)
	inv := issuedInvoice(t, tenantID, 10, 100)
	require.NoError(t, advance.ApplyToInvoice(inv.ID, inv.InvoiceNumber, decimal.NewFromInt(600)))
	advance.ClearDomainEvents()

	advanceRepo := new(MockAdvancePaymentRepository)
	advanceRepo.On("FindByIDForTenant", ctx, tenantID, advance.ID).Return(advance, nil)

	invoiceRepo := new(MockInvoiceRepository)
	invoiceRepo.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)

	service := NewAdvancePaymentService(advanceRepo, invoiceRepo)

	_, err := service.ApplyToInvoice(ctx, tenantID, advance.ID, ApplyAdvanceRequest{
		InvoiceID: inv.ID,
		Amount:    decimal.NewFromInt(500),
	})

	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	advanceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	invoiceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestAdvancePaymentService_ReverseApplication(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	advance := capturedAdvance(t, tenantID, 1000)
	inv := issuedInvoice(t, tenantID, 10, 100)
	require.NoError(t, advance.ApplyToInvoice(inv.ID, inv.InvoiceNumber, decimal.NewFromInt(600)))
	require.NoError(t, inv.RecordPayment(decimal.NewFromInt(600)))
	advance.ClearDomainEvents()
	inv.ClearDomainEvents()

	advanceRepo := new(MockAdvancePaymentRepository)
	advanceRepo.On("FindByIDForTenant", ctx, tenantID, advance.ID).Return(advance, nil)
	advanceRepo.On("SaveWithLock", ctx, advance).Return(nil)

	invoiceRepo := new(MockInvoiceRepository)
	invoiceRepo.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)
	invoiceRepo.On("SaveWithLock", ctx, inv).Return(nil)

	service := NewAdvancePaymentService(advanceRepo, invoiceRepo)

	resp, err := service.ReverseApplication(ctx, tenantID, advance.ID, ReverseAdvanceApplicationRequest{
		InvoiceID: inv.ID,
		Amount:    decimal.NewFromInt(600),
	})

	require.NoError(t, err)
	assert.True(t, resp.AppliedAmount.IsZero())
	assert.True(t, resp.RemainingAmt.Equal(decimal.NewFromInt(1000)))
	assert.True(t, inv.PaidAmount.IsZero())
	advanceRepo.AssertExpectations(t)
	invoiceRepo.AssertExpectations(t)
}

func TestAdvancePaymentService_Refund_Full(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	advance := capturedAdvance(t, tenantID, 1000)

	advanceRepo := new(MockAdvancePaymentRepository)
	advanceRepo.On("FindByIDForTenant", ctx, tenantID, advance.ID).Return(advance, nil)
	advanceRepo.On("SaveWithLock", ctx, advance).Return(nil)

	service := NewAdvancePaymentService(advanceRepo, new(MockInvoiceRepository))

	resp, err := service.Refund(ctx, tenantID, advance.ID, RefundAdvanceRequest{})

	require.NoError(t, err)
	assert.Equal(t, string(billing.AdvancePaymentStatusRefunded), resp.Status)
	assert.True(t, resp.RefundedAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, resp.RemainingAmt.IsZero())
	advanceRepo.AssertExpectations(t)
}
