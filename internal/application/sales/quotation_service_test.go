package sales

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/erp/sales/internal/domain/sales"
	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

func acceptedQuotation(t *testing.T, tenantID uuid.UUID) *sales.Quotation {
	t.Helper()
	q, err := sales.NewQuotation(tenantID, "QT-2025-00001", uuid.New(), "Acme Ltd", valueobject.TRY)
	require.NoError(t, err)
	_, err = q.AddItem(uuid.New(), "Widget", "WGT-1", "pcs", decimal.NewFromInt(2), decimal.NewFromInt(100), valueobject.MustPercent(20))
	require.NoError(t, err)
	require.NoError(t, q.Submit())
	require.NoError(t, q.Approve(uuid.New()))
	require.NoError(t, q.Send())
	require.NoError(t, q.Accept())
	q.ClearDomainEvents()
	return q
}

func TestQuotationService_Create(t *testing.T) {
	quotationRepo := new(MockQuotationRepository)
	orderRepo := new(MockSalesOrderRepository)
	service := NewQuotationService(quotationRepo, orderRepo)

	tenantID := uuid.New()
	quotationRepo.On("GenerateQuotationNumber", mock.Anything, tenantID).Return("QT-2025-00001", nil)
	quotationRepo.On("Save", mock.Anything, mock.AnythingOfType("*sales.Quotation")).Return(nil)

	resp, err := service.Create(context.Background(), tenantID, CreateQuotationRequest{
		CustomerID:   uuid.New(),
		CustomerName: "Acme Ltd",
		Items: []CreateQuotationItemInput{
			{
				ProductID:   uuid.New(),
				ProductName: "Widget",
				ProductCode: "WGT-1",
				Unit:        "pcs",
				Quantity:    decimal.NewFromInt(2),
				UnitPrice:   decimal.NewFromInt(100),
				VatRate:     decimal.NewFromInt(20),
			},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "QT-2025-00001", resp.QuotationNumber)
	assert.Equal(t, string(sales.QuotationStatusDraft), resp.Status)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(240)))
	quotationRepo.AssertExpectations(t)
}

func TestQuotationService_Create_GeneratorFailure(t *testing.T) {
	quotationRepo := new(MockQuotationRepository)
	orderRepo := new(MockSalesOrderRepository)
	service := NewQuotationService(quotationRepo, orderRepo)

	tenantID := uuid.New()
	quotationRepo.On("GenerateQuotationNumber", mock.Anything, tenantID).
		Return("", shared.NewConflictError("NUMBER_SEQUENCE_BUSY", "sequence locked"))

	_, err := service.Create(context.Background(), tenantID, CreateQuotationRequest{
		CustomerID:   uuid.New(),
		CustomerName: "Acme Ltd",
	})
	assert.Error(t, err)
	quotationRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestQuotationService_Submit(t *testing.T) {
	quotationRepo := new(MockQuotationRepository)
	orderRepo := new(MockSalesOrderRepository)
	service := NewQuotationService(quotationRepo, orderRepo)

	tenantID := uuid.New()
	q, err := sales.NewQuotation(tenantID, "QT-2025-00002", uuid.New(), "Acme Ltd", valueobject.TRY)
	require.NoError(t, err)
	_, err = q.AddItem(uuid.New(), "Widget", "WGT-1", "pcs", decimal.NewFromInt(1), decimal.NewFromInt(50), valueobject.MustPercent(0))
	require.NoError(t, err)

	quotationRepo.On("FindByIDForTenant", mock.Anything, tenantID, q.ID).Return(q, nil)
	quotationRepo.On("SaveWithLock", mock.Anything, q).Return(nil)

	resp, err := service.Submit(context.Background(), tenantID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, string(sales.QuotationStatusSubmitted), resp.Status)
	quotationRepo.AssertExpectations(t)
}

func TestQuotationService_Submit_InvalidTransition(t *testing.T) {
	quotationRepo := new(MockQuotationRepository)
	orderRepo := new(MockSalesOrderRepository)
	service := NewQuotationService(quotationRepo, orderRepo)

	tenantID := uuid.New()
	q := acceptedQuotation(t, tenantID)

	quotationRepo.On("FindByIDForTenant", mock.Anything, tenantID, q.ID).Return(q, nil)

	_, err := service.Submit(context.Background(), tenantID, q.ID)
	assert.True(t, shared.IsConflict(err))
	quotationRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestQuotationService_ConvertToOrder(t *testing.T) {
	quotationRepo := new(MockQuotationRepository)
	orderRepo := new(MockSalesOrderRepository)
	service := NewQuotationService(quotationRepo, orderRepo)

	tenantID := uuid.New()
	q := acceptedQuotation(t, tenantID)

	quotationRepo.On("FindByIDForTenant", mock.Anything, tenantID, q.ID).Return(q, nil)
	orderRepo.On("GenerateOrderNumber", mock.Anything, tenantID).Return("SO-2025-00001", nil)
	orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*sales.SalesOrder")).Return(nil)
	quotationRepo.On("SaveWithLock", mock.Anything, q).Return(nil)

	resp, err := service.ConvertToOrder(context.Background(), tenantID, q.ID)
	require.NoError(t, err)

	assert.Equal(t, "SO-2025-00001", resp.OrderNumber)
	assert.Equal(t, string(sales.SalesOrderStatusDraft), resp.Status)
	require.NotNil(t, resp.QuotationID)
	assert.Equal(t, q.ID, *resp.QuotationID)
	assert.True(t, resp.TotalAmount.Equal(q.TotalAmount))

	assert.Equal(t, sales.QuotationStatusConverted, q.Status)
	require.NotNil(t, q.ConvertedToOrder)
	assert.Equal(t, resp.ID, *q.ConvertedToOrder)
	quotationRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestQuotationService_ConvertToOrder_RequiresAccepted(t *testing.T) {
	quotationRepo := new(MockQuotationRepository)
	orderRepo := new(MockSalesOrderRepository)
	service := NewQuotationService(quotationRepo, orderRepo)

	tenantID := uuid.New()
	q, err := sales.NewQuotation(tenantID, "QT-2025-00003", uuid.New(), "Acme Ltd", valueobject.TRY)
	require.NoError(t, err)
	_, err = q.AddItem(uuid.New(), "Widget", "WGT-1", "pcs", decimal.NewFromInt(1), decimal.NewFromInt(50), valueobject.MustPercent(0))
	require.NoError(t, err)

	quotationRepo.On("FindByIDForTenant", mock.Anything, tenantID, q.ID).Return(q, nil)
	orderRepo.On("GenerateOrderNumber", mock.Anything, tenantID).Return("SO-2025-00002", nil)

	_, err = service.ConvertToOrder(context.Background(), tenantID, q.ID)
	assert.True(t, shared.IsConflict(err))
	orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestQuotationService_Revise(t *testing.T) {
	quotationRepo := new(MockQuotationRepository)
	orderRepo := new(MockSalesOrderRepository)
	service := NewQuotationService(quotationRepo, orderRepo)

	tenantID := uuid.New()
	q, err := sales.NewQuotation(tenantID, "QT-2025-00004", uuid.New(), "Acme Ltd", valueobject.TRY)
	require.NoError(t, err)
	_, err = q.AddItem(uuid.New(), "Widget", "WGT-1", "pcs", decimal.NewFromInt(1), decimal.NewFromInt(50), valueobject.MustPercent(0))
	require.NoError(t, err)
	require.NoError(t, q.Submit())
	require.NoError(t, q.Approve(uuid.New()))
	require.NoError(t, q.Send())
	require.NoError(t, q.Reject("too expensive"))

	quotationRepo.On("FindByIDForTenant", mock.Anything, tenantID, q.ID).Return(q, nil)
	quotationRepo.On("GenerateQuotationNumber", mock.Anything, tenantID).Return("QT-2025-00005", nil)
	quotationRepo.On("Save", mock.Anything, mock.AnythingOfType("*sales.Quotation")).Return(nil)

	resp, err := service.Revise(context.Background(), tenantID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "QT-2025-00005", resp.QuotationNumber)
	assert.Equal(t, string(sales.QuotationStatusDraft), resp.Status)
	assert.Equal(t, q.RevisionNumber+1, resp.RevisionNumber)
	require.NotNil(t, resp.ParentQuotationID)
	assert.Equal(t, q.ID, *resp.ParentQuotationID)
	quotationRepo.AssertExpectations(t)
}

func TestQuotationService_List(t *testing.T) {
	quotationRepo := new(MockQuotationRepository)
	orderRepo := new(MockSalesOrderRepository)
	service := NewQuotationService(quotationRepo, orderRepo)

	tenantID := uuid.New()
	q, err := sales.NewQuotation(tenantID, "QT-2025-00006", uuid.New(), "Acme Ltd", valueobject.TRY)
	require.NoError(t, err)

	filter := shared.DefaultFilter()
	quotationRepo.On("FindAllForTenant", mock.Anything, tenantID, filter).Return([]sales.Quotation{*q}, nil)
	quotationRepo.On("CountForTenant", mock.Anything, tenantID, filter).Return(int64(1), nil)

	page, err := service.List(context.Background(), tenantID, filter)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.TotalPages)
}
