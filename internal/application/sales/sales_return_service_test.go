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

func deliveredOrder(t *testing.T, tenantID uuid.UUID) *sales.SalesOrder {
	t.Helper()
	order, err := sales.NewSalesOrder(tenantID, "SO-2025-00020", uuid.New(), "Acme Ltd", valueobject.TRY)
	require.NoError(t, err)
	_, err = order.AddItem(uuid.New(), "Widget", "WGT-1", "pcs", decimal.NewFromInt(5), decimal.NewFromInt(100), valueobject.MustPercent(20))
	require.NoError(t, err)
	require.NoError(t, order.Approve(uuid.New()))
	require.NoError(t, order.Confirm())
	require.NoError(t, order.Ship(nil))
	require.NoError(t, order.Deliver())
	order.ClearDomainEvents()
	return order
}

func TestSalesReturnService_Create(t *testing.T) {
	returnRepo := new(MockSalesReturnRepository)
	orderRepo := new(MockSalesOrderRepository)
	service := NewSalesReturnService(returnRepo, orderRepo)

	tenantID := uuid.New()
	order := deliveredOrder(t, tenantID)

	orderRepo.On("FindByIDForTenant", mock.Anything, tenantID, order.ID).Return(order, nil)
	returnRepo.On("GenerateReturnNumber", mock.Anything, tenantID).Return("SR-2025-00001", nil)
	returnRepo.On("Save", mock.Anything, mock.AnythingOfType("*sales.SalesReturn")).Return(nil)

	resp, err := service.Create(context.Background(), tenantID, CreateSalesReturnRequest{
		SalesOrderID: order.ID,
		Reason:       "damaged in transit",
		Items: []CreateSalesReturnItemInput{
			{
				SalesOrderItemID: order.Items[0].ID,
				Quantity:         decimal.NewFromInt(2),
				Condition:        string(sales.ReturnConditionDamaged),
				Reason:           "crushed packaging",
			},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "SR-2025-00001", resp.ReturnNumber)
	assert.Equal(t, string(sales.SalesReturnStatusPending), resp.Status)
	assert.Equal(t, order.OrderNumber, resp.OrderNumber)
	// 2 x 100 with 20% VAT
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(240)))
	returnRepo.AssertExpectations(t)
}

func TestSalesReturnService_Create_ExceedsDelivered(t *testing.T) {
	returnRepo := new(MockSalesReturnRepository)
	orderRepo := new(MockSalesOrderRepository)
	service := NewSalesReturnService(returnRepo, orderRepo)

	tenantID := uuid.New()
	order := deliveredOrder(t, tenantID)

	orderRepo.On("FindByIDForTenant", mock.Anything, tenantID, order.ID).Return(order, nil)
	returnRepo.On("GenerateReturnNumber", mock.Anything, tenantID).Return("SR-2025-00002", nil)

	_, err := service.Create(context.Background(), tenantID, CreateSalesReturnRequest{
		SalesOrderID: order.ID,
		Reason:       "damaged in transit",
		Items: []CreateSalesReturnItemInput{
			{
				SalesOrderItemID: order.Items[0].ID,
				Quantity:         decimal.NewFromInt(6),
				Condition:        string(sales.ReturnConditionDamaged),
				Reason:           "crushed packaging",
			},
		},
	})

	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	assert.Equal(t, "RETURN_EXCEEDS_DELIVERED", shared.CodeOf(err))
	returnRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSalesReturnService_Create_UnknownOrderItem(t *testing.T) {
	returnRepo := new(MockSalesReturnRepository)
	orderRepo := new(MockSalesOrderRepository)
	service := NewSalesReturnService(returnRepo, orderRepo)

	tenantID := uuid.New()
	order := deliveredOrder(t, tenantID)

	orderRepo.On("FindByIDForTenant", mock.Anything, tenantID, order.ID).Return(order, nil)
	returnRepo.On("GenerateReturnNumber", mock.Anything, tenantID).Return("SR-2025-00003", nil)

	_, err := service.Create(context.Background(), tenantID, CreateSalesReturnRequest{
		SalesOrderID: order.ID,
		Reason:       "damaged in transit",
		Items: []CreateSalesReturnItemInput{
			{
				SalesOrderItemID: uuid.New(),
				Quantity:         decimal.NewFromInt(1),
				Condition:        string(sales.ReturnConditionNew),
				Reason:           "wrong item",
			},
		},
	})

	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}

func TestSalesReturnService_ApprovalFlow(t *testing.T) {
	returnRepo := new(MockSalesReturnRepository)
	orderRepo := new(MockSalesOrderRepository)
	service := NewSalesReturnService(returnRepo, orderRepo)

	tenantID := uuid.New()
	order := deliveredOrder(t, tenantID)
	ret, err := sales.NewSalesReturn(tenantID, "SR-2025-00004", order.ID, order.OrderNumber, order.CustomerID, order.CustomerName, "damaged", order.Currency)
	require.NoError(t, err)
	_, err = ret.AddItem(order.Items[0].ID, order.Items[0].ProductID, order.Items[0].ProductName,
		decimal.NewFromInt(1), order.Items[0].UnitPrice, valueobject.MustPercent(20),
		sales.ReturnConditionDamaged, "crushed")
	require.NoError(t, err)
	require.NoError(t, ret.Submit())
	ret.ClearDomainEvents()

	returnRepo.On("FindByIDForTenant", mock.Anything, tenantID, ret.ID).Return(ret, nil)
	returnRepo.On("SaveWithLock", mock.Anything, ret).Return(nil)

	resp, err := service.Approve(context.Background(), tenantID, ret.ID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, string(sales.SalesReturnStatusApproved), resp.Status)
	returnRepo.AssertExpectations(t)
}

func TestSalesReturnService_Refund(t *testing.T) {
	returnRepo := new(MockSalesReturnRepository)
	orderRepo := new(MockSalesOrderRepository)
	service := NewSalesReturnService(returnRepo, orderRepo)

	tenantID := uuid.New()
	order := deliveredOrder(t, tenantID)
	ret, err := sales.NewSalesReturn(tenantID, "SR-2025-00005", order.ID, order.OrderNumber, order.CustomerID, order.CustomerName, "damaged", order.Currency)
	require.NoError(t, err)
	_, err = ret.AddItem(order.Items[0].ID, order.Items[0].ProductID, order.Items[0].ProductName,
		decimal.NewFromInt(1), order.Items[0].UnitPrice, valueobject.MustPercent(20),
		sales.ReturnConditionDamaged, "crushed")
	require.NoError(t, err)
	require.NoError(t, ret.Submit())
	require.NoError(t, ret.Approve(uuid.New()))
	require.NoError(t, ret.Receive())
	ret.ClearDomainEvents()

	returnRepo.On("FindByIDForTenant", mock.Anything, tenantID, ret.ID).Return(ret, nil)
	returnRepo.On("SaveWithLock", mock.Anything, ret).Return(nil)

	resp, err := service.Refund(context.Background(), tenantID, ret.ID, RefundSalesReturnRequest{
		Amount: decimal.NewFromInt(120),
	})
	require.NoError(t, err)
	assert.Equal(t, string(sales.SalesReturnStatusRefunded), resp.Status)
	assert.True(t, resp.RefundAmount.Equal(decimal.NewFromInt(120)))
}
