package commission

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erp/sales/internal/domain/commission"
	"github.com/erp/sales/internal/domain/sales"
	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

func completedEvent(tenantID, orderID uuid.UUID, salesPersonID *uuid.UUID, total int64) *sales.SalesOrderCompletedEvent {
	return &sales.SalesOrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(sales.EventTypeSalesOrderCompleted, "SalesOrder", orderID, tenantID),
		OrderNumber:     "SO-2026-00021",
		CustomerID:      uuid.New(),
		SalesPersonID:   salesPersonID,
		TotalAmount:     decimal.NewFromInt(total),
		Currency:        "TRY",
	}
}

func TestSalesOrderCompletedHandler_CalculatesCommission(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	orderID := uuid.New()
	salesPersonID := uuid.New()

	plan := flatRatePlan(t, tenantID)

	planRepo := new(MockCommissionPlanRepository)
	planRepo.On("FindActiveForTenant", ctx, tenantID).Return([]commission.CommissionPlan{*plan}, nil)

	var saved *commission.SalesCommission
	commissionRepo := new(MockSalesCommissionRepository)
	commissionRepo.On("FindBySalesOrder", ctx, tenantID, orderID).Return([]commission.SalesCommission{}, nil)
	commissionRepo.On("Save", ctx, mock.AnythingOfType("*commission.SalesCommission")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*commission.SalesCommission)
		}).Return(nil)

	handler := NewSalesOrderCompletedHandler(commissionRepo, planRepo, zap.NewNop())

	err := handler.Handle(ctx, completedEvent(tenantID, orderID, &salesPersonID, 1000))

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, salesPersonID, saved.SalesPersonID)
	assert.Equal(t, orderID, saved.SalesOrderID)
	assert.True(t, saved.CommissionAmount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, valueobject.TRY, saved.Currency)
	commissionRepo.AssertExpectations(t)
}

func TestSalesOrderCompletedHandler_SkipsOrdersWithoutSalesPerson(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	planRepo := new(MockCommissionPlanRepository)
	commissionRepo := new(MockSalesCommissionRepository)

	handler := NewSalesOrderCompletedHandler(commissionRepo, planRepo, zap.NewNop())

	err := handler.Handle(ctx, completedEvent(tenantID, uuid.New(), nil, 1000))

	require.NoError(t, err)
	commissionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSalesOrderCompletedHandler_SkipsWhenNoActivePlan(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	orderID := uuid.New()
	salesPersonID := uuid.New()

	planRepo := new(MockCommissionPlanRepository)
	planRepo.On("FindActiveForTenant", ctx, tenantID).Return([]commission.CommissionPlan{}, nil)

	commissionRepo := new(MockSalesCommissionRepository)
	commissionRepo.On("FindBySalesOrder", ctx, tenantID, orderID).Return([]commission.SalesCommission{}, nil)

	handler := NewSalesOrderCompletedHandler(commissionRepo, planRepo, zap.NewNop())

	err := handler.Handle(ctx, completedEvent(tenantID, orderID, &salesPersonID, 1000))

	require.NoError(t, err)
	commissionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSalesOrderCompletedHandler_IgnoresRedelivery(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	orderID := uuid.New()
	salesPersonID := uuid.New()

	plan := flatRatePlan(t, tenantID)
	existing, err := commission.NewSalesCommission(tenantID, salesPersonID, orderID,
		"SO-2026-00021", plan, decimal.NewFromInt(1000), decimal.NewFromInt(100), valueobject.TRY)
	require.NoError(t, err)

	planRepo := new(MockCommissionPlanRepository)
	commissionRepo := new(MockSalesCommissionRepository)
	commissionRepo.On("FindBySalesOrder", ctx, tenantID, orderID).Return([]commission.SalesCommission{*existing}, nil)

	handler := NewSalesOrderCompletedHandler(commissionRepo, planRepo, zap.NewNop())

	err = handler.Handle(ctx, completedEvent(tenantID, orderID, &salesPersonID, 1000))

	require.NoError(t, err)
	commissionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	planRepo.AssertNotCalled(t, "FindActiveForTenant", mock.Anything, mock.Anything)
}
