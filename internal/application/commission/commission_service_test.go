package commission

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/erp/sales/internal/domain/commission"
	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// flatRatePlan builds an active 10 percent flat rate plan
func flatRatePlan(t *testing.T, tenantID uuid.UUID) *commission.CommissionPlan {
	t.Helper()

	plan, err := commission.NewCommissionPlan(tenantID, "Flat 10", commission.PlanTypeFlatRate)
	require.NoError(t, err)
	plan.SetFlatRate(valueobject.MustPercent(10))
	return plan
}

func TestCommissionService_CalculateForOrder(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	salesPersonID := uuid.New()
	orderID := uuid.New()

	plan := flatRatePlan(t, tenantID)

	planRepo := new(MockCommissionPlanRepository)
	planRepo.On("FindByIDForTenant", ctx, tenantID, plan.ID).Return(plan, nil)

	commissionRepo := new(MockSalesCommissionRepository)
	commissionRepo.On("FindBySalesOrder", ctx, tenantID, orderID).Return([]commission.SalesCommission{}, nil)
	commissionRepo.On("Save", ctx, mock.AnythingOfType("*commission.SalesCommission")).Return(nil)

	service := NewCommissionService(commissionRepo, planRepo)

	resp, err := service.CalculateForOrder(ctx, tenantID, plan.ID, salesPersonID, orderID,
		"SO-2026-00021", decimal.NewFromInt(1000), valueobject.TRY)

	require.NoError(t, err)
	assert.Equal(t, string(commission.CommissionStatusCalculated), resp.Status)
	assert.True(t, resp.CommissionAmount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, orderID, resp.SalesOrderID)
	assert.Equal(t, plan.Name, resp.PlanName)
	commissionRepo.AssertExpectations(t)
}

func TestCommissionService_CalculateForOrder_Duplicate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	salesPersonID := uuid.New()
	orderID := uuid.New()

	plan := flatRatePlan(t, tenantID)
	existing, err := commission.NewSalesCommission(tenantID, salesPersonID, orderID,
		"SO-2026-00021", plan, decimal.NewFromInt(1000), decimal.NewFromInt(100), valueobject.TRY)
	require.NoError(t, err)

	planRepo := new(MockCommissionPlanRepository)
	commissionRepo := new(MockSalesCommissionRepository)
	commissionRepo.On("FindBySalesOrder", ctx, tenantID, orderID).Return([]commission.SalesCommission{*existing}, nil)

	service := NewCommissionService(commissionRepo, planRepo)

	_, err = service.CalculateForOrder(ctx, tenantID, plan.ID, salesPersonID, orderID,
		"SO-2026-00021", decimal.NewFromInt(1000), valueobject.TRY)

	require.Error(t, err)
	assert.True(t, shared.IsConflict(err))
	commissionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCommissionService_PayoutLifecycle(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	approverID := uuid.New()

	plan := flatRatePlan(t, tenantID)
	c, err := commission.NewSalesCommission(tenantID, uuid.New(), uuid.New(),
		"SO-2026-00021", plan, decimal.NewFromInt(1000), decimal.NewFromInt(100), valueobject.TRY)
	require.NoError(t, err)

	commissionRepo := new(MockSalesCommissionRepository)
	commissionRepo.On("FindByIDForTenant", ctx, tenantID, c.ID).Return(c, nil)
	commissionRepo.On("SaveWithLock", ctx, c).Return(nil)

	service := NewCommissionService(commissionRepo, new(MockCommissionPlanRepository))

	resp, err := service.Approve(ctx, tenantID, c.ID, ApproveCommissionRequest{ApproverID: approverID})
	require.NoError(t, err)
	assert.Equal(t, string(commission.CommissionStatusApproved), resp.Status)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, approverID, *resp.ApprovedBy)

	resp, err = service.MarkPaid(ctx, tenantID, c.ID, MarkCommissionPaidRequest{PaymentReference: "PAYRUN-2026-09"})
	require.NoError(t, err)
	assert.Equal(t, string(commission.CommissionStatusPaid), resp.Status)
	assert.Equal(t, "PAYRUN-2026-09", resp.PaymentReference)

	_, err = service.Cancel(ctx, tenantID, c.ID, CancelCommissionRequest{Reason: "too late"})
	require.Error(t, err)
	assert.True(t, shared.IsConflict(err))
}
