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
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func dp(v int64) *decimal.Decimal {
	val := decimal.NewFromInt(v)
	return &val
}

// tieredPlan builds an active plan with bands 0-1000 at 5 percent,
// 1000-5000 at 8 percent and 5000 up at 10 percent
func tieredPlan(t *testing.T, tenantID uuid.UUID) *commission.CommissionPlan {
	t.Helper()

	plan, err := commission.NewCommissionPlan(tenantID, "Standard Tiered", commission.PlanTypeTiered)
	require.NoError(t, err)
	_, err = plan.AddTier(d(0), dp(1000), d(5), nil)
	require.NoError(t, err)
	_, err = plan.AddTier(d(1000), dp(5000), d(8), nil)
	require.NoError(t, err)
	_, err = plan.AddTier(d(5000), nil, d(10), nil)
	require.NoError(t, err)
	return plan
}

func TestPlanService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	planRepo := new(MockCommissionPlanRepository)
	planRepo.On("Save", ctx, mock.AnythingOfType("*commission.CommissionPlan")).Return(nil)

	service := NewPlanService(planRepo)

	maxCommission := d(2000)
	resp, err := service.Create(ctx, tenantID, CreatePlanRequest{
		Name:              "Standard Tiered",
		Type:              string(commission.PlanTypeTiered),
		MaximumCommission: &maxCommission,
		Tiers: []CreateTierInput{
			{FromAmount: d(0), ToAmount: dp(1000), Rate: d(5)},
			{FromAmount: d(1000), ToAmount: nil, Rate: d(8)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Standard Tiered", resp.Name)
	assert.True(t, resp.IsActive)
	require.Len(t, resp.Tiers, 2)
	assert.True(t, resp.Tiers[0].FromAmount.IsZero())
	planRepo.AssertExpectations(t)
}

func TestPlanService_Create_OverlappingTiers(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	planRepo := new(MockCommissionPlanRepository)

	service := NewPlanService(planRepo)

	_, err := service.Create(ctx, tenantID, CreatePlanRequest{
		Name: "Broken",
		Type: string(commission.PlanTypeTiered),
		Tiers: []CreateTierInput{
			{FromAmount: d(0), ToAmount: dp(2000), Rate: d(5)},
			{FromAmount: d(1000), ToAmount: nil, Rate: d(8)},
		},
	})

	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	planRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPlanService_CalculatePreview(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	plan := tieredPlan(t, tenantID)

	planRepo := new(MockCommissionPlanRepository)
	planRepo.On("FindByIDForTenant", ctx, tenantID, plan.ID).Return(plan, nil)

	service := NewPlanService(planRepo)

	// 1000 x 5% + 4000 x 8% + 5000 x 10% = 50 + 320 + 500
	resp, err := service.CalculatePreview(ctx, tenantID, plan.ID, CalculatePreviewRequest{
		BaseAmount: d(10000),
	})

	require.NoError(t, err)
	assert.True(t, resp.CommissionAmount.Equal(d(870)), "got %s", resp.CommissionAmount)
	assert.Equal(t, plan.Name, resp.PlanName)
}

func TestPlanService_CalculatePreview_DeactivatedPlan(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	plan := tieredPlan(t, tenantID)
	plan.Deactivate()

	planRepo := new(MockCommissionPlanRepository)
	planRepo.On("FindByIDForTenant", ctx, tenantID, plan.ID).Return(plan, nil)

	service := NewPlanService(planRepo)

	_, err := service.CalculatePreview(ctx, tenantID, plan.ID, CalculatePreviewRequest{
		BaseAmount: d(10000),
	})

	require.Error(t, err)
	assert.True(t, shared.IsConflict(err))
}

func TestPlanService_AddAndRemoveTier(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	plan, err := commission.NewCommissionPlan(tenantID, "Growing", commission.PlanTypeTiered)
	require.NoError(t, err)

	planRepo := new(MockCommissionPlanRepository)
	planRepo.On("FindByIDForTenant", ctx, tenantID, plan.ID).Return(plan, nil)
	planRepo.On("SaveWithLock", ctx, plan).Return(nil)

	service := NewPlanService(planRepo)

	resp, err := service.AddTier(ctx, tenantID, plan.ID, AddTierRequest{
		FromAmount: d(0), ToAmount: dp(1000), Rate: d(5),
	})
	require.NoError(t, err)
	require.Len(t, resp.Tiers, 1)

	resp, err = service.RemoveTier(ctx, tenantID, plan.ID, resp.Tiers[0].ID)
	require.NoError(t, err)
	assert.Empty(t, resp.Tiers)
}
