package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/sales/internal/domain/commission"
)

func newTestPlan(t *testing.T, tenantID uuid.UUID) *commission.CommissionPlan {
	t.Helper()

	plan, err := commission.NewCommissionPlan(tenantID, "Standard tiers", commission.PlanTypeTiered)
	require.NoError(t, err)

	band := decimal.NewFromInt(1000)
	_, err = plan.AddTier(decimal.Zero, &band, decimal.NewFromInt(5), nil)
	require.NoError(t, err)
	_, err = plan.AddTier(band, nil, decimal.NewFromInt(8), nil)
	require.NoError(t, err)

	return plan
}

func TestGormCommissionPlanRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCommissionPlanRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	plan := newTestPlan(t, tenantID)
	require.NoError(t, repo.Save(ctx, plan))

	found, err := repo.FindByIDForTenant(ctx, tenantID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, commission.PlanTypeTiered, found.Type)
	require.Len(t, found.Tiers, 2)
}

func TestGormCommissionPlanRepository_FindActiveForTenant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCommissionPlanRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	active := newTestPlan(t, tenantID)
	require.NoError(t, repo.Save(ctx, active))

	inactive := newTestPlan(t, tenantID)
	inactive.Deactivate()
	require.NoError(t, repo.Save(ctx, inactive))

	plans, err := repo.FindActiveForTenant(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, active.ID, plans[0].ID)
}

func TestGormCommissionPlanRepository_TierReconciliation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCommissionPlanRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	plan := newTestPlan(t, tenantID)
	require.NoError(t, repo.Save(ctx, plan))

	require.NoError(t, plan.RemoveTier(plan.Tiers[1].ID))
	require.NoError(t, repo.SaveWithLock(ctx, plan))

	found, err := repo.FindByIDForTenant(ctx, tenantID, plan.ID)
	require.NoError(t, err)
	require.Len(t, found.Tiers, 1)
	assert.True(t, found.Tiers[0].FromAmount.IsZero())
}
